package ports

import (
	"context"

	"github.com/bnema/claude-usage-cli/internal/domain"
)

type Notifier interface {
	Notify(ctx context.Context, notification domain.Notification) error
}
