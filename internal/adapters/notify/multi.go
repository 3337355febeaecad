package notify

import (
	"context"
	"errors"

	"github.com/bnema/claude-usage-cli/internal/domain"
	"github.com/bnema/claude-usage-cli/internal/ports"
)

// Multi fans a notification out to every transport. A failing transport does
// not stop the others.
type Multi []ports.Notifier

func (m Multi) Notify(ctx context.Context, notification domain.Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, notification); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
