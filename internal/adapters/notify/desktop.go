package notify

import (
	"context"
	"fmt"

	"github.com/bnema/claude-usage-cli/internal/domain"
	"github.com/bnema/claude-usage-cli/internal/ports"
	"github.com/gen2brain/beeep"
)

// Desktop shows a native system notification.
type Desktop struct {
	send func(title, message string) error
}

var _ ports.Notifier = (*Desktop)(nil)

func NewDesktop() *Desktop {
	return &Desktop{send: func(title, message string) error {
		return beeep.Notify(title, message, "")
	}}
}

func (d *Desktop) Notify(ctx context.Context, notification domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := d.send(title(notification), message(notification)); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}

	return nil
}
