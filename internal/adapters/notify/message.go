package notify

import (
	"fmt"

	"github.com/bnema/claude-usage-cli/internal/domain"
)

const appTitle = "Claude usage"

func title(notification domain.Notification) string {
	return fmt.Sprintf("%s: %s", appTitle, notification.AccountName)
}

func message(notification domain.Notification) string {
	return fmt.Sprintf("Session usage passed %d%% (now %d%%)", notification.Threshold, notification.Percentage)
}
