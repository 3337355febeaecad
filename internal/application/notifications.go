package application

import (
	"context"

	"github.com/bnema/claude-usage-cli/internal/domain"
)

// evaluateThresholdsLocked advances the account's notification state for its
// current session percentage. It reports whether the persisted state changed.
func (m *Monitor) evaluateThresholdsLocked(account *domain.Account) ([]domain.Notification, bool) {
	if !m.settings.NotificationsEnabled {
		return nil, false
	}

	percentage := account.SessionPercentage()
	crossed, next := domain.EvaluateThresholds(account.LastNotifiedThreshold, percentage)
	if next == account.LastNotifiedThreshold {
		return nil, false
	}
	account.LastNotifiedThreshold = next

	notifications := make([]domain.Notification, 0, len(crossed))
	for _, threshold := range crossed {
		notifications = append(notifications, domain.Notification{
			AccountID:   account.ID,
			AccountName: account.Name,
			Threshold:   threshold,
			Percentage:  percentage,
		})
	}

	return notifications, true
}

// deliverThresholds sends each crossed band and records it before moving on
// to the next one, so an interrupted run repeats at most one notification.
// A drop without notifications records the re-armed threshold directly.
func (m *Monitor) deliverThresholds(ctx context.Context, id domain.AccountID, notifications []domain.Notification, threshold int) {
	if len(notifications) == 0 {
		m.saveThreshold(ctx, id, threshold)
		return
	}

	for _, notification := range notifications {
		m.sendNotification(ctx, notification)
		m.saveThreshold(ctx, id, notification.Threshold)
	}
}

func (m *Monitor) sendNotification(ctx context.Context, notification domain.Notification) {
	if m.notifier == nil {
		return
	}

	if err := m.notifier.Notify(ctx, notification); err != nil {
		m.logger.Warn("notification failed", "account_id", notification.AccountID, "threshold", notification.Threshold, "err", err)
		return
	}
	m.logger.Info("threshold notification sent", "account_id", notification.AccountID, "threshold", notification.Threshold, "percentage", notification.Percentage)
}

func (m *Monitor) saveThreshold(ctx context.Context, id domain.AccountID, threshold int) {
	if err := m.store.SaveThreshold(ctx, id, threshold); err != nil {
		m.logger.Warn("persist notification threshold failed", "account_id", id, "threshold", threshold, "err", err)
	}
}
