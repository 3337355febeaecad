package application

import (
	"time"

	"github.com/bnema/claude-usage-cli/internal/domain"
)

type WindowStatus struct {
	Window     domain.Window `json:"window"`
	Percentage int           `json:"percentage"`
	ResetsAt   *time.Time    `json:"resets_at"`
}

// AccountStatus is the read model rendered by the CLI. It never carries the
// credential.
type AccountStatus struct {
	ID                    domain.AccountID `json:"id"`
	Name                  string           `json:"name"`
	Configured            bool             `json:"configured"`
	HasFetchedData        bool             `json:"has_fetched_data"`
	IsLoading             bool             `json:"is_loading"`
	ErrorMessage          string           `json:"error_message,omitempty"`
	LastUpdated           time.Time        `json:"last_updated"`
	LastNotifiedThreshold int              `json:"last_notified_threshold"`
	Session               WindowStatus     `json:"session"`
	Weekly                WindowStatus     `json:"weekly"`
	Secondary             *WindowStatus    `json:"secondary,omitempty"`
}

func statusFromAccount(account domain.Account) AccountStatus {
	status := AccountStatus{
		ID:                    account.ID,
		Name:                  account.Name,
		Configured:            account.IsConfigured(),
		HasFetchedData:        account.HasFetchedData,
		IsLoading:             account.IsLoading,
		ErrorMessage:          account.ErrorMessage,
		LastUpdated:           account.LastUpdated,
		LastNotifiedThreshold: account.LastNotifiedThreshold,
		Session:               windowStatus(domain.WindowSession, account.Session),
		Weekly:                windowStatus(domain.WindowWeekly, account.Weekly),
	}

	if account.HasSecondaryMetric {
		secondary := windowStatus(domain.WindowSecondary, account.Secondary)
		status.Secondary = &secondary
	}

	return status
}

func windowStatus(window domain.Window, usage domain.UsageWindow) WindowStatus {
	return WindowStatus{
		Window:     window,
		Percentage: usage.Percentage(),
		ResetsAt:   cloneTime(usage.ResetsAt),
	}
}
