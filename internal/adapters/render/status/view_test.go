package status

import (
	"testing"
	"time"

	"github.com/bnema/claude-usage-cli/internal/application"
	"github.com/bnema/claude-usage-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t time.Time) *time.Time {
	return &t
}

func fetchedStatus(id domain.AccountID, name string, session, weekly int, now time.Time) application.AccountStatus {
	return application.AccountStatus{
		ID:             id,
		Name:           name,
		Configured:     true,
		HasFetchedData: true,
		LastUpdated:    now,
		Session:        application.WindowStatus{Window: domain.WindowSession, Percentage: session, ResetsAt: at(now.Add(3 * time.Hour))},
		Weekly:         application.WindowStatus{Window: domain.WindowWeekly, Percentage: weekly, ResetsAt: at(now.Add(4 * 24 * time.Hour))},
	}
}

func TestRenderSingleAccountStatus(t *testing.T) {
	now := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)

	status := fetchedStatus("acc-1", "Work", 73, 20, now)
	status.Session.ResetsAt = at(now.Add(13 * time.Hour))

	output, err := Render([]application.AccountStatus{status}, domain.StatusSignal{Percentage: 73, HasData: true}, RenderOptions{Now: now, StaleAfter: time.Hour})

	require.NoError(t, err)
	assert.Contains(t, output, "accounts: 1/5")
	assert.Contains(t, output, "session: 73%")
	assert.Contains(t, output, "Work (acc-1)")
	assert.Contains(t, output, "5h")
	assert.Contains(t, output, "7d")
	assert.Contains(t, output, " 73% used")
	assert.Contains(t, output, "resets in 13 hours (00:00)")
	assert.Contains(t, output, "resets in 4 days (11:00 on 18 Feb)")
	assert.NotContains(t, output, "7d sonnet")
	assert.NotContains(t, output, "stale")
}

func TestRenderSecondaryWindowAndUnknownReset(t *testing.T) {
	now := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)

	status := fetchedStatus("acc-1", "Work", 10, 20, now)
	status.Weekly.ResetsAt = nil
	status.Secondary = &application.WindowStatus{Window: domain.WindowSecondary, Percentage: 5}

	output, err := Render([]application.AccountStatus{status}, domain.StatusSignal{Percentage: 10, HasData: true}, RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "7d sonnet")
	assert.Contains(t, output, "(reset unknown)")
}

func TestRenderAccountStates(t *testing.T) {
	now := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)

	output, err := Render([]application.AccountStatus{
		{ID: "acc-1", Name: "Broken", Configured: true, ErrorMessage: "HTTP 401"},
		{ID: "acc-2", Name: "Blank", ErrorMessage: "Not configured"},
		{ID: "acc-3", Name: "Pending", Configured: true, IsLoading: true},
		{ID: "acc-4", Name: "Idle", Configured: true},
	}, domain.StatusSignal{}, RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "session: --")
	assert.Contains(t, output, "error: HTTP 401")
	assert.Contains(t, output, "error: Not configured")
	assert.Contains(t, output, "loading...")
	assert.Contains(t, output, "usage: n/a")
}

func TestRenderMarksStaleData(t *testing.T) {
	now := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)

	status := fetchedStatus("acc-1", "Work", 80, 20, now)
	status.LastUpdated = now.Add(-2 * time.Hour)

	output, err := Render([]application.AccountStatus{status}, domain.StatusSignal{Percentage: 80, HasData: true}, RenderOptions{Now: now, StaleAfter: 30 * time.Minute})
	require.NoError(t, err)
	assert.Contains(t, output, "[stale]")

	output, err = Render([]application.AccountStatus{status}, domain.StatusSignal{Percentage: 80, HasData: true}, RenderOptions{StaleAfter: 30 * time.Minute})
	require.NoError(t, err)
	assert.NotContains(t, output, "[stale]")
}

func TestRenderNoAccounts(t *testing.T) {
	output, err := Render(nil, domain.StatusSignal{}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "accounts: 0/5")
	assert.Contains(t, output, "No accounts linked")
}

func TestStatusLine(t *testing.T) {
	line := StatusLine(domain.StatusSignal{
		Percentage: 64,
		HasData:    true,
		Accounts: []domain.AccountPercentage{
			{AccountID: "acc-1", Name: "Work", Percentage: 64},
			{AccountID: "acc-2", Name: "Home", Percentage: 12},
		},
	})

	assert.Contains(t, line, "64%")
	assert.Contains(t, line, "Work 64%")
	assert.Contains(t, line, "Home 12%")
	assert.Contains(t, StatusLine(domain.StatusSignal{}), "--")
}

func TestRenderProgressBarWidth(t *testing.T) {
	s := newStyles()

	assert.Equal(t, "[======----]", renderProgressBar(60, 10, s))
	assert.Equal(t, "[==========]", renderProgressBar(150, 10, s))
	assert.Empty(t, renderProgressBar(50, 0, s))
}
