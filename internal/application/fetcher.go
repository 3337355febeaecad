package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/claude-usage-cli/internal/domain"
	"golang.org/x/sync/errgroup"
)

// FetchAll refreshes the collection from the store and fetches every account
// concurrently. A failing account never stops its siblings. Once the round is
// over the collection is refreshed again, persisted and the status signal
// published.
func (m *Monitor) FetchAll(ctx context.Context) {
	m.Refresh(ctx)

	m.mu.Lock()
	ids := make([]domain.AccountID, 0, len(m.accounts))
	for _, account := range m.accounts {
		ids = append(ids, account.ID)
	}
	m.mu.Unlock()

	var group errgroup.Group
	group.SetLimit(domain.MaxAccounts)
	for _, id := range ids {
		group.Go(func() error {
			m.fetchOne(ctx, id)
			return nil
		})
	}
	_ = group.Wait()

	m.Refresh(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.persistLocked(ctx)
	m.publishLocked()
}

// FetchOne fetches a single account and publishes the new status signal.
func (m *Monitor) FetchOne(ctx context.Context, id domain.AccountID) {
	m.fetchOne(ctx, id)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.publishLocked()
}

func (m *Monitor) fetchOne(ctx context.Context, id domain.AccountID) {
	m.mu.Lock()
	account := m.findLocked(id)
	if account == nil {
		m.mu.Unlock()
		return
	}

	if !account.IsConfigured() {
		account.IsLoading = false
		account.ErrorMessage = domain.ErrorMessage(domain.ErrNotConfigured)
		m.mu.Unlock()
		return
	}

	m.requests[id]++
	token := m.requests[id]
	credential := account.Credential
	account.IsLoading = true
	account.ErrorMessage = ""
	m.mu.Unlock()

	report, fetchErr := m.retrieveUsage(ctx, credential)

	m.mu.Lock()
	account = m.currentRequestLocked(id, token, credential)
	if account == nil {
		m.mu.Unlock()
		m.logger.Debug("discarding stale usage result", "account_id", id)
		return
	}

	account.IsLoading = false
	if fetchErr != nil {
		account.ErrorMessage = domain.ErrorMessage(fetchErr)
		m.mu.Unlock()
		m.logger.Warn("usage fetch failed", "account_id", id, "err", fetchErr)
		return
	}

	domain.ApplyUsage(account, report)
	account.LastUpdated = m.clock.Now()
	notifications, changed := m.evaluateThresholdsLocked(account)
	threshold := account.LastNotifiedThreshold
	m.mu.Unlock()

	if !changed {
		return
	}

	m.deliverThresholds(ctx, id, notifications, threshold)
}

// currentRequestLocked returns the account only if the request identified by
// token is still the latest one for it and was made with its current
// credential.
func (m *Monitor) currentRequestLocked(id domain.AccountID, token uint64, credential string) *domain.Account {
	account := m.findLocked(id)
	if account == nil {
		return nil
	}
	if account.Credential != credential {
		return nil
	}
	if m.requests[id] != token {
		return nil
	}

	return account
}

func (m *Monitor) retrieveUsage(ctx context.Context, credential string) (domain.UsageReport, error) {
	organizationID, err := m.ResolveOrganization(ctx, credential)
	if err != nil {
		return domain.UsageReport{}, err
	}

	body, err := m.api.Usage(ctx, organizationID, credential)
	if err != nil {
		return domain.UsageReport{}, fmt.Errorf("fetch usage: %w", err)
	}

	report, err := domain.ParseUsage(body)
	if err != nil {
		return domain.UsageReport{}, fmt.Errorf("parse usage: %w", err)
	}

	return report, nil
}

// ResolveOrganization returns the organization id the usage endpoint must be
// queried with, taken from the credential itself when possible and from the
// bootstrap endpoint otherwise. Failures wrap domain.ErrOrganizationUnresolved.
func (m *Monitor) ResolveOrganization(ctx context.Context, credential string) (string, error) {
	if organizationID, ok := domain.OrganizationFromCredential(credential); ok {
		return organizationID, nil
	}

	organizationID, err := m.api.Bootstrap(ctx, credential)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrOrganizationUnresolved, err)
	}

	organizationID = strings.TrimSpace(organizationID)
	if organizationID == "" {
		return "", fmt.Errorf("%w: bootstrap response has no organization", domain.ErrOrganizationUnresolved)
	}

	return organizationID, nil
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}

	cloned := *value
	return &cloned
}
