package ports

import (
	"context"

	"github.com/bnema/claude-usage-cli/internal/domain"
)

// AccountRepository persists the multi-account collection.
// Load returns domain.ErrAccountsNotFound when no multi-account record exists.
// SaveThreshold rewrites the notification state of one stored account and is a
// no-op when id is not stored.
type AccountRepository interface {
	Load(ctx context.Context) ([]domain.Account, error)
	SaveAll(ctx context.Context, accounts []domain.Account) error
	SaveThreshold(ctx context.Context, id domain.AccountID, threshold int) error
}

// LegacyRepository reads and clears the pre multi-account credential record.
// LoadLegacy returns domain.ErrLegacyNotFound when there is nothing to migrate.
type LegacyRepository interface {
	LoadLegacy(ctx context.Context) (domain.LegacyCredential, error)
	DeleteLegacy(ctx context.Context) error
}

type SettingsRepository interface {
	LoadSettings(ctx context.Context) (domain.Settings, error)
	SaveSettings(ctx context.Context, settings domain.Settings) error
}

// StateStore is the key-value configuration store holding accounts, settings
// and the legacy record.
type StateStore interface {
	AccountRepository
	LegacyRepository
	SettingsRepository
}
