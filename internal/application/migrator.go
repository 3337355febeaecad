package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/claude-usage-cli/internal/domain"
	"github.com/bnema/claude-usage-cli/internal/ports"
)

const migratedAccountName = "Account 1"

// MigrateLegacy converts the single-credential record into a one-account
// collection. It does nothing once a multi-account record exists or when no
// legacy credential is stored, so running it on every start is safe.
func MigrateLegacy(ctx context.Context, accounts ports.AccountRepository, legacy ports.LegacyRepository, newID func() domain.AccountID) (bool, error) {
	_, err := accounts.Load(ctx)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, domain.ErrAccountsNotFound):
		return false, fmt.Errorf("load accounts: %w", err)
	}

	record, err := legacy.LoadLegacy(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrLegacyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load legacy credential: %w", err)
	}

	credential := strings.TrimSpace(record.Credential)
	if credential == "" {
		return false, nil
	}

	account := domain.NewAccount(newID(), migratedAccountName, credential)
	account.LastNotifiedThreshold = domain.SnapThreshold(record.LastNotifiedThreshold)

	if err := accounts.SaveAll(ctx, []domain.Account{account}); err != nil {
		return false, fmt.Errorf("save migrated account: %w", err)
	}

	if err := legacy.DeleteLegacy(ctx); err != nil {
		return true, fmt.Errorf("delete legacy credential: %w", err)
	}

	return true, nil
}
