package toml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/bnema/claude-usage-cli/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, statePath string) *Repository {
	t.Helper()

	config := viper.New()
	config.Set(StatePathKey, statePath)

	repo, err := NewRepository(config)
	require.NoError(t, err)
	return repo
}

func writeState(t *testing.T, statePath string, lines ...string) {
	t.Helper()

	require.NoError(t, os.WriteFile(statePath, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "state.toml"))

	first := domain.NewAccount("acc-1", "Work", "sessionKey=sk-1; lastActiveOrg=org-1")
	first.LastNotifiedThreshold = 75
	second := domain.NewAccount("acc-2", "Personal", "sessionKey=sk-2")

	require.NoError(t, repo.SaveAll(context.Background(), []domain.Account{first, second}))

	accounts, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Account{first, second}, accounts)
}

func TestRepositorySaveAllDropsVolatileFields(t *testing.T) {
	t.Parallel()

	statePath := filepath.Join(t.TempDir(), "state.toml")
	repo := newTestRepository(t, statePath)

	account := domain.NewAccount("acc-1", "Work", "sessionKey=sk-1")
	account.Session.Usage = 80
	account.HasFetchedData = true
	account.ErrorMessage = "HTTP 500"

	require.NoError(t, repo.SaveAll(context.Background(), []domain.Account{account}))

	accounts, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Zero(t, accounts[0].SessionPercentage())
	assert.False(t, accounts[0].HasFetchedData)
	assert.Empty(t, accounts[0].ErrorMessage)

	data, err := os.ReadFile(statePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 2")
	assert.NotContains(t, string(data), "HTTP 500")
}

func TestRepositorySaveThresholdUpdatesOnlyThatAccount(t *testing.T) {
	t.Parallel()

	statePath := filepath.Join(t.TempDir(), "state.toml")
	repo := newTestRepository(t, statePath)
	other := newTestRepository(t, statePath)

	require.NoError(t, repo.SaveAll(context.Background(), []domain.Account{
		domain.NewAccount("acc-1", "Work", "sessionKey=sk-1"),
	}))
	require.NoError(t, other.SaveAll(context.Background(), []domain.Account{
		domain.NewAccount("acc-1", "Work", "sessionKey=sk-1"),
		domain.NewAccount("acc-2", "Personal", "sessionKey=sk-2"),
	}))

	require.NoError(t, repo.SaveThreshold(context.Background(), "acc-2", 50))
	require.NoError(t, repo.SaveThreshold(context.Background(), "gone", 75))

	accounts, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Zero(t, accounts[0].LastNotifiedThreshold)
	assert.Equal(t, 50, accounts[1].LastNotifiedThreshold)
	assert.Equal(t, "Personal", accounts[1].Name)
}

func TestRepositorySaveThresholdWithoutMultiAccountRecord(t *testing.T) {
	t.Parallel()

	statePath := filepath.Join(t.TempDir(), "state.toml")
	writeState(t, statePath, `session_key = "sk-legacy"`)
	repo := newTestRepository(t, statePath)

	require.NoError(t, repo.SaveThreshold(context.Background(), "acc-1", 25))

	_, err := repo.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrAccountsNotFound)

	legacy, err := repo.LoadLegacy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sk-legacy", legacy.Credential)
}

func TestRepositoryLoadWithoutMultiAccountRecord(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		repo := newTestRepository(t, filepath.Join(t.TempDir(), "missing", "state.toml"))

		_, err := repo.Load(context.Background())
		require.ErrorIs(t, err, domain.ErrAccountsNotFound)
	})

	t.Run("legacy only file", func(t *testing.T) {
		t.Parallel()

		statePath := filepath.Join(t.TempDir(), "state.toml")
		writeState(t, statePath, `session_key = "sessionKey=old"`, `last_notified_threshold = 50`)
		repo := newTestRepository(t, statePath)

		_, err := repo.Load(context.Background())
		require.ErrorIs(t, err, domain.ErrAccountsNotFound)
	})

	t.Run("empty collection is still a record", func(t *testing.T) {
		t.Parallel()

		repo := newTestRepository(t, filepath.Join(t.TempDir(), "state.toml"))
		require.NoError(t, repo.SaveAll(context.Background(), nil))

		accounts, err := repo.Load(context.Background())
		require.NoError(t, err)
		assert.Empty(t, accounts)
	})
}

func TestRepositoryLegacyRecord(t *testing.T) {
	t.Parallel()

	statePath := filepath.Join(t.TempDir(), "state.toml")
	writeState(t, statePath,
		`session_key = " sessionKey=old "`,
		`last_notified_threshold = 50`,
		``,
		`[settings]`,
		`notifications_enabled = false`,
	)
	repo := newTestRepository(t, statePath)

	legacy, err := repo.LoadLegacy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.LegacyCredential{Credential: "sessionKey=old", LastNotifiedThreshold: 50}, legacy)

	require.NoError(t, repo.SaveAll(context.Background(), []domain.Account{domain.NewAccount("acc-1", "Account 1", "sessionKey=old")}))
	require.NoError(t, repo.DeleteLegacy(context.Background()))

	_, err = repo.LoadLegacy(context.Background())
	require.ErrorIs(t, err, domain.ErrLegacyNotFound)

	data, err := os.ReadFile(statePath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "session_key")

	settings, err := repo.LoadSettings(context.Background())
	require.NoError(t, err)
	assert.False(t, settings.NotificationsEnabled)

	accounts, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestRepositoryLegacyWithoutThreshold(t *testing.T) {
	t.Parallel()

	statePath := filepath.Join(t.TempDir(), "state.toml")
	writeState(t, statePath, `session_key = "sessionKey=old"`)
	repo := newTestRepository(t, statePath)

	legacy, err := repo.LoadLegacy(context.Background())
	require.NoError(t, err)
	assert.Zero(t, legacy.LastNotifiedThreshold)
}

func TestRepositorySettings(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "state.toml"))

	settings, err := repo.LoadSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)

	want := domain.Settings{NotificationsEnabled: false, OpenAtLogin: true}
	require.NoError(t, repo.SaveSettings(context.Background(), want))

	settings, err = repo.LoadSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, settings)

	_, err = repo.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrAccountsNotFound)
}

func TestRepositorySaveCreatesDefaultPathAndEnforcesPermissions(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	repo, err := NewRepository(viper.New())
	require.NoError(t, err)

	require.NoError(t, repo.SaveAll(context.Background(), []domain.Account{domain.NewAccount("acc-1", "Work", "")}))

	statePath := filepath.Join(homeDir, ".claude-usage", "state.toml")
	assert.Equal(t, statePath, repo.Path())
	info, err := os.Stat(statePath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRepositoryMalformedTOMLReturnsError(t *testing.T) {
	t.Parallel()

	statePath := filepath.Join(t.TempDir(), "state.toml")
	writeState(t, statePath, "accounts = [")
	repo := newTestRepository(t, statePath)

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode state file")
}

func TestRepositoryFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	statePath := filepath.Join(t.TempDir(), "state.toml")
	writeState(t, statePath, "version = 999")
	repo := newTestRepository(t, statePath)

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported state schema version")
}

func TestRepositorySaveCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "state.toml"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.SaveAll(ctx, []domain.Account{domain.NewAccount("acc-1", "Work", "")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRepositoryConcurrentWritersAcrossInstancesKeepEveryKey(t *testing.T) {
	t.Parallel()

	statePath := filepath.Join(t.TempDir(), "state.toml")
	repoA := newTestRepository(t, statePath)
	repoB := newTestRepository(t, statePath)

	const writes = 50
	start := make(chan struct{})
	errCh := make(chan error, writes*2)
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		<-start
		for i := 0; i < writes; i++ {
			account := domain.NewAccount(domain.AccountID("acc-"+strconv.Itoa(i)), "Work", "")
			errCh <- repoA.SaveAll(context.Background(), []domain.Account{account})
		}
	}()

	go func() {
		defer wg.Done()
		<-start
		for i := 0; i < writes; i++ {
			errCh <- repoB.SaveSettings(context.Background(), domain.Settings{NotificationsEnabled: i%2 == 0, OpenAtLogin: true})
		}
	}()

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	accounts, err := repoA.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, domain.AccountID("acc-"+strconv.Itoa(writes-1)), accounts[0].ID)

	settings, err := repoB.LoadSettings(context.Background())
	require.NoError(t, err)
	assert.True(t, settings.OpenAtLogin)
}
