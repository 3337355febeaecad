package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/claude-usage-cli/internal/domain"
	"github.com/bnema/claude-usage-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	StatePathKey    = "state.path"
	stateFileMode   = 0o600
	stateDirMode    = 0o700
	stateConfigDir  = ".claude-usage"
	stateConfigFile = "state.toml"
	tempFilePattern = ".state-*.toml.tmp"
)

// Repository is the key-value configuration store. Accounts, settings and the
// legacy credential all live in one TOML document; every write re-reads the
// file and changes only the keys it owns.
type Repository struct {
	statePath string
	mu        *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.StateStore = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	statePath := cfg.GetString(StatePathKey)
	if statePath == "" {
		defaultPath, err := DefaultStatePath()
		if err != nil {
			return nil, err
		}
		statePath = defaultPath
	}

	statePath, err := normalizeStatePath(statePath)
	if err != nil {
		return nil, err
	}

	return &Repository{statePath: statePath, mu: lockForPath(statePath)}, nil
}

func DefaultStatePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(homeDir, stateConfigDir, stateConfigFile), nil
}

func (r *Repository) Path() string {
	return r.statePath
}

func (r *Repository) Load(ctx context.Context) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}
	if !file.hasAccounts() {
		return nil, domain.ErrAccountsNotFound
	}

	accounts := make([]domain.Account, 0, len(file.Accounts))
	for _, entry := range file.Accounts {
		accounts = append(accounts, fromSchema(entry))
	}

	return accounts, nil
}

// SaveAll replaces the stored collection with accounts. Only the persistent
// account fields are written.
func (r *Repository) SaveAll(ctx context.Context, accounts []domain.Account) error {
	return r.update(ctx, func(file *fileSchema) {
		file.Version = currentSchemaVersion
		file.Accounts = make([]accountSchema, 0, len(accounts))
		for _, account := range accounts {
			file.Accounts = append(file.Accounts, toSchema(account))
		}
	})
}

// SaveThreshold updates one account in place, leaving every other stored
// account as it is on disk.
func (r *Repository) SaveThreshold(ctx context.Context, id domain.AccountID, threshold int) error {
	return r.update(ctx, func(file *fileSchema) {
		if !file.hasAccounts() {
			return
		}

		for i := range file.Accounts {
			if file.Accounts[i].ID == string(id) {
				file.Accounts[i].LastNotifiedThreshold = threshold
				return
			}
		}
	})
}

func (r *Repository) LoadLegacy(ctx context.Context) (domain.LegacyCredential, error) {
	if err := ctx.Err(); err != nil {
		return domain.LegacyCredential{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.LegacyCredential{}, err
	}

	credential := strings.TrimSpace(file.SessionKey)
	if credential == "" {
		return domain.LegacyCredential{}, domain.ErrLegacyNotFound
	}

	legacy := domain.LegacyCredential{Credential: credential}
	if file.LastNotifiedThreshold != nil {
		legacy.LastNotifiedThreshold = *file.LastNotifiedThreshold
	}

	return legacy, nil
}

func (r *Repository) DeleteLegacy(ctx context.Context) error {
	return r.update(ctx, func(file *fileSchema) {
		file.SessionKey = ""
		file.LastNotifiedThreshold = nil
	})
}

// LoadSettings returns the stored settings. Notifications default to enabled
// until the user turns them off.
func (r *Repository) LoadSettings(ctx context.Context) (domain.Settings, error) {
	if err := ctx.Err(); err != nil {
		return domain.Settings{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Settings{}, err
	}

	settings := domain.DefaultSettings()
	if file.Settings == nil {
		return settings, nil
	}
	if file.Settings.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *file.Settings.NotificationsEnabled
	}
	settings.OpenAtLogin = file.Settings.OpenAtLogin

	return settings, nil
}

func (r *Repository) SaveSettings(ctx context.Context, settings domain.Settings) error {
	return r.update(ctx, func(file *fileSchema) {
		notificationsEnabled := settings.NotificationsEnabled
		file.Settings = &settingsSchema{
			NotificationsEnabled: &notificationsEnabled,
			OpenAtLogin:          settings.OpenAtLogin,
		}
	})
}

func (r *Repository) update(ctx context.Context, apply func(*fileSchema)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	apply(&file)

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.statePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read state file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode state file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}

	return file, nil
}

func normalizeStatePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve state path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	if err := os.MkdirAll(filepath.Dir(r.statePath), stateDirMode); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.statePath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}

	if err := tempFile.Chmod(stateFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp state file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tempName, r.statePath); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(r.statePath, stateFileMode); err != nil {
		return fmt.Errorf("chmod state file: %w", err)
	}

	return nil
}

func toSchema(account domain.Account) accountSchema {
	return accountSchema{
		ID:                    string(account.ID),
		Name:                  account.Name,
		Credential:            account.Credential,
		LastNotifiedThreshold: account.LastNotifiedThreshold,
	}
}

func fromSchema(account accountSchema) domain.Account {
	restored := domain.NewAccount(domain.AccountID(account.ID), account.Name, account.Credential)
	restored.LastNotifiedThreshold = account.LastNotifiedThreshold
	return restored
}
