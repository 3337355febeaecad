package toml

import "fmt"

// Version 2 introduced the multi-account collection. Files at version 0 or 1
// can only carry the legacy single-credential record.
const currentSchemaVersion = 2

type fileSchema struct {
	Version               int             `toml:"version,omitempty"`
	SessionKey            string          `toml:"session_key,omitempty"`
	LastNotifiedThreshold *int            `toml:"last_notified_threshold,omitempty"`
	Settings              *settingsSchema `toml:"settings,omitempty"`
	Accounts              []accountSchema `toml:"accounts,omitempty"`
}

func (s fileSchema) hasAccounts() bool {
	return s.Version >= currentSchemaVersion
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported state schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type settingsSchema struct {
	NotificationsEnabled *bool `toml:"notifications_enabled,omitempty"`
	OpenAtLogin          bool  `toml:"open_at_login"`
}

type accountSchema struct {
	ID                    string `toml:"id"`
	Name                  string `toml:"name"`
	Credential            string `toml:"credential"`
	LastNotifiedThreshold int    `toml:"last_notified_threshold"`
}
