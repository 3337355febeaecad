package domain

type Settings struct {
	NotificationsEnabled bool
	OpenAtLogin          bool
}

// DefaultSettings are the settings of a first run.
func DefaultSettings() Settings {
	return Settings{NotificationsEnabled: true}
}
