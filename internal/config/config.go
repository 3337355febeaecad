package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".claude-usage"
	envPrefix  = "CU"

	StatePathKey     = "state.path"
	UsageBaseURLKey  = "usage.base_url"
	HTTPTimeoutKey   = "usage.http_timeout"
	PollIntervalKey  = "poll.interval"
	LogLevelKey      = "log.level"
	LogPathKey       = "log.path"
	NotifyDesktopKey = "notify.desktop"
	NotifyNtfyURLKey = "notify.ntfy_url"
)

// Config is the resolved runtime configuration.
type Config struct {
	StatePath     string
	UsageBaseURL  string
	HTTPTimeout   time.Duration
	PollInterval  time.Duration
	LogLevel      string
	LogPath       string
	NotifyDesktop bool
	NotifyNtfyURL string
}

// New returns a viper instance with defaults under homeDir and CU_* env
// overrides. It reads ~/.claude-usage/config.toml when present.
func New(homeDir string) (*viper.Viper, error) {
	cfg := viper.New()
	baseDir := filepath.Join(homeDir, configDir)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(baseDir)

	cfg.SetDefault(StatePathKey, filepath.Join(baseDir, "state.toml"))
	cfg.SetDefault(UsageBaseURLKey, "https://claude.ai")
	cfg.SetDefault(HTTPTimeoutKey, "30s")
	cfg.SetDefault(PollIntervalKey, "5m")
	cfg.SetDefault(LogLevelKey, "info")
	cfg.SetDefault(LogPathKey, filepath.Join(baseDir, "logs", "cu.log"))
	cfg.SetDefault(NotifyDesktopKey, true)
	cfg.SetDefault(NotifyNtfyURLKey, "")

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return cfg, nil
}

// Load builds the viper instance for the current user's home directory and
// resolves it.
func Load() (*viper.Viper, Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, Config{}, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg, err := New(homeDir)
	if err != nil {
		return nil, Config{}, err
	}

	resolved, err := Resolve(cfg)
	if err != nil {
		return nil, Config{}, err
	}

	return cfg, resolved, nil
}

func Resolve(cfg *viper.Viper) (Config, error) {
	interval, err := positiveDuration(cfg, PollIntervalKey)
	if err != nil {
		return Config{}, err
	}

	httpTimeout, err := positiveDuration(cfg, HTTPTimeoutKey)
	if err != nil {
		return Config{}, err
	}

	return Config{
		StatePath:     cfg.GetString(StatePathKey),
		UsageBaseURL:  strings.TrimRight(cfg.GetString(UsageBaseURLKey), "/"),
		HTTPTimeout:   httpTimeout,
		PollInterval:  interval,
		LogLevel:      cfg.GetString(LogLevelKey),
		LogPath:       cfg.GetString(LogPathKey),
		NotifyDesktop: cfg.GetBool(NotifyDesktopKey),
		NotifyNtfyURL: cfg.GetString(NotifyNtfyURLKey),
	}, nil
}

func positiveDuration(cfg *viper.Viper, key string) (time.Duration, error) {
	value, err := time.ParseDuration(cfg.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}

	return value, nil
}
