package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bnema/claude-usage-cli/internal/adapters/claude"
	"github.com/bnema/claude-usage-cli/internal/adapters/notify"
	statusadapter "github.com/bnema/claude-usage-cli/internal/adapters/render/status"
	tomlrepo "github.com/bnema/claude-usage-cli/internal/adapters/repo/toml"
	"github.com/bnema/claude-usage-cli/internal/application"
	"github.com/bnema/claude-usage-cli/internal/applog"
	"github.com/bnema/claude-usage-cli/internal/config"
	"github.com/bnema/claude-usage-cli/internal/domain"
	"github.com/bnema/claude-usage-cli/internal/ports"
	"github.com/coder/quartz"
)

type app struct {
	monitor        *application.Monitor
	config         config.Config
	logger         *slog.Logger
	logCloser      io.Closer
	statusRenderer func([]application.AccountStatus, domain.StatusSignal, statusadapter.RenderOptions) (string, error)
	statusLine     func(domain.StatusSignal) string
	clock          quartz.Clock
	now            func() time.Time
}

func wireApp() (*app, error) {
	viperCfg, cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, logCloser, err := applog.Init(applog.InitConfig{Path: cfg.LogPath, Level: cfg.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	repo, err := tomlrepo.NewRepository(viperCfg)
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("wire state store: %w", err)
	}

	api := claude.Client{BaseURL: cfg.UsageBaseURL, HTTPClient: claude.NewHTTPClient(cfg.HTTPTimeout)}
	monitor := application.NewMonitor(repo, api, wireNotifier(cfg), ports.SystemClock{}, logger)
	monitor.Load(context.Background())

	logger.Debug("app wired", "state_path", repo.Path(), "base_url", cfg.UsageBaseURL)

	return &app{
		monitor:        monitor,
		config:         cfg,
		logger:         logger,
		logCloser:      logCloser,
		statusRenderer: statusadapter.Render,
		statusLine:     statusadapter.StatusLine,
		clock:          quartz.NewReal(),
		now:            time.Now,
	}, nil
}

func wireNotifier(cfg config.Config) ports.Notifier {
	var transports notify.Multi
	if cfg.NotifyDesktop {
		transports = append(transports, notify.NewDesktop())
	}
	if cfg.NotifyNtfyURL != "" {
		transports = append(transports, notify.NewNtfy(cfg.NotifyNtfyURL))
	}

	return transports
}

func (a *app) Close() error {
	a.monitor.Wait()
	if a.logCloser == nil {
		return nil
	}

	return a.logCloser.Close()
}
