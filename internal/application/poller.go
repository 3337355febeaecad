package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/coder/quartz"
)

const DefaultPollInterval = 5 * time.Minute

// RoundFetcher runs one polling round over every account.
type RoundFetcher interface {
	FetchAll(ctx context.Context)
}

// Poller drives FetchAll on a fixed interval.
type Poller struct {
	fetcher  RoundFetcher
	clock    quartz.Clock
	interval time.Duration
	logger   *slog.Logger
}

func NewPoller(fetcher RoundFetcher, clock quartz.Clock, interval time.Duration, logger *slog.Logger) *Poller {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Poller{
		fetcher:  fetcher,
		clock:    clock,
		interval: interval,
		logger:   logger,
	}
}

// Run fetches once immediately and then once per interval until ctx is done.
// Rounds never overlap: a tick that fires during a round is coalesced.
func (p *Poller) Run(ctx context.Context) error {
	ticker := p.clock.NewTicker(p.interval, "poller")
	defer ticker.Stop()

	p.round(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.round(ctx)
		}
	}
}

func (p *Poller) round(ctx context.Context) {
	started := p.clock.Now()
	p.fetcher.FetchAll(ctx)
	p.logger.Debug("poll round finished", "duration", p.clock.Since(started))
}
