package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/claude-usage-cli/internal/application"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newWatchCmd(app *app) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll every account on an interval and print the session status line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interval <= 0 {
				interval = app.config.PollInterval
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runWatch(ctx, cmd, app, interval)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Polling interval (default: poll.interval from config)")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, app *app, interval time.Duration) error {
	signals, unsubscribe := app.monitor.Subscribe()
	defer unsubscribe()

	poller := application.NewPoller(app.monitor, app.clock, interval, app.logger)
	app.logger.Info("watch started", "interval", interval)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return poller.Run(groupCtx)
	})
	group.Go(func() error {
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case latest := <-signals:
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), app.statusLine(latest)); err != nil {
					return err
				}
			}
		}
	})

	return group.Wait()
}
