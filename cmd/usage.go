package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	statusadapter "github.com/bnema/claude-usage-cli/internal/adapters/render/status"
	"github.com/bnema/claude-usage-cli/internal/application"
	"github.com/bnema/claude-usage-cli/internal/domain"
	"github.com/spf13/cobra"
)

const usageStaleAfter = 15 * time.Minute

func newUsageCmd(app *app) *cobra.Command {
	var accountID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "usage",
		Aliases: []string{"status"},
		Short:   "Fetch and display usage for linked accounts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUsageFetch(cmd, app, domain.AccountID(accountID), asJSON)
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account ID (default: all accounts)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

type usageOutput struct {
	Percentage int                         `json:"percentage"`
	HasData    bool                        `json:"has_data"`
	Accounts   []application.AccountStatus `json:"accounts"`
}

func runUsageFetch(cmd *cobra.Command, app *app, accountID domain.AccountID, asJSON bool) error {
	if accountID != "" {
		if _, ok := app.monitor.Get(accountID); !ok {
			return fmt.Errorf("account %s: %w", accountID, domain.ErrAccountNotFound)
		}
	}

	accounts := 1
	fetch := func(ctx context.Context) {
		if accountID == "" {
			app.monitor.FetchAll(ctx)
			return
		}

		app.monitor.FetchOne(ctx, accountID)
	}
	if accountID == "" {
		accounts = len(app.monitor.All())
	}

	if asJSON {
		fetch(cmd.Context())
	} else if err := runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), accounts, fetch); err != nil {
		return err
	}

	statuses := filterStatuses(app.monitor.Statuses(), accountID)
	return writeStatusesOutput(cmd, app, statuses, app.monitor.Status(), asJSON)
}

func filterStatuses(statuses []application.AccountStatus, accountID domain.AccountID) []application.AccountStatus {
	if accountID == "" {
		return statuses
	}

	filtered := make([]application.AccountStatus, 0, 1)
	for _, status := range statuses {
		if status.ID == accountID {
			filtered = append(filtered, status)
		}
	}

	return filtered
}

func writeStatusesOutput(cmd *cobra.Command, app *app, statuses []application.AccountStatus, signal domain.StatusSignal, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(usageOutput{
			Percentage: signal.Percentage,
			HasData:    signal.HasData,
			Accounts:   statuses,
		})
	}

	rendered, err := app.statusRenderer(statuses, signal, statusadapter.RenderOptions{
		Now:        app.now(),
		StaleAfter: usageStaleAfter,
	})
	if err != nil {
		return fmt.Errorf("render status: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
