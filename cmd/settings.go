package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change global settings",
	}

	cmd.AddCommand(
		newSettingsShowCmd(app),
		newSettingsSetCmd(app),
	)

	return cmd
}

func newSettingsShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := app.monitor.Settings()
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "notifications\t%t\nopen-at-login\t%t\n", settings.NotificationsEnabled, settings.OpenAtLogin)
			return err
		},
	}
}

func newSettingsSetCmd(app *app) *cobra.Command {
	var notifications bool
	var openAtLogin bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed := false
			if cmd.Flags().Changed("notifications") {
				if err := app.monitor.SetNotificationsEnabled(cmd.Context(), notifications); err != nil {
					return fmt.Errorf("save settings: %w", err)
				}
				changed = true
			}
			if cmd.Flags().Changed("open-at-login") {
				if err := app.monitor.SetOpenAtLogin(cmd.Context(), openAtLogin); err != nil {
					return fmt.Errorf("save settings: %w", err)
				}
				changed = true
			}
			if !changed {
				return fmt.Errorf("nothing to set: pass --notifications and/or --open-at-login")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&notifications, "notifications", true, "Send threshold notifications")
	cmd.Flags().BoolVar(&openAtLogin, "open-at-login", false, "Start the watcher at login")

	return cmd
}
