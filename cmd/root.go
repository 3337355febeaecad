package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cu",
		Short:         "Claude usage monitor (cu): track session and weekly quotas across accounts",
		Long:          "cu polls the Claude usage endpoint for up to five linked accounts, shows session and weekly quota windows, and notifies as session usage passes 25, 50, 75 and 90 percent.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		return app.Close()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newAccountCmd(app),
		newUsageCmd(app),
		newWatchCmd(app),
		newSettingsCmd(app),
	)

	return rootCmd
}
