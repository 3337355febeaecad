package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/claude-usage-cli/internal/application"
	"github.com/bnema/claude-usage-cli/internal/domain"
	"github.com/spf13/cobra"
)

var errAccountLimitReached = fmt.Errorf("account limit reached (%d)", domain.MaxAccounts)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage linked accounts",
	}

	cmd.AddCommand(
		newAccountAddCmd(app),
		newAccountUpdateCmd(app),
		newAccountRemoveCmd(app),
		newAccountListCmd(app),
	)

	return cmd
}

func newAccountAddCmd(app *app) *cobra.Command {
	var name string
	var credential string
	var credentialStdin bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Link a new account and fetch its usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if credentialStdin {
				value, err := readCredential(cmd.InOrStdin())
				if err != nil {
					return err
				}
				credential = value
			}

			account, ok := app.monitor.Add(cmd.Context(), name, credential)
			if !ok {
				return errAccountLimitReached
			}
			app.monitor.Wait()

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "added %s\t%s\n", account.ID, account.Name)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (default: Account N)")
	cmd.Flags().StringVar(&credential, "credential", "", "Cookie header copied from a signed-in browser session")
	cmd.Flags().BoolVar(&credentialStdin, "credential-stdin", false, "Read the credential from stdin")
	cmd.MarkFlagsMutuallyExclusive("credential", "credential-stdin")

	return cmd
}

func newAccountUpdateCmd(app *app) *cobra.Command {
	var name string
	var credential string

	cmd := &cobra.Command{
		Use:   "update <account-id>",
		Short: "Rename an account or replace its credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update application.UpdateAccountCommand
			if cmd.Flags().Changed("name") {
				update.Name = &name
			}
			if cmd.Flags().Changed("credential") {
				update.Credential = &credential
			}
			if update.Name == nil && update.Credential == nil {
				return errors.New("nothing to update: pass --name and/or --credential")
			}

			id := domain.AccountID(args[0])
			if !app.monitor.Update(cmd.Context(), id, update) {
				return fmt.Errorf("account %s: %w", id, domain.ErrAccountNotFound)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", id)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&credential, "credential", "", "New cookie header")

	return cmd
}

func newAccountRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <account-id>",
		Aliases: []string{"rm"},
		Short:   "Unlink an account",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.AccountID(args[0])
			if !app.monitor.Remove(cmd.Context(), id) {
				return fmt.Errorf("account %s: %w", id, domain.ErrAccountNotFound)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", id)
			return err
		},
	}
}

func newAccountListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List linked accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, status := range app.monitor.Statuses() {
				configured := "configured"
				if !status.Configured {
					configured = "no credential"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", status.ID, status.Name, configured)
			}

			return nil
		},
	}
}

func readCredential(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil {
		return "", fmt.Errorf("read credential from stdin: %w", err)
	}

	credential := strings.TrimSpace(string(data))
	if credential == "" {
		return "", errors.New("credential from stdin is empty")
	}

	return credential, nil
}

