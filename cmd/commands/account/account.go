package account

import (
	"nathanbeddoewebdev/safecore/internal/auth"

	"github.com/spf13/cobra"
)

// newStore returns the keyring store. Tests replace it.
var newStore = auth.DefaultStore

// NewCommand returns the "account" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the account used to seal data",
		Long: `Manage the account used to seal data.

Account keys are derived from the account name and password. The derived
seed is kept in the local keychain; the password itself is never stored.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(LogoutCommand())
	cmd.AddCommand(StatusCommand())
	cmd.AddCommand(RootCommand())

	return cmd
}
