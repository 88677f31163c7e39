package vault

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the "vault" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Run a storage vault",
	}

	cmd.AddCommand(ServeCommand())

	return cmd
}
