package oplog

import "github.com/spf13/cobra"

// NewCommand returns the "oplog" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oplog",
		Short: "View and manage the operation log",
		Long: "View the local log of safecore commands, including the kind of\n" +
			"error each failed command ended with, and prune old entries.\n\n" +
			"The log is stored locally in ~/.config/safecore/safecore.db.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}
