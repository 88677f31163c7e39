package config

import (
	"nathanbeddoewebdev/safecore/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage safecore configuration",
		Long: "View and modify persistent safecore settings.\n\n" +
			"Configuration is stored at ~/.config/safecore/config.json.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
