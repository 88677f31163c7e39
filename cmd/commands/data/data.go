package data

import (
	"nathanbeddoewebdev/safecore/internal/session"

	"github.com/spf13/cobra"
)

// connect opens a client. Tests replace it with a loopback vault.
var connect = session.Connect

// NewCommand returns the "data" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Store and fetch immutable data",
		Long: `Store and fetch immutable data.

Immutable data is addressed by the SHA3-256 hash of its content, so a name
always refers to exactly one value.`,
	}

	cmd.AddCommand(PutCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
