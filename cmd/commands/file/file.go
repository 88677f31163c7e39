package file

import (
	"nathanbeddoewebdev/safecore/internal/auth"
	"nathanbeddoewebdev/safecore/internal/session"

	"github.com/spf13/cobra"
)

// Hooks replaced by tests.
var (
	newStore = auth.DefaultStore
	connect  = session.Connect
)

// dataMapLabel derives the key that seals data maps.
const dataMapLabel = "datamap"

// NewCommand returns the "file" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Self-encrypt files into the local chunk store",
		Long: `Self-encrypt files into the local chunk store.

A stored file is split into encrypted chunks. The data map needed to put it
back together is sealed with a key derived from the current account and
written to the --map file.`,
	}

	cmd.AddCommand(StoreCommand())
	cmd.AddCommand(FetchCommand())

	return cmd
}
