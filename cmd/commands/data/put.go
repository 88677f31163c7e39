package data

import (
	"fmt"
	"os"

	"nathanbeddoewebdev/safecore/internal/coreerr"
	"nathanbeddoewebdev/safecore/internal/oplog"
	"nathanbeddoewebdev/safecore/internal/session"

	"github.com/spf13/cobra"
)

func PutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "put <file>",
		Short: "Upload a file as immutable data and print its name",
		Long: `Upload a file as immutable data and print its name.

Example:
  safecore data put ./notes.txt`,
		Args:         cobra.ExactArgs(1),
		RunE:         runPut,
		SilenceUsage: true,
	}
}

func runPut(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return coreerr.FromIO(err)
	}

	cfg, err := session.LoadConfig()
	if err != nil {
		return err
	}
	c, closeFn, err := connect(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	name, err := c.PutImmutable(cmd.Context(), content)
	if err != nil {
		return err
	}
	cmd.SetContext(oplog.WithMetadata(cmd.Context(), oplog.Metadata{DataName: name.String()}))

	fmt.Fprintln(cmd.OutOrStdout(), name)
	return nil
}
