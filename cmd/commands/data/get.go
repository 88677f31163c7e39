package data

import (
	"os"

	"nathanbeddoewebdev/safecore/internal/coreerr"
	"nathanbeddoewebdev/safecore/internal/data"
	"nathanbeddoewebdev/safecore/internal/oplog"
	"nathanbeddoewebdev/safecore/internal/session"

	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Download immutable data by name",
		Long: `Download immutable data by its hex name and write it to stdout, or to
the file given with --out.

Example:
  safecore data get 3a7bd3e2360a3d29eea436fcfb7e44c735d117c42d1c1835420b6b9942dd4f1b --out notes.txt`,
		Args:         cobra.ExactArgs(1),
		RunE:         runGet,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("out", "o", "", "Write the data to this file instead of stdout")

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	name, err := data.ParseName(args[0])
	if err != nil {
		return err
	}
	cmd.SetContext(oplog.WithMetadata(cmd.Context(), oplog.Metadata{DataName: name.String()}))

	cfg, err := session.LoadConfig()
	if err != nil {
		return err
	}
	c, closeFn, err := connect(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	content, err := c.GetImmutable(cmd.Context(), name)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		_, err = cmd.OutOrStdout().Write(content)
		return err
	}
	if err := os.WriteFile(out, content, 0o644); err != nil {
		return coreerr.FromIO(err)
	}
	return nil
}
