package file

import (
	"fmt"
	"os"

	"nathanbeddoewebdev/safecore/internal/client"
	"nathanbeddoewebdev/safecore/internal/coreerr"
	"nathanbeddoewebdev/safecore/internal/crypt"
	"nathanbeddoewebdev/safecore/internal/oplog"
	"nathanbeddoewebdev/safecore/internal/session"

	"github.com/spf13/cobra"
)

func FetchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Rebuild a file from its sealed data map",
		Long: `Rebuild a file from the local chunk store using a sealed data map
written by "file store".

Example:
  safecore file fetch --map photo.map --out photo.jpg`,
		Args:         cobra.NoArgs,
		RunE:         runFetch,
		SilenceUsage: true,
	}

	cmd.Flags().String("map", "", "Sealed data map file (required)")
	cmd.Flags().String("out", "", "Where to write the file (required)")
	_ = cmd.MarkFlagRequired("map")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runFetch(cmd *cobra.Command, args []string) error {
	mapPath, _ := cmd.Flags().GetString("map")
	out, _ := cmd.Flags().GetString("out")

	sealed, err := os.ReadFile(mapPath)
	if err != nil {
		return coreerr.FromIO(err)
	}

	kp, account, err := session.Keys(newStore())
	if err != nil {
		return err
	}
	ctx := oplog.WithMetadata(cmd.Context(), oplog.Metadata{Account: account})
	cmd.SetContext(ctx)

	cfg, err := session.LoadConfig()
	if err != nil {
		return err
	}
	store, err := session.OpenChunkStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	content, err := client.New(cfg, nil).FetchFile(ctx, client.NewEncryptor(store), sealed, crypt.SubKey(kp, dataMapLabel))
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, content, 0o644); err != nil {
		return coreerr.FromIO(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", out, len(content))
	return nil
}
