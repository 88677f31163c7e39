package file

import (
	"fmt"
	"os"

	"nathanbeddoewebdev/safecore/internal/client"
	"nathanbeddoewebdev/safecore/internal/coreerr"
	"nathanbeddoewebdev/safecore/internal/crypt"
	"nathanbeddoewebdev/safecore/internal/oplog"
	"nathanbeddoewebdev/safecore/internal/session"
	"nathanbeddoewebdev/safecore/internal/styles"

	"github.com/spf13/cobra"
)

func StoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store <file>",
		Short: "Self-encrypt a file and write its sealed data map",
		Long: `Self-encrypt a file into the local chunk store and write its sealed data
map to --map. With --add the sealed map is also uploaded and recorded under
the given name in the account's root directory.

Examples:
  safecore file store ./photo.jpg --map photo.map
  safecore file store ./photo.jpg --map photo.map --add photo.jpg`,
		Args:         cobra.ExactArgs(1),
		RunE:         runStore,
		SilenceUsage: true,
	}

	cmd.Flags().String("map", "", "Where to write the sealed data map (required)")
	cmd.Flags().String("add", "", "Also record the file under this name in the root directory")
	_ = cmd.MarkFlagRequired("map")

	return cmd
}

func runStore(cmd *cobra.Command, args []string) error {
	mapPath, _ := cmd.Flags().GetString("map")
	addAs, _ := cmd.Flags().GetString("add")
	ctx := cmd.Context()

	content, err := os.ReadFile(args[0])
	if err != nil {
		return coreerr.FromIO(err)
	}

	kp, account, err := session.Keys(newStore())
	if err != nil {
		return err
	}
	ctx = oplog.WithMetadata(ctx, oplog.Metadata{Account: account})
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

	c := client.New(cfg, nil)
	sealed, err := c.StoreFile(ctx, client.NewEncryptor(store), content, crypt.SubKey(kp, dataMapLabel))
	if err != nil {
		return err
	}
	if err := os.WriteFile(mapPath, sealed, 0o600); err != nil {
		return coreerr.FromIO(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d bytes)\n", styles.SuccessText.Render("Stored"), args[0], len(content))

	if addAs == "" {
		return nil
	}

	nc, closeFn, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	name, err := nc.PutImmutable(ctx, sealed)
	if err != nil {
		return err
	}
	cmd.SetContext(oplog.WithMetadata(ctx, oplog.Metadata{DataName: name.String()}))

	root, err := nc.Root(ctx, kp)
	if err != nil {
		return err
	}
	root.Set(client.Entry{Name: addAs, Map: name})
	if err := nc.UpdateRoot(ctx, kp, root); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s -> %s\n", styles.Label.Render("Added"), addAs, name)
	return nil
}
