package account

import (
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/safecore/internal/client"
	"nathanbeddoewebdev/safecore/internal/oplog"
	"nathanbeddoewebdev/safecore/internal/session"

	"github.com/spf13/cobra"
)

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "root",
		Short: "Manage the account's root directory",
	}
	cmd.AddCommand(&cobra.Command{
		Use:          "create",
		Short:        "Create an empty root directory on the network",
		Args:         cobra.NoArgs,
		RunE:         runRootCreate,
		SilenceUsage: true,
	})
	cmd.AddCommand(&cobra.Command{
		Use:          "show",
		Short:        "List the files in the root directory",
		Args:         cobra.NoArgs,
		RunE:         runRootShow,
		SilenceUsage: true,
	})
	return cmd
}

func runRootCreate(cmd *cobra.Command, args []string) error {
	kp, account, err := session.Keys(newStore())
	if err != nil {
		return err
	}
	name := client.RootName(&kp.Public)
	cmd.SetContext(oplog.WithMetadata(cmd.Context(), oplog.Metadata{Account: account, DataName: name.String()}))

	cfg, err := session.LoadConfig()
	if err != nil {
		return err
	}
	c, closeFn, err := session.Connect(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := c.CreateRoot(cmd.Context(), kp); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created root directory %s\n", name)
	return nil
}

func runRootShow(cmd *cobra.Command, args []string) error {
	kp, account, err := session.Keys(newStore())
	if err != nil {
		return err
	}
	cmd.SetContext(oplog.WithMetadata(cmd.Context(), oplog.Metadata{Account: account}))

	cfg, err := session.LoadConfig()
	if err != nil {
		return err
	}
	c, closeFn, err := session.Connect(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	root, err := c.Root(cmd.Context(), kp)
	if err != nil {
		return err
	}
	if len(root.Entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Root directory is empty.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDATA MAP")
	for _, e := range root.Entries {
		fmt.Fprintf(w, "%s\t%s\n", e.Name, e.Map)
	}
	return w.Flush()
}
