package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"nathanbeddoewebdev/safecore/cmd/commands/account"
	cfgcmd "nathanbeddoewebdev/safecore/cmd/commands/config"
	datacmd "nathanbeddoewebdev/safecore/cmd/commands/data"
	"nathanbeddoewebdev/safecore/cmd/commands/file"
	oplogcmd "nathanbeddoewebdev/safecore/cmd/commands/oplog"
	vaultcmd "nathanbeddoewebdev/safecore/cmd/commands/vault"
	"nathanbeddoewebdev/safecore/internal/coreerr"
	"nathanbeddoewebdev/safecore/internal/log"
	"nathanbeddoewebdev/safecore/internal/oplog"
	"nathanbeddoewebdev/safecore/internal/styles"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "safecore",
		Short: "A client for a self-encrypting storage network",
		Long: `safecore stores data on a network of vaults. Immutable data is addressed
by its content hash, mutable data by a name and version, and files are
self-encrypted into chunks before they leave the machine.

Every command reports failures as one of a fixed set of error kinds, and
each run is recorded in a local operation log.

Quick start:
  safecore vault serve                          # Run a vault
  safecore config set bootstrap-peers <addr>    # Point the client at it
  safecore account login alice                  # Derive account keys
  safecore account root create                  # Create the root directory
  safecore data put ./notes.txt                 # Upload immutable data
  safecore oplog list --kind RequestTimeout     # Review failures`,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug, _ := cmd.Flags().GetBool("debug")
			log.Setup(cmd.ErrOrStderr(), debug)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "Log debug output and show error causes")

	cmd.AddCommand(account.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(datacmd.NewCommand())
	cmd.AddCommand(file.NewCommand())
	cmd.AddCommand(oplogcmd.NewCommand())
	cmd.AddCommand(vaultcmd.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	root := rootCmd()

	start := time.Now()
	ran, err := root.ExecuteContextC(context.Background())
	if entry := newEntry(ran, os.Args[1:], err, time.Since(start)); entry != nil {
		recordOp(entry)
	}

	if err != nil {
		debug, _ := root.PersistentFlags().GetBool("debug")
		renderError(root.ErrOrStderr(), err, debug)
		os.Exit(1)
	}
}

// renderError prints err styled by its kind. With debug set a client error
// is shown with its kind name and full cause chain.
func renderError(w io.Writer, err error, debug bool) {
	msg := err.Error()
	style := styles.ErrorText

	var ce *coreerr.Error
	if errors.As(err, &ce) {
		style = styles.KindStyle(ce.Kind())
		if debug {
			msg = ce.Debug()
		}
	}
	fmt.Fprintln(w, style.Render("Error: "+msg))
}

// newEntry describes a finished command run for the operation log. It
// returns nil for runs that are not worth recording: help, the root command
// itself and the oplog group.
func newEntry(cmd *cobra.Command, args []string, err error, elapsed time.Duration) *oplog.Entry {
	if cmd == nil || !cmd.HasParent() || !cmd.Runnable() {
		return nil
	}
	for c := cmd; c.HasParent(); c = c.Parent() {
		if c.Name() == "oplog" || c.Name() == "help" || c.Name() == "completion" {
			return nil
		}
	}

	meta := oplog.MetadataFromContext(cmd.Context())
	entry := &oplog.Entry{
		Timestamp:  time.Now().UTC(),
		Command:    strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()+" "),
		Args:       strings.Join(oplog.SanitizeArgs(args), " "),
		Account:    meta.Account,
		DataName:   meta.DataName,
		Outcome:    oplog.OutcomeSuccess,
		DurationMs: elapsed.Milliseconds(),
	}
	if err != nil {
		entry.Outcome = oplog.OutcomeError
		entry.Detail = err.Error()
		if kind, ok := coreerr.KindOf(err); ok {
			entry.ErrorKind = kind.String()
		}
	}
	return entry
}

// recordOp saves entry. Failing to record never fails the command.
func recordOp(entry *oplog.Entry) {
	repo, err := oplog.Open()
	if err != nil {
		log.L.WithError(err).Debug("oplog unavailable")
		return
	}
	defer repo.Close()

	if err := repo.Save(entry); err != nil {
		log.L.WithError(err).Debug("failed to record operation")
	}
}
