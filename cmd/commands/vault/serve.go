package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"nathanbeddoewebdev/safecore/internal/coreerr"
	"nathanbeddoewebdev/safecore/internal/events"
	"nathanbeddoewebdev/safecore/internal/log"
	"nathanbeddoewebdev/safecore/internal/styles"
	"nathanbeddoewebdev/safecore/internal/transport"
	"nathanbeddoewebdev/safecore/internal/vault"

	"github.com/spf13/cobra"
)

// DefaultListenAddr is where a vault listens unless --listen is given.
const DefaultListenAddr = "/ip4/0.0.0.0/tcp/4001"

func ServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve data from memory until interrupted",
		Long: `Start an in-memory vault and answer client requests until interrupted.

Clients reach the vault through one of the printed addresses; add it to
their bootstrap-peers config.

Example:
  safecore vault serve --listen /ip4/127.0.0.1/tcp/4001`,
		Args:         cobra.NoArgs,
		RunE:         runServe,
		SilenceUsage: true,
	}

	cmd.Flags().StringSlice("listen", []string{DefaultListenAddr}, "Multiaddrs to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	listen, _ := cmd.Flags().GetStringSlice("listen")
	for _, addr := range listen {
		if !transport.IsAddr(addr) {
			return fmt.Errorf("invalid listen address %q", addr)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cmd, listen)
}

func serve(ctx context.Context, cmd *cobra.Command, listen []string) error {
	node, err := transport.New(transport.Config{ListenAddrs: listen})
	if err != nil {
		var te *transport.Error
		if errors.As(err, &te) {
			return coreerr.FromTransport(te)
		}
		return err
	}
	defer node.Close()

	node.Handle(vault.New().Handle)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", styles.Label.Render("Vault:"), node.ID())
	for _, addr := range node.Addrs() {
		fmt.Fprintf(out, "  %s\n", addr)
	}

	tx, rx := events.New[transport.Event](16)
	go node.Watch(ctx, tx)
	defer rx.Close()

	logger := log.G(ctx)
	for {
		ev, err := rx.Recv(ctx)
		if err != nil {
			// Interrupted or the node shut down.
			logger.Debug("vault stopped")
			return nil
		}
		logger.WithFields(log.Fields{"event": ev.Type, "peer": ev.Peer}).Info("peer " + ev.Type.String())
	}
}
