package config

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/safecore/internal/config"
	"nathanbeddoewebdev/safecore/internal/session"
	"nathanbeddoewebdev/safecore/internal/transport"
	"nathanbeddoewebdev/safecore/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  safecore config set request-timeout 10s\n" +
			"  safecore config set bootstrap-peers /ip4/10.0.0.5/tcp/4001/p2p/12D3KooW...",
		Args:         cobra.ExactArgs(2),
		RunE:         runSet,
		SilenceUsage: true,
	}

	return cmd
}

// validators maps key names to optional checks run before the value is
// applied. Keys not present in this map rely on KeySpec.Set alone.
var validators = map[string]func(value string) error{
	"bootstrap-peers": validatePeers,
}

func runSet(cmd *cobra.Command, args []string) error {
	key := util.NormalizeKey(args[0])
	value := args[1]

	spec := config.Lookup(key)
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", args[0], strings.Join(config.KeyNames(), ", "))
	}

	if validate, ok := validators[spec.Name]; ok {
		if err := validate(value); err != nil {
			return err
		}
	}

	cfg, err := session.LoadConfig()
	if err != nil {
		return err
	}
	if err := spec.Set(cfg, value); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, spec.Get(cfg))
	return nil
}

// validatePeers checks that every comma-separated peer is a multiaddr.
func validatePeers(value string) error {
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" && !transport.IsAddr(p) {
			return fmt.Errorf("invalid peer address %q", p)
		}
	}
	return nil
}
