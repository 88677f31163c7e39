package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "request-timeout").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set validates and applies a value for this key to the given Config
	// (in memory only; the caller is responsible for calling Save).
	Set func(cfg *Config, value string) error
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "bootstrap-peers",
		Description: "Comma-separated vault multiaddrs to contact on connect",
		Get:         func(cfg *Config) string { return strings.Join(cfg.BootstrapPeers, ",") },
		Set: func(cfg *Config, v string) error {
			var peers []string
			for _, p := range strings.Split(v, ",") {
				if p = strings.TrimSpace(p); p != "" {
					peers = append(peers, p)
				}
			}
			cfg.BootstrapPeers = peers
			return nil
		},
	},
	{
		Name:        "read-only",
		Description: "Refuse every operation that writes to the network (true/false)",
		Get: func(cfg *Config) string {
			if !cfg.ReadOnly {
				return ""
			}
			return "true"
		},
		Set: func(cfg *Config, v string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("read-only must be true or false, got %q", v)
			}
			cfg.ReadOnly = b
			return nil
		},
	},
	{
		Name:        "request-timeout",
		Description: "Deadline for a single network request (e.g. 30s, 2m)",
		Get:         func(cfg *Config) string { return cfg.RequestTimeout },
		Set: func(cfg *Config, v string) error {
			v = strings.TrimSpace(v)
			d, err := time.ParseDuration(v)
			if err != nil || d <= 0 {
				return fmt.Errorf("request-timeout must be a positive duration, got %q", v)
			}
			cfg.RequestTimeout = v
			return nil
		},
	},
	{
		Name:        "chunk-db",
		Description: "Path of the local chunk store database",
		Get:         func(cfg *Config) string { return cfg.ChunkDB },
		Set: func(cfg *Config, v string) error {
			cfg.ChunkDB = strings.TrimSpace(v)
			return nil
		},
	},
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	// Find the longest key name for alignment.
	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
