package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nathanbeddoewebdev/safecore/internal/config"
)

// setupTestConfig points the config package at a temp file and returns its path.
func setupTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	config.SetPath(path)
	t.Cleanup(config.ResetPath)
	return path
}

// execConfig creates the config command, wires up output buffers, runs with the
// given args, and returns what was written to stdout and stderr.
func execConfig(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	cmd.Execute()
	return outBuf.String(), errBuf.String()
}

func TestSet_RequestTimeout(t *testing.T) {
	setupTestConfig(t)

	stdout, stderr := execConfig(t, "set", "request-timeout", "10s")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, `"10s"`) {
		t.Errorf("expected confirmation with value, got: %s", stdout)
	}

	// Verify it was persisted.
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.RequestTimeout != "10s" {
		t.Errorf("expected RequestTimeout %q, got %q", "10s", cfg.RequestTimeout)
	}
}

func TestSet_RequestTimeout_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"negative", []string{"set", "--", "request-timeout", "-5s"}},
		{"zero", []string{"set", "request-timeout", "0s"}},
		{"not a duration", []string{"set", "request-timeout", "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t)

			_, stderr := execConfig(t, tt.args...)
			if !strings.Contains(stderr, "request-timeout must be a positive duration") {
				t.Errorf("expected 'positive duration' error, got: %s", stderr)
			}

			cfg, err := config.Load()
			if err != nil {
				t.Fatalf("failed to load config: %v", err)
			}
			if cfg.RequestTimeout != "" {
				t.Errorf("invalid timeout was saved: %q", cfg.RequestTimeout)
			}
		})
	}
}

func TestSet_BootstrapPeers(t *testing.T) {
	setupTestConfig(t)

	addr := "/ip4/127.0.0.1/tcp/4001"
	_, stderr := execConfig(t, "set", "bootstrap-peers", addr+", /ip4/10.0.0.2/tcp/4001")
	if stderr != "" {
		t.Fatalf("unexpected stderr: %s", stderr)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if len(cfg.BootstrapPeers) != 2 || cfg.BootstrapPeers[0] != addr {
		t.Errorf("unexpected peers: %v", cfg.BootstrapPeers)
	}
}

func TestSet_BootstrapPeers_Invalid(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "set", "bootstrap-peers", "not-an-addr")

	if !strings.Contains(stderr, "invalid peer address") {
		t.Errorf("expected 'invalid peer address' error, got: %s", stderr)
	}
}

func TestSet_UnknownKey(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "set", "bogus-key", "value")

	if !strings.Contains(stderr, "unknown configuration key") {
		t.Errorf("expected 'unknown configuration key' error, got: %s", stderr)
	}
}

func TestSet_CorruptConfig(t *testing.T) {
	path := setupTestConfig(t)
	if err := os.WriteFile(path, []byte("{invalid json"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, stderr := execConfig(t, "set", "read-only", "true")

	if !strings.Contains(stderr, "Config file error") {
		t.Errorf("expected config error, got: %s", stderr)
	}
}
