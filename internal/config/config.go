// Package config handles persistent client configuration for safecore.
//
// Configuration is stored as JSON at ~/.config/safecore/config.json (or the
// platform-equivalent path returned by os.UserConfigDir). Failures while
// reading or parsing the file are reported as *ParseError so callers can
// tell a broken file from a failed read.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const (
	appDir   = "safecore"
	fileName = "config.json"

	// DefaultRequestTimeout applies when RequestTimeout is unset.
	DefaultRequestTimeout = 30 * time.Second
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds client settings that persist across invocations.
type Config struct {
	// BootstrapPeers are full multiaddrs (including /p2p/<id>) of vaults
	// to contact when connecting.
	BootstrapPeers []string `json:"bootstrap_peers,omitempty"`

	// ReadOnly forbids every mutating network operation.
	ReadOnly bool `json:"read_only,omitempty"`

	// RequestTimeout bounds a single network request, in time.ParseDuration
	// syntax. Empty means DefaultRequestTimeout.
	RequestTimeout string `json:"request_timeout,omitempty"`

	// ChunkDB is the SQLite file backing the local chunk store. Empty means
	// the default location under the user config directory.
	ChunkDB string `json:"chunk_db,omitempty"`
}

// Timeout returns the parsed request timeout, falling back to
// DefaultRequestTimeout when unset or invalid.
func (c *Config) Timeout() time.Duration {
	if c == nil || c.RequestTimeout == "" {
		return DefaultRequestTimeout
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return DefaultRequestTimeout
	}
	return d
}

// Path returns the absolute path to the config file.
// If SetPath has been called, that value is returned instead.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Dir returns the directory holding the config file.
func Dir() (string, error) {
	p, err := Path()
	if err != nil {
		return "", err
	}
	return filepath.Dir(p), nil
}

// Load reads the config file from disk and returns the parsed Config.
// If the file does not exist, a zero-value Config is returned (not an error).
func Load() (*Config, error) {
	return loadFrom("")
}

// loadFrom reads the config from the given path. If path is empty, the
// default Path() is used.
func loadFrom(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, &ParseError{Path: path, Category: CategoryIO, Err: err}
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// Decode parses a config document from r. Every failure, including a failed
// read from r, is returned as *ParseError.
func Decode(r io.Reader) (*Config, error) {
	var cfg Config
	dec := json.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return nil, &ParseError{Category: categorize(err), Err: err}
	}
	if err := rejectTrailing(dec); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout != "" {
		d, err := time.ParseDuration(cfg.RequestTimeout)
		if err != nil {
			return nil, &ParseError{Category: CategoryData, Err: fmt.Errorf("request_timeout: %w", err)}
		}
		if d <= 0 {
			return nil, &ParseError{Category: CategoryData, Err: fmt.Errorf("request_timeout must be positive, got %s", d)}
		}
	}
	return &cfg, nil
}

// rejectTrailing fails unless dec is at the end of its input. Anything
// after the document is a syntax error; a failed read stays I/O.
func rejectTrailing(dec *json.Decoder) error {
	var extra json.RawMessage
	err := dec.Decode(&extra)
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case err == nil:
		return &ParseError{Category: CategorySyntax, Err: fmt.Errorf("trailing data after config document at offset %d", dec.InputOffset())}
	case categorize(err) == CategoryIO:
		return &ParseError{Category: CategoryIO, Err: err}
	}
	return &ParseError{Category: CategorySyntax, Err: fmt.Errorf("trailing data after config document: %w", err)}
}

// Save writes the config to disk, creating the parent directory if needed.
func (c *Config) Save() error {
	return c.saveTo("")
}

// saveTo writes the config to the given path. If path is empty, the
// default Path() is used.
func (c *Config) saveTo(path string) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}

	return nil
}

// LoadFrom reads the config from the given path. Intended for testing.
func LoadFrom(path string) (*Config, error) {
	return loadFrom(path)
}

// SaveTo writes the config to the given path. Intended for testing.
func (c *Config) SaveTo(path string) error {
	return c.saveTo(path)
}
