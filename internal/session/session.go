// Package session loads what a CLI command needs to talk to the network:
// the config, the account keys, the local chunk store and a connected
// client. Failures are returned as *coreerr.Error, except ErrNotLoggedIn,
// which is account state rather than a client failure.
package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"nathanbeddoewebdev/safecore/internal/auth"
	"nathanbeddoewebdev/safecore/internal/cache"
	"nathanbeddoewebdev/safecore/internal/chunkstore"
	"nathanbeddoewebdev/safecore/internal/client"
	"nathanbeddoewebdev/safecore/internal/config"
	"nathanbeddoewebdev/safecore/internal/coreerr"
	"nathanbeddoewebdev/safecore/internal/crypt"
	"nathanbeddoewebdev/safecore/internal/transport"
)

// ErrNotLoggedIn is returned by Keys when no account has logged in.
var ErrNotLoggedIn = errors.New("not logged in (run: safecore account login <name>)")

// LoadConfig loads the config file.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		var pe *config.ParseError
		if errors.As(err, &pe) {
			return nil, coreerr.FromParse(pe)
		}
		return nil, coreerr.FromIO(err)
	}
	return cfg, nil
}

// Connect starts a dial-only node and connects a client through the
// configured bootstrap peers. The returned func closes the node.
func Connect(ctx context.Context, cfg *config.Config) (*client.Client, func(), error) {
	node, err := transport.New(transport.Config{})
	if err != nil {
		var te *transport.Error
		if errors.As(err, &te) {
			return nil, nil, coreerr.FromTransport(te)
		}
		return nil, nil, coreerr.Unexpectedf("starting node: %v", err)
	}

	c := client.New(cfg, nil, client.WithVersionCache(cache.NewDefault()))
	if err := c.Connect(ctx, node, nil); err != nil {
		node.Close()
		return nil, nil, err
	}
	return c, func() { node.Close() }, nil
}

// Keys returns the key pair of the current account and its name. With no
// account logged in it returns the plain ErrNotLoggedIn; keychain failures
// are IO errors.
func Keys(store auth.Store) (*crypt.KeyPair, string, error) {
	account, err := auth.Current(store)
	if errors.Is(err, auth.ErrNotFound) {
		return nil, "", ErrNotLoggedIn
	}
	if err != nil {
		return nil, "", coreerr.FromIO(fmt.Errorf("reading current account: %w", err))
	}

	seed, err := auth.LoadSeed(store, account)
	if errors.Is(err, auth.ErrNotFound) {
		return nil, "", ErrNotLoggedIn
	}
	if err != nil {
		return nil, "", coreerr.FromIO(err)
	}
	kp, err := crypt.KeyPairFromSeed(seed)
	if err != nil {
		return nil, "", err
	}
	return kp, account, nil
}

// ChunkStorePath returns the configured chunk database path, or the
// default next to the config file.
func ChunkStorePath(cfg *config.Config) (string, error) {
	if cfg.ChunkDB != "" {
		return cfg.ChunkDB, nil
	}
	dir, err := config.Dir()
	if err != nil {
		return "", coreerr.FromIO(err)
	}
	return filepath.Join(dir, "chunks.db"), nil
}

// OpenChunkStore opens the local chunk store.
func OpenChunkStore(cfg *config.Config) (*chunkstore.SQLiteStore, error) {
	path, err := ChunkStorePath(cfg)
	if err != nil {
		return nil, err
	}
	store, err := chunkstore.OpenAt(path)
	if err != nil {
		return nil, coreerr.FromIO(err)
	}
	return store, nil
}
