package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"nathanbeddoewebdev/safecore/internal/auth"
	"nathanbeddoewebdev/safecore/internal/config"
	"nathanbeddoewebdev/safecore/internal/coreerr"
	"nathanbeddoewebdev/safecore/internal/crypt"
)

func setupTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	config.SetPath(path)
	t.Cleanup(config.ResetPath)
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    coreerr.Kind
	}{
		{"syntax", "{invalid json", coreerr.KindConfig},
		{"bad timeout", `{"request_timeout": "soon"}`, coreerr.KindConfig},
		{"truncated", `{"read_only": true`, coreerr.KindConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := setupTestConfig(t)
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}
			_, err := LoadConfig()
			if !coreerr.IsKind(err, tt.want) {
				t.Errorf("expected %s, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadConfig_Unreadable(t *testing.T) {
	path := setupTestConfig(t)
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	_, err := LoadConfig()
	if !coreerr.IsKind(err, coreerr.KindIO) {
		t.Errorf("expected IoError, got %v", err)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	setupTestConfig(t)
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ReadOnly || len(cfg.BootstrapPeers) != 0 {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestKeys(t *testing.T) {
	store := auth.NewMockStore()

	if _, _, err := Keys(store); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}

	seed := make([]byte, crypt.SeedSize)
	seed[0] = 9
	if err := auth.SaveSeed(store, "alice", seed); err != nil {
		t.Fatalf("SaveSeed failed: %v", err)
	}
	kp, account, err := Keys(store)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	want, _ := crypt.KeyPairFromSeed(seed)
	if account != "alice" || *kp != *want {
		t.Errorf("Keys = (%x, %q)", kp.Public, account)
	}
}

// brokenStore fails every read like an unreachable keychain.
type brokenStore struct{}

var errLocked = errors.New("keychain locked")

func (brokenStore) SetSecret(string, string) error { return errLocked }
func (brokenStore) GetSecret(string) (string, error) { return "", errLocked }
func (brokenStore) DeleteSecret(string) error { return errLocked }

func TestKeys_Errors(t *testing.T) {
	_, _, err := Keys(auth.NewMockStore())
	if _, ok := coreerr.KindOf(err); ok {
		t.Errorf("ErrNotLoggedIn must stay a plain error, got kind for %v", err)
	}

	_, _, err = Keys(brokenStore{})
	if !coreerr.IsKind(err, coreerr.KindIO) {
		t.Errorf("expected IO error for a failing keychain, got %v", err)
	}

	store := auth.NewMockStore()
	if err := store.SetSecret("@current", "carol"); err != nil {
		t.Fatalf("SetSecret failed: %v", err)
	}
	if err := store.SetSecret("carol", "not hex"); err != nil {
		t.Fatalf("SetSecret failed: %v", err)
	}
	if _, _, err := Keys(store); !coreerr.IsKind(err, coreerr.KindIO) {
		t.Errorf("expected IO error for an unreadable seed, got %v", err)
	}
}

func TestKeys_BadSeed(t *testing.T) {
	store := auth.NewMockStore()
	if err := auth.SaveSeed(store, "bob", []byte{1, 2, 3}); err != nil {
		t.Fatalf("SaveSeed failed: %v", err)
	}
	_, _, err := Keys(store)
	if !coreerr.IsKind(err, coreerr.KindUnexpected) {
		t.Errorf("expected Unexpected, got %v", err)
	}
}

func TestChunkStore(t *testing.T) {
	path := setupTestConfig(t)

	got, err := ChunkStorePath(&config.Config{})
	if err != nil {
		t.Fatalf("ChunkStorePath failed: %v", err)
	}
	if want := filepath.Join(filepath.Dir(path), "chunks.db"); got != want {
		t.Errorf("default path = %q, want %q", got, want)
	}

	custom := filepath.Join(t.TempDir(), "custom.db")
	store, err := OpenChunkStore(&config.Config{ChunkDB: custom})
	if err != nil {
		t.Fatalf("OpenChunkStore failed: %v", err)
	}
	store.Close()
	if _, err := os.Stat(custom); err != nil {
		t.Errorf("expected chunk db at %s: %v", custom, err)
	}
}
