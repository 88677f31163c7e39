package cache

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"nathanbeddoewebdev/safecore/internal/data"
)

func TestVersions_SetGetRoundTrip(t *testing.T) {
	c := New(t.TempDir(), time.Hour)
	name := data.NameOf([]byte("root"))

	if _, hit := c.Get(name); hit {
		t.Fatal("expected miss before Set")
	}
	if err := c.Set(name, 4); err != nil {
		t.Fatalf("failed to set cache: %v", err)
	}
	v, hit := c.Get(name)
	if !hit || v != 4 {
		t.Fatalf("Get = (%d, %v), want (4, true)", v, hit)
	}
}

func TestVersions_Persisted(t *testing.T) {
	dir := t.TempDir()
	name := data.NameOf([]byte("root"))

	if err := New(dir, time.Hour).Set(name, 9); err != nil {
		t.Fatalf("failed to set cache: %v", err)
	}

	v, hit := New(dir, time.Hour).Get(name)
	if !hit || v != 9 {
		t.Fatalf("Get from fresh cache = (%d, %v), want (9, true)", v, hit)
	}
}

func TestVersions_ExpiredEntry(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, time.Hour)
	name := data.NameOf([]byte("old"))

	stale, err := json.Marshal(entry{Version: 1, SeenAt: time.Now().Add(-2 * time.Hour)})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if err := os.WriteFile(c.pathFor(name), stale, 0o600); err != nil {
		t.Fatalf("failed to write cache file: %v", err)
	}

	if _, hit := c.Get(name); hit {
		t.Fatal("expected cache miss for expired entry")
	}
	if _, err := os.Stat(c.pathFor(name)); !os.IsNotExist(err) {
		t.Errorf("expected expired file to be removed, stat err = %v", err)
	}
}

func TestVersions_CorruptEntry(t *testing.T) {
	c := New(t.TempDir(), time.Hour)
	name := data.NameOf([]byte("corrupt"))

	if err := os.WriteFile(c.pathFor(name), []byte("{invalid json"), 0o600); err != nil {
		t.Fatalf("failed to write corrupt cache file: %v", err)
	}
	if _, hit := c.Get(name); hit {
		t.Fatal("expected cache miss for corrupt entry")
	}
}

func TestVersions_InvalidateAndClear(t *testing.T) {
	c := New(t.TempDir(), time.Hour)
	a := data.NameOf([]byte("a"))
	b := data.NameOf([]byte("b"))

	for _, n := range []data.Name{a, b} {
		if err := c.Set(n, 1); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := c.Invalidate(a); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if _, hit := c.Get(a); hit {
		t.Error("expected miss after Invalidate")
	}
	if err := c.Invalidate(a); err != nil {
		t.Errorf("second Invalidate failed: %v", err)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, hit := c.Get(b); hit {
		t.Error("expected miss after Clear")
	}
}

func TestVersions_MemoryOnlyAndNil(t *testing.T) {
	c := New("", 0)
	name := data.NameOf([]byte("m"))
	if err := c.Set(name, 2); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, hit := c.Get(name); !hit || v != 2 {
		t.Errorf("Get = (%d, %v), want (2, true)", v, hit)
	}

	var none *Versions
	if _, hit := none.Get(name); hit {
		t.Error("nil cache must never hit")
	}
	if err := none.Set(name, 1); err != nil {
		t.Errorf("nil Set returned %v", err)
	}
}
