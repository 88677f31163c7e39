// Package cache remembers the last version seen for each piece of mutable
// data, so updates can be sent without first fetching the current version.
//
// Entries live in memory and, when the cache has a directory, in one small
// JSON file per name so they survive between CLI invocations.
package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"nathanbeddoewebdev/safecore/internal/data"
)

// DefaultTTL is how long a persisted version is trusted.
const DefaultTTL = 24 * time.Hour

type entry struct {
	Version uint64    `json:"version"`
	SeenAt  time.Time `json:"seen_at"`
}

// Versions is a version cache keyed by data name. A nil *Versions is a valid
// cache that never hits.
type Versions struct {
	dir string
	ttl time.Duration

	mu  sync.Mutex
	mem map[data.Name]entry
}

// New returns a cache persisting to dir. An empty dir keeps entries in
// memory only. A non-positive ttl means DefaultTTL.
func New(dir string, ttl time.Duration) *Versions {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Versions{dir: dir, ttl: ttl, mem: make(map[data.Name]entry)}
}

// NewDefault returns a cache rooted at the OS user cache dir.
func NewDefault() *Versions {
	return New(defaultDir(), DefaultTTL)
}

// Get returns the cached version of name. Expired and unreadable entries
// count as misses.
func (c *Versions) Get(name data.Name) (uint64, bool) {
	if c == nil {
		return 0, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.mem[name]; ok {
		if time.Since(e.SeenAt) < c.ttl {
			return e.Version, true
		}
		delete(c.mem, name)
	}

	e, ok := c.load(name)
	if !ok {
		return 0, false
	}
	c.mem[name] = e
	return e.Version, true
}

// Set records version for name.
func (c *Versions) Set(name data.Name, version uint64) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{Version: version, SeenAt: time.Now().UTC()}
	c.mem[name] = e
	if c.dir == "" {
		return nil
	}
	return c.store(name, e)
}

// Invalidate forgets name.
func (c *Versions) Invalidate(name data.Name) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.mem, name)
	if c.dir == "" {
		return nil
	}
	err := os.Remove(c.pathFor(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Clear forgets every entry.
func (c *Versions) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.mem)
	if c.dir == "" {
		return nil
	}
	err := os.RemoveAll(c.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (c *Versions) load(name data.Name) (entry, bool) {
	if c.dir == "" {
		return entry{}, false
	}
	path := c.pathFor(name)
	b, err := os.ReadFile(path)
	if err != nil {
		return entry{}, false
	}
	var e entry
	if err := json.Unmarshal(b, &e); err != nil {
		return entry{}, false
	}
	if time.Since(e.SeenAt) >= c.ttl {
		_ = os.Remove(path)
		return entry{}, false
	}
	return e, true
}

func (c *Versions) store(name data.Name, e entry) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, name.String()+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, c.pathFor(name))
}

func (c *Versions) pathFor(name data.Name) string {
	return filepath.Join(c.dir, name.String()+".json")
}

func defaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "safecore", "versions")
}
