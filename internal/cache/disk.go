package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotJSON is returned when a non-JSON payload is written to the disk cache
var ErrNotJSON = errors.New("disk cache stores JSON payloads only")

// diskNow is the clock used for expiry (injectable for tests)
var diskNow = time.Now

// DiskCache keeps evidence lookups on disk so they survive CLI restarts.
// Keys built by CacheKey land in one directory per lookup kind:
// rumorscope:v1:factcheck:<hash> becomes <dir>/factcheck/<hash>.json.
type DiskCache struct {
	dir string
	ttl time.Duration
}

// NewDiskCache creates a disk cache rooted at dir; ttl applies when Set gets zero
func NewDiskCache(dir string, ttl time.Duration) *DiskCache {
	return &DiskCache{dir: dir, ttl: ttl}
}

// diskEnvelope is the on-disk record. Payload stays readable JSON.
type diskEnvelope struct {
	Key      string          `json:"key"`
	StoredAt time.Time       `json:"stored_at"`
	Expires  time.Time       `json:"expires"`
	Payload  json.RawMessage `json:"payload"`
}

// Get returns the payload for key; expired or unreadable entries are removed and miss
func (c *DiskCache) Get(key string) ([]byte, bool) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var env diskEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Key != key || !diskNow().Before(env.Expires) {
		_ = os.Remove(path)
		return nil, false
	}
	return env.Payload, true
}

// Set writes the payload through a temp file so readers never see partial entries
func (c *DiskCache) Set(key string, value []byte, ttl time.Duration) error {
	if !json.Valid(value) {
		return ErrNotJSON
	}
	if ttl == 0 {
		ttl = c.ttl
	}

	now := diskNow()
	raw, err := json.Marshal(diskEnvelope{
		Key:      key,
		StoredAt: now.UTC(),
		Expires:  now.Add(ttl).UTC(),
		Payload:  value,
	})
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return fmt.Errorf("create temp entry: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("store entry: %w", err)
	}
	return nil
}

// Delete removes key; a missing entry is not an error
func (c *DiskCache) Delete(key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes every cached entry
func (c *DiskCache) Clear() error {
	return os.RemoveAll(c.dir)
}

func (c *DiskCache) path(key string) string {
	kind, name := "misc", key
	if parts := strings.Split(key, ":"); len(parts) == 4 {
		kind, name = parts[2], parts[3]
	}
	return filepath.Join(c.dir, sanitize(kind), sanitize(name)+".json")
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
