package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey generates a cache key from a lookup kind and its inputs
func CacheKey(kind string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(strings.Join(parts, "\x00"))))
	return "rumorscope:v1:" + kind + ":" + hex.EncodeToString(hash[:])
}

// New builds the configured cache: memory only, or memory layered over disk when dir is set
func New(ttl time.Duration, dir string) Cache {
	if dir == "" {
		return NewMemoryCache(ttl, 10*time.Minute)
	}
	return NewLayeredCache(ttl, dir, ttl)
}
