// Package cache stores raw Requirements API response bodies.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/ppiankov/degreeplan/internal/model"
)

// Cache defines the interface for caching response bodies
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a request URL
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "degreeplan-v1-" + hex.EncodeToString(hash[:])
}

// New builds the cache described by cfg.
// A disabled cache, or one without a disk directory, stays in memory or is a no-op.
func New(cfg model.CacheConfig) Cache {
	switch {
	case !cfg.Enabled:
		return Nop{}
	case cfg.DiskDir == "":
		return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
	default:
		return NewLayeredCache(cfg.MemoryTTL, cfg.DiskDir, cfg.DiskTTL)
	}
}

// Nop never stores anything
type Nop struct{}

func (Nop) Get(string) ([]byte, bool) { return nil, false }
func (Nop) Set(string, []byte, time.Duration) error { return nil }
func (Nop) Delete(string) error { return nil }
func (Nop) Clear() error { return nil }
