// Package cache stores chat replies keyed by conversation content.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/brolli/brolli/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from ordered parts. Parts are length-prefixed so
// ("ab","c") and ("a","bc") never collide.
func Key(parts ...string) string {
	h := sha256.New()
	var lenBuf [8]byte
	for _, p := range parts {
		n := uint64(len(p))
		for i := range lenBuf {
			lenBuf[i] = byte(n >> (8 * i))
		}
		h.Write(lenBuf[:])
		h.Write([]byte(p))
	}
	return "brolli:v1:" + hex.EncodeToString(h.Sum(nil))
}

// New builds the cache selected by cfg: nil when disabled, memory only
// without a directory, memory over disk otherwise.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.TTL, 2*cfg.TTL)
	}
	return NewLayeredCache(NewMemoryCache(cfg.TTL, 2*cfg.TTL), NewDiskCache(cfg.Dir, cfg.TTL))
}

// GetJSON decodes a cached value into dst
func GetJSON(c Cache, key string, dst any) bool {
	if c == nil {
		return false
	}
	data, ok := c.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

// SetJSON encodes v and stores it
func SetJSON(c Cache, key string, v any, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(key, data, ttl)
}
