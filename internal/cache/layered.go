package cache

import (
	"errors"
	"time"
)

// LayeredCache serves replies from memory and falls back to disk, so warm
// replies survive a restart.
type LayeredCache struct {
	memory *MemoryCache
	disk   *DiskCache
}

// NewLayeredCache stacks memory over disk
func NewLayeredCache(memory *MemoryCache, disk *DiskCache) *LayeredCache {
	return &LayeredCache{memory: memory, disk: disk}
}

// Get checks memory first. A disk hit is copied into memory for whatever
// lifetime the disk entry has left.
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, ok := c.memory.Get(key); ok {
		return val, true
	}

	entry, ok := c.disk.lookup(key)
	if !ok {
		return nil, false
	}
	if left := time.Until(entry.ExpiresAt); left > 0 {
		_ = c.memory.Set(key, entry.Data, left)
	}
	return entry.Data, true
}

// Set writes through to both layers
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	return errors.Join(c.memory.Set(key, value, ttl), c.disk.Set(key, value, ttl))
}

// Delete removes the key from both layers
func (c *LayeredCache) Delete(key string) error {
	return errors.Join(c.memory.Delete(key), c.disk.Delete(key))
}

// Clear empties both layers
func (c *LayeredCache) Clear() error {
	return errors.Join(c.memory.Clear(), c.disk.Clear())
}
