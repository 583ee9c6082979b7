package raw

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"
	"time"
)

// Cache wraps a Decoder and keeps decoded rasters in memory so that reloading
// the same file skips the external decoder.
//
// Entries are keyed by path and validated against the file's size and
// modification time, so a file rewritten on disk is decoded again.
//
// Cache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached rasters remain in memory until Evict or Clear, or until the cache
// holds more than Limit entries, at which point the oldest entry is dropped.
type Cache struct {
	decoder Decoder
	limit   int

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	img     image.Image
	size    int64
	modTime time.Time
	used    time.Time
}

// NewCache creates a cache in front of d holding at most limit rasters.
// A limit below 1 is treated as 1.
func NewCache(d Decoder, limit int) *Cache {
	if limit < 1 {
		limit = 1
	}
	return &Cache{
		decoder: d,
		limit:   limit,
		entries: make(map[string]*cacheEntry),
	}
}

// Decode returns the cached raster for path, or decodes and caches it.
func (c *Cache) Decode(ctx context.Context, path string) (image.Image, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	c.mu.Lock()
	if e, ok := c.entries[path]; ok && e.size == stat.Size() && e.modTime.Equal(stat.ModTime()) {
		e.used = time.Now()
		c.mu.Unlock()
		return e.img, nil
	}
	c.mu.Unlock()

	img, err := c.decoder.Decode(ctx, path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[path] = &cacheEntry{img: img, size: stat.Size(), modTime: stat.ModTime(), used: time.Now()}
	c.evictOldestLocked()
	c.mu.Unlock()

	return img, nil
}

// Len returns the number of cached rasters.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Evict removes a specific path from the cache. Unknown paths are ignored.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Clear removes every cached raster.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

func (c *Cache) evictOldestLocked() {
	for len(c.entries) > c.limit {
		var oldestKey string
		var oldest time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.used.Before(oldest) {
				oldestKey, oldest = k, e.used
			}
		}
		delete(c.entries, oldestKey)
	}
}
