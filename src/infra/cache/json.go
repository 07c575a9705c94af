// Package cache stores positive identifications in a JSON file keyed by
// file fingerprint.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"chronotune/src/music"
)

// FileCache is a JSON-backed identification cache. Entries are kept in
// memory and only written out by Flush, via a temp file so a crash mid-write
// never corrupts the previous cache.
type FileCache struct {
	path string

	mu      sync.Mutex
	entries map[string]music.CacheEntry
	dirty   bool
}

// New loads the cache at path. A missing or unreadable file starts an empty
// cache; a corrupt one is discarded with a warning, never an error.
func New(path string) *FileCache {
	c := &FileCache{
		path:    path,
		entries: make(map[string]music.CacheEntry),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read cache file, starting empty", "path", path, "error", err)
		}
		return c
	}

	if err := json.Unmarshal(data, &c.entries); err != nil {
		slog.Warn("Cache file is corrupt, starting empty", "path", path, "error", err)
		c.entries = make(map[string]music.CacheEntry)
	}

	slog.Debug("Cache loaded", "path", path, "entries", len(c.entries))
	return c
}

// Get looks up a cached identification by fingerprint.
func (c *FileCache) Get(key string) (music.CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	return entry, ok
}

// Put stores an identification and marks the cache dirty.
func (c *FileCache) Put(key string, entry music.CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
	c.dirty = true
}

// Flush writes the cache to disk if anything changed since the last flush.
func (c *FileCache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	c.dirty = false
	slog.Debug("Cache flushed", "path", c.path, "entries", len(c.entries))
	return nil
}

// Len returns the number of cached entries.
func (c *FileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear empties the cache and removes the backing file.
func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]music.CacheEntry)
	c.dirty = false

	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache file %s: %w", filepath.Base(c.path), err)
	}
	return nil
}
