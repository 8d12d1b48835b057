// Package cache is a TTL'd JSON file cache for marketplace search results.
// One file holds every entry; entries are small (a few hundred sales at
// most) and the whole cache is rewritten on each Put.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Entry wraps cached data with its write time and lifetime.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	TTL       time.Duration   `json:"ttl"`
}

func (e Entry) expired() bool {
	return e.TTL > 0 && time.Since(e.Timestamp) > e.TTL
}

// Cache is a file-backed key/value store. Safe for concurrent use.
type Cache struct {
	path    string
	mu      sync.RWMutex
	entries map[string]Entry
}

// New loads the cache at path, starting fresh if the file is missing or
// corrupt.
func New(path string) (*Cache, error) {
	c := &Cache{
		path:    path,
		entries: make(map[string]Entry),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &c.entries); err != nil {
			c.entries = make(map[string]Entry)
		}
	}
	return c, nil
}

// Get unmarshals the entry for key into target, reporting whether a live
// entry was found. Expired entries are dropped.
func (c *Cache) Get(key string, target interface{}) (bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if entry.expired() {
		c.mu.Lock()
		if e, exists := c.entries[key]; exists && e.expired() {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return false, nil
	}

	if err := json.Unmarshal(entry.Data, target); err != nil {
		return false, fmt.Errorf("unmarshal cache entry: %w", err)
	}
	return true, nil
}

// Put stores value under key and persists the cache file.
func (c *Cache) Put(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}

	c.mu.Lock()
	c.entries[key] = Entry{
		Data:      data,
		Timestamp: time.Now(),
		TTL:       ttl,
	}
	c.mu.Unlock()

	return c.save()
}

// Prune drops expired entries and persists. Returns how many were removed.
func (c *Cache) Prune() (int, error) {
	c.mu.Lock()
	removed := 0
	for key, entry := range c.entries {
		if entry.expired() {
			delete(c.entries, key)
			removed++
		}
	}
	c.mu.Unlock()

	if removed == 0 {
		return 0, nil
	}
	return removed, c.save()
}

// Clear removes every entry and persists.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.entries = make(map[string]Entry)
	c.mu.Unlock()
	return c.save()
}

func (c *Cache) save() error {
	if dir := filepath.Dir(c.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}

	c.mu.RLock()
	data, err := json.MarshalIndent(c.entries, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	return os.WriteFile(c.path, data, 0644)
}

// BuildKey joins parts into a semantic cache key.
func BuildKey(parts ...string) string {
	return strings.Join(parts, "|")
}

// SalesKey is the cache key for one marketplace's results for a query.
func SalesKey(source, query string) string {
	return BuildKey("sales", source, strings.ToLower(query))
}
