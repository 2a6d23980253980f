package geo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"photorium/internal/logging"
)

// Cache memoizes reverse-geocode results so repeated views of the same
// coordinates never hit the network twice. Keys round coordinates to five
// decimal places (about 1.1 m), so nearby queries collapse to one entry.
//
// The cache is backed by a flat JSON file, loaded once at startup and
// persisted on graceful shutdown. Only successful lookups are ever stored;
// failures are re-queried on the next request.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
	path    string
}

// NewCache creates an empty cache persisted at the given file path.
func NewCache(path string) *Cache {
	return &Cache{
		entries: make(map[string]string),
		path:    path,
	}
}

// Key derives the cache key for a coordinate pair.
func Key(lat, lon float64) string {
	return fmt.Sprintf("%.5f,%.5f", lat, lon)
}

// Get returns the cached place name for a coordinate, if present.
func (c *Cache) Get(lat, lon float64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	place, ok := c.entries[Key(lat, lon)]
	return place, ok
}

// Put stores a resolved place name for a coordinate. Existing entries are
// overwritten; in practice a key always resolves to the same place, so
// writes are idempotent.
func (c *Cache) Put(lat, lon float64, place string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[Key(lat, lon)] = place
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Load reads the cache file into memory. A missing or malformed file
// yields an empty cache; startup never fails on cache state.
func (c *Cache) Load() {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("Geocode cache: could not read %s: %v", c.path, err)
		}
		return
	}

	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		logging.Warn("Geocode cache: %s is malformed, starting empty: %v", c.path, err)
		return
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	logging.Info("Geocode cache: loaded %d entries from %s", len(entries), c.path)
}

// Save writes a consistent snapshot of the cache to disk. Writers are
// blocked for the duration of the serialization, so a concurrent Put can
// never race the snapshot.
func (c *Cache) Save() error {
	c.mu.RLock()
	data, err := json.MarshalIndent(c.entries, "", "    ")
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal geocode cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("write geocode cache: %w", err)
	}

	logging.Debug("Geocode cache: saved %d entries to %s", c.Len(), c.path)
	return nil
}
