package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"video-gallery/internal/models"
	"video-gallery/shared/records"
)

// InfoCache is a persistent map from normalized video URL to fetched
// metadata, so each URL is only fetched once.
type InfoCache struct {
	filePath string
	entries  map[string]models.VideoInfo
	mu       sync.RWMutex
}

// NewInfoCache opens the cache stored at filePath. A missing file starts an
// empty cache.
func NewInfoCache(filePath string) (*InfoCache, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &InfoCache{
		filePath: filePath,
		entries:  make(map[string]models.VideoInfo),
	}

	if err := cache.load(); err != nil {
		return nil, fmt.Errorf("failed to load video info cache: %w", err)
	}

	return cache, nil
}

// Get returns the cached entry for url.
func (c *InfoCache) Get(url string) (models.VideoInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	info, ok := c.entries[url]
	return info, ok
}

// Has reports whether url has been fetched before.
func (c *InfoCache) Has(url string) bool {
	_, ok := c.Get(url)
	return ok
}

// Put stores info for url. Call Save to persist it.
func (c *InfoCache) Put(url string, info models.VideoInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = info
}

// Len returns the number of cached URLs.
func (c *InfoCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Entries returns a copy of every cached entry.
func (c *InfoCache) Entries() map[string]models.VideoInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]models.VideoInfo, len(c.entries))
	for url, info := range c.entries {
		out[url] = info
	}
	return out
}

// Prune drops entries carrying one of the bad thumbnails and failed entries
// older than retryAfter, so the next run fetches them again. It returns the
// number of entries removed.
func (c *InfoCache) Prune(now time.Time, retryAfter time.Duration, badThumbnails ...string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	bad := make(map[string]bool, len(badThumbnails))
	for _, thumb := range badThumbnails {
		bad[thumb] = true
	}

	removed := 0
	for url, info := range c.entries {
		stale := info.Source == models.SourceError && retryAfter > 0 && now.Sub(info.FetchedAt) >= retryAfter
		if bad[info.Thumbnail] || stale {
			delete(c.entries, url)
			removed++
		}
	}
	return removed
}

// Save writes the cache atomically with sorted keys.
func (c *InfoCache) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := records.WriteJSON(c.filePath, c.entries); err != nil {
		return fmt.Errorf("failed to save video info cache: %w", err)
	}
	return nil
}

// load reads the cache from the JSON file
func (c *InfoCache) load() error {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist yet, start with empty cache
			return nil
		}
		return fmt.Errorf("failed to open cache file: %w", err)
	}

	if err := json.Unmarshal(data, &c.entries); err != nil {
		return fmt.Errorf("cache must be a JSON object of url to info: %w", err)
	}
	if c.entries == nil {
		c.entries = make(map[string]models.VideoInfo)
	}
	return nil
}
