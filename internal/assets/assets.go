// Package assets loads content files (the character rig and the level's
// collision mesh) from one or more content roots, caching raw bytes.
package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/prisonstep/internal/logger"
)

// Manager resolves content paths against registered roots.
type Manager struct {
	roots []root
	cache *Cache
	mu    sync.RWMutex
}

type root struct {
	name string
	fsys fs.FS
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddDir registers a content directory.
// Roots are searched in reverse order (last added = highest priority).
func (m *Manager) AddDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("opening content dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("content dir %s: not a directory", dir)
	}
	m.AddFS(dir, os.DirFS(dir))
	return nil
}

// AddFS registers a file system as a content root.
func (m *Manager) AddFS(name string, fsys fs.FS) {
	m.mu.Lock()
	m.roots = append(m.roots, root{name: name, fsys: fsys})
	m.mu.Unlock()
}

// Load reads a file by slash-separated path relative to the roots.
func (m *Manager) Load(name string) ([]byte, error) {
	name = strings.TrimPrefix(path.Clean(name), "/")

	if data, ok := m.cache.Get(name); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		data, err := fs.ReadFile(m.roots[i].fsys, name)
		if err == nil {
			m.cache.Set(name, data)
			return data, nil
		}
	}

	return nil, fmt.Errorf("file not found: %s", name)
}

// Close drops all roots and cached data.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	hits, misses := m.cache.Stats()
	logger.Named("assets").Debug("closing content",
		zap.Int("roots", len(m.roots)),
		zap.Int("cache_hits", hits),
		zap.Int("cache_misses", misses))

	m.roots = nil
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
