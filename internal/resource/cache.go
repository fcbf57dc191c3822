package resource

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Loader decodes the asset at path. release frees it once unreferenced.
type Loader[T any] struct {
	Load    func(path string) (T, error)
	Release func(T)
}

// Cache shares one loaded asset per path. It keeps a reference of its own
// until Purge, so repeated loads of the same path do not hit the loader.
// Failed loads are not cached and not retried; the caller gets an invalid
// handle and picks a fallback.
type Cache[T any] struct {
	mu      sync.Mutex
	kind    string
	loader  Loader[T]
	entries map[string]Handle[T]
	log     *zap.Logger
}

func NewCache[T any](kind string, loader Loader[T], log *zap.Logger) *Cache[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache[T]{
		kind:    kind,
		loader:  loader,
		entries: make(map[string]Handle[T]),
		log:     log,
	}
}

// Load returns a retained handle for path. The caller owns the returned
// reference and must Release it.
func (c *Cache[T]) Load(path string) (Handle[T], error) {
	if path == "" {
		return Handle[T]{}, ErrEmptyPath
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.entries[path]; ok && h.Valid() {
		return h.Retain(), nil
	}
	v, err := c.loader.Load(path)
	if err != nil {
		c.log.Error("resource load failed",
			zap.String("kind", c.kind), zap.String("path", path), zap.Error(err))
		return Handle[T]{}, fmt.Errorf("load %s %s: %w", c.kind, path, err)
	}
	h := NewHandle(v, c.loader.Release)
	c.entries[path] = h
	c.log.Debug("resource loaded", zap.String("kind", c.kind), zap.String("path", path))
	return h.Retain(), nil
}

// Purge drops the cache's own reference to path. The asset stays alive
// while callers still hold handles.
func (c *Cache[T]) Purge(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.entries[path]; ok {
		h.Release()
		delete(c.entries, path)
	}
}

// PurgeAll drops every cached reference.
func (c *Cache[T]) PurgeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for path, h := range c.entries {
		h.Release()
		delete(c.entries, path)
	}
}

func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
