// Package buildcache holds the outputs produced during one build, keyed by output path.
package buildcache

import (
	"bytes"
	"sync"
	"sync/atomic"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Cache maps output paths to produced content. Each output path is computed at
// most once: concurrent requests for a key that is being computed wait for
// that computation instead of starting another.
//
// The source path of every entry is remembered. A request for an existing
// output path from a different source fails with domain.ErrOutputConflict.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	source  string
	content []byte
}

// Stats reports cache activity.
type Stats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// New creates an empty Cache. A Cache belongs to a single build.
func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// GetOrCompute returns the content stored under outputPath, calling compute to
// produce it when absent. hit reports whether the content came from the cache.
// Failed computations are not stored.
func (c *Cache) GetOrCompute(
	outputPath, sourcePath string,
	compute func() ([]byte, error),
) (content []byte, hit bool, err error) {
	if e, ok := c.get(outputPath); ok {
		return c.checked(outputPath, sourcePath, e, true)
	}

	computed := false
	v, err, _ := c.group.Do(outputPath, func() (any, error) {
		if e, ok := c.get(outputPath); ok {
			return e, nil
		}

		out, err := compute()
		if err != nil {
			return nil, err
		}
		computed = true

		e := entry{source: sourcePath, content: bytes.Clone(out)}
		c.mu.Lock()
		c.entries[outputPath] = e
		c.mu.Unlock()
		return e, nil
	})
	if err != nil {
		return nil, false, err
	}

	if computed {
		c.misses.Add(1)
	}
	return c.checked(outputPath, sourcePath, v.(entry), !computed)
}

// Get returns a copy of the content stored under outputPath.
func (c *Cache) Get(outputPath string) ([]byte, bool) {
	e, ok := c.get(outputPath)
	if !ok {
		return nil, false
	}
	return bytes.Clone(e.content), true
}

// Snapshot returns a copy of every stored output.
func (c *Cache) Snapshot() map[string][]byte {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string][]byte, len(c.entries))
	for k, e := range c.entries {
		out[k] = bytes.Clone(e.content)
	}
	return out
}

// Sources returns the source path of every stored output.
func (c *Cache) Sources() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]string, len(c.entries))
	for k, e := range c.entries {
		out[k] = e.source
	}
	return out
}

// Stats returns the current cache counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()

	return Stats{
		Entries: n,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

func (c *Cache) get(outputPath string) (entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[outputPath]
	return e, ok
}

func (c *Cache) checked(outputPath, sourcePath string, e entry, hit bool) ([]byte, bool, error) {
	if e.source != sourcePath {
		err := zerr.With(zerr.Wrap(domain.ErrOutputConflict, "output path already built from another source"), "output", outputPath)
		err = zerr.With(err, "existing_source", e.source)
		return nil, hit, zerr.With(err, "path", sourcePath)
	}
	if hit {
		c.hits.Add(1)
	}
	return bytes.Clone(e.content), hit, nil
}
