// Package query is a keyed, de-duplicated and revalidatable request cache.
//
// One Cache is shared by the whole process. Each logical resource (products,
// customers, ...) is a Resource bound to a key; concurrent readers of a key
// share one in-flight load and one cached value. Writes elsewhere in the
// program call Invalidate explicitly; nothing refetches on its own.
package query

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kcmvp/clanadmin/app"
	"golang.org/x/sync/singleflight"
)

// Result is what a reader observes for a key. Err is the error of the latest
// load; Data is the latest successfully loaded value and survives a failed reload.
type Result[T any] struct {
	Data T
	// IsLoading is set while the first load is in flight and nothing is cached yet.
	IsLoading bool
	// IsFetching is set while any load of the key is in flight.
	IsFetching bool
	Err        error
	UpdatedAt  time.Time
}

type entry struct {
	value     any
	hasValue  bool
	err       error
	updatedAt time.Time
	invalid   bool
	inflight  int
}

// Cache holds the entries of every resource.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	group   singleflight.Group
	stale   time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// New creates a cache whose values stay fresh for stale. With stale == 0 every
// Get reloads, though concurrent Gets still share one load.
func New(stale time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = app.Discard()
	}
	return &Cache{
		entries: map[string]*entry{},
		stale:   stale,
		now:     time.Now,
		logger:  logger,
	}
}

// Invalidate marks key as stale; the next Get reloads it. The cached value is
// still served by Peek until the reload resolves.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		e.invalid = true
	}
	c.logger.Debug("cache invalidated", "key", key)
}

// InvalidateAll marks every key as stale.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		e.invalid = true
	}
}

func (c *Cache) entryLocked(key string) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	return e
}

func (c *Cache) fresh(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || !e.hasValue || e.invalid || e.err != nil {
		return false
	}
	return c.now().Sub(e.updatedAt) < c.stale
}

func (c *Cache) begin(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entryLocked(key).inflight++
}

// finish stores the outcome of a load. Loads are not sequenced: whichever
// resolves last overwrites the entry.
func (c *Cache) finish(key string, value any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(key)
	e.inflight--
	e.err = err
	if err != nil {
		c.logger.Warn("cache load failed", "key", key, "err", err)
		return
	}
	e.value = value
	e.hasValue = true
	e.invalid = false
	e.updatedAt = c.now()
}

// load runs fetch for key and records the outcome.
func (c *Cache) load(ctx context.Context, key string, fetch func(context.Context) (any, error)) {
	c.begin(key)
	value, err := fetch(ctx)
	c.finish(key, value, err)
}

// Keys lists the keys that currently hold an entry.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}
