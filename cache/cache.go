package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/IvanBrykalov/handlecache/internal/util"
)

// Cache is a bounded, reference-counted object cache keyed by K.
// Lookups walk a short list under one mutex; referenced entries are never
// evicted, and once every slot up to the hard limit is referenced, misses are
// served by uncached entries that dispose themselves on last release.
type Cache[K, D, O any] struct {
	// ---- guarded by mu ----
	mu     sync.Mutex
	ls     list[D, O]
	clean  bool // over the soft limit; compact before the next insert
	closed bool

	ad       Adapter[K, D, O]
	validate func(K) error
	opt      Options
	log      *slog.Logger

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_         util.CacheLinePad
	hits      util.PaddedAtomicUint64
	misses    util.PaddedAtomicUint64
	admits    util.PaddedAtomicUint64
	overflows util.PaddedAtomicUint64
	evicts    util.PaddedAtomicUint64
}

// New constructs a cache around ad with the provided Options.
// It panics if SoftLimit > HardLimit after defaults are applied.
func New[K, D, O any](ad Adapter[K, D, O], opt Options) *Cache[K, D, O] {
	if ad == nil {
		panic("cache: nil Adapter")
	}
	opt = opt.withDefaults()
	c := &Cache[K, D, O]{
		ad:  ad,
		opt: opt,
		log: opt.Logger,
	}
	if v, ok := ad.(KeyValidator[K]); ok {
		c.validate = v.ValidKey
	}
	return c
}

// GetEntry returns a scope over the object for key, creating it on miss.
func (c *Cache[K, D, O]) GetEntry(key K) (Scope[D, O], error) {
	if isNilKey(key) {
		return Scope[D, O]{}, ErrInvalidKey
	}
	if c.validate != nil {
		if err := c.validate(key); err != nil {
			return Scope[D, O]{}, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Scope[D, O]{}, ErrClosed
	}
	if e := c.findLocked(key); e != nil {
		c.hits.Add(1)
		c.opt.Metrics.Hit()
		return entryScope(e), nil
	}
	c.misses.Add(1)
	c.opt.Metrics.Miss()
	return c.addLocked(key)
}

// Len returns the number of resident entries.
func (c *Cache[K, D, O]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ls.len
}

// Stats returns a snapshot of the counters.
func (c *Cache[K, D, O]) Stats() Stats {
	return Stats{
		Entries:   c.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Admits:    c.admits.Load(),
		Overflows: c.overflows.Load(),
		Evictions: c.evicts.Load(),
	}
}

// Close disposes every resident entry, referenced or not, and marks the
// cache closed. Further GetEntry calls return ErrClosed. Close is idempotent.
func (c *Cache[K, D, O]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	for e := c.ls.head; e != nil; {
		next := e.next
		if n := e.RefCount(); n > 0 {
			c.log.Debug("disposing referenced entry on close", slog.Int("refs", n))
		}
		c.ls.remove(e)
		if err := c.evictLocked(e, EvictDispose); err != nil {
			errs = append(errs, err)
		}
		e = next
	}
	c.clean = false
	return errors.Join(errs...)
}

// -------------------- internals (mu held) --------------------

// findLocked walks the list from the head. A hit found after more than
// MoveToFront steps is promoted to the head.
func (c *Cache[K, D, O]) findLocked(key K) *Entry[D, O] {
	position := c.opt.MoveToFront
	for e := c.ls.head; e != nil; e = e.next {
		if c.ad.Match(key, e.data) {
			if position < 0 {
				c.ls.moveToFront(e)
			}
			return e
		}
		position--
	}
	return nil
}

// addLocked admits a new cached entry if there is room after compaction,
// otherwise hands out an uncached overflow entry.
func (c *Cache[K, D, O]) addLocked(key K) (Scope[D, O], error) {
	if c.clean || c.ls.len >= c.opt.HardLimit {
		c.cleanLocked()
	}

	cached := c.ls.len < c.opt.HardLimit
	data, obj, err := c.ad.Create(key)
	if err != nil {
		return Scope[D, O]{}, err
	}
	e := newEntry(data, obj, cached)

	if !cached {
		c.overflows.Add(1)
		c.opt.Metrics.Overflow()
		c.log.Debug("cache full, serving uncached entry",
			slog.Int("entries", c.ls.len), slog.Int("hard_limit", c.opt.HardLimit))
		return entryScope(e), nil
	}

	c.ls.pushFront(e)
	c.admits.Add(1)
	c.opt.Metrics.Admit()
	if c.ls.len > c.opt.SoftLimit {
		c.clean = true
	}
	return entryScope(e), nil
}

// cleanLocked evicts unreferenced entries among the last (len - SoftLimit)
// nodes. References are only added under mu, so a zero count observed here
// stays zero until the entry is gone.
func (c *Cache[K, D, O]) cleanLocked() {
	overage := c.ls.len - c.opt.SoftLimit
	if overage <= 0 {
		c.clean = false
		return
	}

	removed := 0
	for e := c.ls.tail; e != nil && overage > 0; overage-- {
		prev := e.prev
		if e.RefCount() == 0 {
			c.ls.remove(e)
			if err := c.evictLocked(e, EvictCompaction); err != nil {
				c.log.Warn("dispose failed", slog.Any("err", err))
			}
			removed++
		}
		e = prev
	}
	if removed == 0 {
		// Every tail entry is in use: the cache is undersized for the
		// workload, or scopes are not being closed.
		c.log.Debug("tail entries all referenced",
			slog.Int("entries", c.ls.len), slog.Int("soft_limit", c.opt.SoftLimit))
	}
	c.clean = c.ls.len > c.opt.SoftLimit
}

// evictLocked disposes an entry already unlinked from the list.
func (c *Cache[K, D, O]) evictLocked(e *Entry[D, O], reason EvictReason) error {
	c.evicts.Add(1)
	c.opt.Metrics.Evict(reason)
	return e.dispose()
}
