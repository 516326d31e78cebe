package main

import (
	"errors"
	"io"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/IvanBrykalov/handlecache/internal/singleflight"
	"github.com/IvanBrykalov/handlecache/paint"
)

const (
	engineRefCache = "refcache"
	engineLRU      = "lru"
)

// release returns an acquired object to its owner.
type release func() error

// lane is what a worker draws with. Acquired objects stay valid until released.
type lane interface {
	pen(c paint.Color) (release, error)
	brush(c paint.Color) (release, error)
}

// counters is the engine-independent view reported at exit.
type counters struct {
	hits, misses, overflows, evictions uint64
}

func (c counters) hitRate() float64 {
	if n := c.hits + c.misses; n > 0 {
		return float64(c.hits) / float64(n) * 100
	}
	return 0
}

// -------------------- refcache --------------------

type toolboxLane struct{ tb *paint.Toolbox }

func (l toolboxLane) pen(c paint.Color) (release, error) {
	s, err := l.tb.Pen(c)
	if err != nil {
		return nil, err
	}
	return s.Close, nil
}

func (l toolboxLane) brush(c paint.Color) (release, error) {
	s, err := l.tb.Brush(c)
	if err != nil {
		return nil, err
	}
	return s.Close, nil
}

func toolboxCounters(boxes []*paint.Toolbox) counters {
	var out counters
	for _, tb := range boxes {
		st := tb.Stats()
		for _, s := range [...]struct{ h, m, o, e uint64 }{
			{st.Pens.Hits, st.Pens.Misses, st.Pens.Overflows, st.Pens.Evictions},
			{st.Brushes.Hits, st.Brushes.Misses, st.Brushes.Overflows, st.Brushes.Evictions},
		} {
			out.hits += s.h
			out.misses += s.m
			out.overflows += s.o
			out.evictions += s.e
		}
	}
	return out
}

// -------------------- lru baseline --------------------

// lruPool is a shared LRU of handle objects. It does not pin: an object
// evicted while a worker still draws with it is closed anyway.
type lruPool[T io.Closer] struct {
	lru    *lru.Cache[paint.Color, T]
	create func(paint.Color) (T, error)
	sf     singleflight.Group[paint.Color, T]

	hits, misses, evicts atomic.Uint64
	errs                 atomic.Pointer[error]
}

func newLRUPool[T io.Closer](size int, create func(paint.Color) (T, error)) *lruPool[T] {
	p := &lruPool[T]{create: create}
	c, err := lru.NewWithEvict[paint.Color, T](size, func(_ paint.Color, v T) {
		p.evicts.Add(1)
		if err := v.Close(); err != nil {
			p.errs.CompareAndSwap(nil, &err)
		}
	})
	if err != nil {
		panic(err)
	}
	p.lru = c
	return p
}

func (p *lruPool[T]) get(c paint.Color) (release, error) {
	if _, ok := p.lru.Get(c); ok {
		p.hits.Add(1)
		return noRelease, nil
	}
	p.misses.Add(1)
	// Workers missing on the same color wait for one construction.
	_, err, _ := p.sf.Do(c, func() (T, error) {
		v, err := p.create(c)
		if err != nil {
			return v, err
		}
		// A construction that finished just before ours may already be resident.
		if ok, _ := p.lru.ContainsOrAdd(c, v); ok {
			return v, v.Close()
		}
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return noRelease, nil
}

func (p *lruPool[T]) close() error {
	p.lru.Purge()
	if err := p.errs.Load(); err != nil {
		return *err
	}
	return nil
}

func noRelease() error { return nil }

type lruLane struct {
	pens    *lruPool[*paint.Pen]
	brushes *lruPool[*paint.Brush]
}

func newLRULane(alloc paint.Allocator, penSize, brushSize int) *lruLane {
	return &lruLane{
		pens: newLRUPool(penSize, func(c paint.Color) (*paint.Pen, error) {
			return paint.NewPen(alloc, c)
		}),
		brushes: newLRUPool(brushSize, func(c paint.Color) (*paint.Brush, error) {
			return paint.NewBrush(alloc, c)
		}),
	}
}

func (l *lruLane) pen(c paint.Color) (release, error)   { return l.pens.get(c) }
func (l *lruLane) brush(c paint.Color) (release, error) { return l.brushes.get(c) }

func (l *lruLane) counters() counters {
	return counters{
		hits:      l.pens.hits.Load() + l.brushes.hits.Load(),
		misses:    l.pens.misses.Load() + l.brushes.misses.Load(),
		evictions: l.pens.evicts.Load() + l.brushes.evicts.Load(),
	}
}

func (l *lruLane) close() error {
	return errors.Join(l.pens.close(), l.brushes.close())
}
