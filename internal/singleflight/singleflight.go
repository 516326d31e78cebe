// Package singleflight coalesces concurrent constructions of the same object.
package singleflight

import "sync"

// Group runs fn at most once per key among overlapping callers.
// Callers arriving while a construction is in flight wait for it and
// receive the same value; shared reports that to them. Once the call
// returns the key is forgotten, so a later miss constructs again.
//
// The zero Group is ready to use.
type Group[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]*call[V]
}

type call[V any] struct {
	wg  sync.WaitGroup // done when val/err are published
	val V
	err error
}

// Do returns the result of fn for key, running it only if no call for key is
// in flight. Followers block until the leader's fn returns.
func (g *Group[K, V]) Do(key K, fn func() (V, error)) (v V, err error, shared bool) {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[K]*call[V])
	}
	if c, ok := g.m[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}

	c := &call[V]{}
	c.wg.Add(1)
	g.m[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()
	c.wg.Done()

	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()

	return c.val, c.err, false
}

// InFlight returns the number of keys currently being constructed.
func (g *Group[K, V]) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.m)
}
