package cache

import (
	"errors"
	"io"
	"sync/atomic"
)

// Entry is a reference-counted wrapper owning one cached object plus the key
// data used to re-validate a match. Entries are created by the cache; callers
// only see them through a Scope.
type Entry[D, O any] struct {
	data D
	obj  O

	// cached is fixed at construction: true for entries admitted to the
	// bounded list, false for overflow entries that dispose themselves.
	cached bool

	refs     atomic.Int32
	disposed atomic.Bool

	// Intrusive list links: head is the most recently inserted or promoted.
	// Guarded by the owning cache's lock; nil for overflow entries.
	prev *Entry[D, O]
	next *Entry[D, O]
}

func newEntry[D, O any](data D, obj O, cached bool) *Entry[D, O] {
	return &Entry[D, O]{data: data, obj: obj, cached: cached}
}

// Data returns the key data the entry was created for.
func (e *Entry[D, O]) Data() D { return e.data }

// Object returns the owned object, or the zero value once the entry is disposed.
func (e *Entry[D, O]) Object() O {
	if e.disposed.Load() {
		var zero O
		return zero
	}
	return e.obj
}

// RefCount returns the number of live scopes on the entry.
func (e *Entry[D, O]) RefCount() int { return int(e.refs.Load()) }

// Cached reports whether the entry occupies cache capacity.
func (e *Entry[D, O]) Cached() bool { return e.cached }

// Disposed reports whether the owned object has been released.
func (e *Entry[D, O]) Disposed() bool { return e.disposed.Load() }

func (e *Entry[D, O]) addRef() { e.refs.Add(1) }

// removeRef drops one reference. An overflow entry disposes itself when the
// last reference goes away; cached entries are left to the engine.
func (e *Entry[D, O]) removeRef() error {
	n := e.refs.Add(-1)
	if n < 0 {
		panic("cache: entry released more times than acquired")
	}
	if n == 0 && !e.cached {
		return e.dispose()
	}
	return nil
}

// dispose closes the object and then the key data if they implement io.Closer.
// Ownership passes to exactly one of the list or an overflow scope, so a
// second call cannot happen; the CAS only turns it into a no-op if it ever did.
func (e *Entry[D, O]) dispose() error {
	if !e.disposed.CompareAndSwap(false, true) {
		return nil
	}
	var errs []error
	if c, ok := any(e.obj).(io.Closer); ok && c != nil {
		errs = append(errs, c.Close())
	}
	if c, ok := any(e.data).(io.Closer); ok && c != nil {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
