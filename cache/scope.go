package cache

// noCopy may be embedded into structs which must not be copied after first
// use. `go vet` copylocks reports copies. See https://golang.org/issues/8005.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Scope is the handle returned by GetEntry. It either wraps an entry, holding
// one reference on it until Close, or wraps a raw object with no ref-count
// effect (stock objects that are never pooled).
//
// Scopes must not be copied; keep them in a local variable and release with
//
//	s, err := c.GetEntry(key)
//	if err != nil { ... }
//	defer s.Close()
type Scope[D, O any] struct {
	_     noCopy
	obj   O
	entry *Entry[D, O]
}

// NewScope wraps a raw object. Close is a no-op and RefCount reports -1.
func NewScope[D, O any](obj O) Scope[D, O] {
	return Scope[D, O]{obj: obj}
}

// entryScope takes a reference on e before returning, so a scope is never
// observable in a partially acquired state.
func entryScope[D, O any](e *Entry[D, O]) Scope[D, O] {
	e.addRef()
	return Scope[D, O]{entry: e}
}

// Object returns the raw object or the entry's owned object.
// It is valid until Close.
func (s *Scope[D, O]) Object() O {
	if s.entry == nil {
		return s.obj
	}
	return s.entry.Object()
}

// Data returns the entry's key data; ok is false for raw or closed scopes.
func (s *Scope[D, O]) Data() (data D, ok bool) {
	if s.entry == nil {
		return data, false
	}
	return s.entry.Data(), true
}

// RefCount returns the entry's current reference count, or -1 for raw scopes.
func (s *Scope[D, O]) RefCount() int {
	if s.entry == nil {
		return -1
	}
	return s.entry.RefCount()
}

// Cached reports whether the scope holds an entry resident in the cache.
func (s *Scope[D, O]) Cached() bool { return s.entry != nil && s.entry.Cached() }

// Close releases the scope's reference. Calling it again is a no-op.
// For an overflow entry the last Close disposes the object and returns
// any error from doing so.
func (s *Scope[D, O]) Close() error {
	e := s.entry
	if e == nil {
		return nil
	}
	s.entry = nil
	var zero O
	s.obj = zero
	return e.removeRef()
}
