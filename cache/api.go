package cache

// Adapter supplies the per-cache construction and equality policy.
// Both methods are called under the cache lock and must not call back
// into the same cache.
type Adapter[K, D, O any] interface {
	// Create builds the key data and the owned object for key.
	// A non-nil error is returned to the GetEntry caller unmodified.
	Create(key K) (D, O, error)

	// Match reports whether key selects the entry created with data.
	// It defines the equivalence class of keys, independent of identity.
	Match(key K, data D) bool
}

// KeyValidator is an optional Adapter extension. When implemented, GetEntry
// rejects keys for which ValidKey returns an error (wrapped in ErrInvalidKey).
type KeyValidator[K any] interface {
	ValidKey(key K) error
}

// Getter is the surface shared by Cache and Sharded.
// All methods are safe for concurrent use by multiple goroutines.
type Getter[K, D, O any] interface {
	// GetEntry returns a scope over a live object for key's equivalence
	// class, creating it on miss. The caller must Close the scope.
	GetEntry(key K) (Scope[D, O], error)

	// Len returns the number of cached (resident) entries.
	Len() int

	// Stats returns a snapshot of the cache counters.
	Stats() Stats

	// Close disposes every resident entry regardless of references.
	// The cache must outlive all scopes it has issued.
	Close() error
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Entries   int
	Hits      uint64
	Misses    uint64
	Admits    uint64
	Overflows uint64
	Evictions uint64
}

func (s Stats) add(o Stats) Stats {
	s.Entries += o.Entries
	s.Hits += o.Hits
	s.Misses += o.Misses
	s.Admits += o.Admits
	s.Overflows += o.Overflows
	s.Evictions += o.Evictions
	return s
}

var (
	_ Getter[string, string, any] = (*Cache[string, string, any])(nil)
	_ Getter[string, string, any] = (*Sharded[string, string, any])(nil)
)
