// Package cache provides a generic, bounded, reference-counted object cache
// for expensive handle-like resources (pens, brushes, fonts, bitmaps ...).
//
// Design
//
//   - Entries: each Entry owns one object plus the key data it was built
//     from, and an atomic reference count. Callers never touch entries
//     directly; GetEntry returns a Scope that holds one reference until Close.
//
//   - Storage: a short intrusive list guarded by one mutex per cache. Lookups
//     walk it from the head and test Adapter.Match, so keys are compared by
//     equivalence, not identity. A hit found deep in the list (more than
//     Options.MoveToFront steps) is moved to the head.
//
//   - Limits: SoftLimit is the size the cache tries to stay under; HardLimit
//     is never exceeded. Going over the soft limit marks the cache for
//     compaction on the next insert, which evicts unreferenced entries from
//     the tail segment only (len - SoftLimit nodes). Referenced entries are
//     never evicted.
//
//   - Overflow: when every slot up to HardLimit is referenced, a miss gets an
//     uncached entry. It does not occupy capacity and disposes itself when its
//     last scope is closed. Callers are never blocked and never fail for lack
//     of room.
//
//   - Disposal: objects and key data implementing io.Closer are closed when
//     the entry is disposed, exactly once.
//
//   - Deployment: caches are explicit values. The usual setup is one cache
//     per worker to avoid contention; a cache is also safe to share, and
//     Sharded splits a shared cache by key hash.
//
// Basic usage
//
//	type penAdapter struct{}
//
//	func (penAdapter) Create(c Color) (Color, *Pen, error) { p, err := NewPen(c); return c, p, err }
//	func (penAdapter) Match(k, d Color) bool               { return k == d }
//
//	pens := cache.New[Color, Color, *Pen](penAdapter{}, cache.Options{SoftLimit: 40, HardLimit: 60})
//	defer pens.Close()
//
//	s, err := pens.GetEntry(red)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//	draw(s.Object())
//
// Thread-safety & complexity
//
// All methods on Cache and Sharded are safe for concurrent use. GetEntry is
// O(n) in the list length under the lock, with n bounded by HardLimit (tens of
// entries). Reference counts are atomic and may be released from any goroutine.
// The cache must outlive every scope it has issued.
package cache
