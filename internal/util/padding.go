package util

import (
	"sync/atomic"
	"unsafe"
)

// CacheLineSize is a reasonable default for most modern CPUs.
// 64 works well in practice.
const CacheLineSize = 64

// CacheLinePad separates the lock-guarded fields of a cache from its hot
// counters so counter updates from other goroutines do not invalidate the
// line holding the list head.
type CacheLinePad struct{ _ [CacheLineSize]byte }

// PaddedAtomicUint64 is an atomic uint64 padded to exactly one cache line.
// Use when many goroutines bump different counters of the same struct.
type PaddedAtomicUint64 struct {
	atomic.Uint64
	_ [CacheLineSize - 8]byte
}

// Compile-time size check (must be exactly one cache line).
var _ [CacheLineSize - int(unsafe.Sizeof(PaddedAtomicUint64{}))]byte
