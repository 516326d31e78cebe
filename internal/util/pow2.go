package util

import "math/bits"

// IsPowerOfTwo reports whether x is a power of two (> 0).
func IsPowerOfTwo(x uint64) bool {
	return x != 0 && x&(x-1) == 0
}

// NextPow2 returns the smallest power of two >= x, used to round shard counts
// so ShardIndex can mask instead of divide.
//   - x <= 1 -> 1
//   - results past 1<<63 are clamped to 1<<63
func NextPow2(x uint64) uint64 {
	if x <= 1 {
		return 1
	}
	n := bits.Len64(x - 1)
	if n >= 64 {
		return 1 << 63
	}
	return 1 << n
}
