package util

import "runtime"

// maxShards bounds the default shard count. Every shard may hold up to its
// HardLimit of live handles, so total residency grows linearly with shards.
const maxShards = 64

// ReasonableShardCount picks a default shard count from CPU parallelism:
// nextPow2(2*GOMAXPROCS), clamped to [1..maxShards].
func ReasonableShardCount() int {
	p := runtime.GOMAXPROCS(0)
	if p < 1 {
		p = 1
	}
	n := int(NextPow2(uint64(p * 2)))
	if n > maxShards {
		n = maxShards
	}
	return n
}

// ShardIndex maps a 64-bit hash to a shard index.
// Power-of-two shard counts use a mask; others fall back to modulo.
func ShardIndex(hash uint64, shards int) int {
	if shards <= 1 {
		return 0
	}
	if IsPowerOfTwo(uint64(shards)) {
		return int(hash & uint64(shards-1))
	}
	return int(hash % uint64(shards))
}
