package cache

import (
	"errors"

	"github.com/IvanBrykalov/handlecache/internal/util"
)

// Sharded spreads keys over independent caches to reduce lock contention
// when one cache is shared by many goroutines. Limits in Options apply to
// each shard. Keys that Match must hash to the same value.
type Sharded[K comparable, D, O any] struct {
	shards []*Cache[K, D, O]
	hash   func(K) uint64
}

// NewSharded builds a sharded cache.
// Defaults:
//   - shards <= 0 -> util.ReasonableShardCount(); always rounded up to a power of two
//   - nil hash    -> FNV-1a (util.Fnv64a)
func NewSharded[K comparable, D, O any](ad Adapter[K, D, O], shards int, hash func(K) uint64, opt Options) *Sharded[K, D, O] {
	if shards <= 0 {
		shards = util.ReasonableShardCount()
	}
	shards = int(util.NextPow2(uint64(shards)))
	if hash == nil {
		hash = util.Fnv64a[K]
	}

	cs := make([]*Cache[K, D, O], shards)
	for i := range cs {
		cs[i] = New(ad, opt)
	}
	return &Sharded[K, D, O]{shards: cs, hash: hash}
}

// GetEntry routes key to its shard.
func (s *Sharded[K, D, O]) GetEntry(key K) (Scope[D, O], error) {
	return s.shard(key).GetEntry(key)
}

// Len returns the total number of resident entries across all shards.
func (s *Sharded[K, D, O]) Len() int {
	total := 0
	for _, c := range s.shards {
		total += c.Len()
	}
	return total
}

// Stats sums the counters of all shards.
func (s *Sharded[K, D, O]) Stats() Stats {
	var st Stats
	for _, c := range s.shards {
		st = st.add(c.Stats())
	}
	return st
}

// Close closes every shard and joins their errors.
func (s *Sharded[K, D, O]) Close() error {
	var errs []error
	for _, c := range s.shards {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Shards returns the number of shards.
func (s *Sharded[K, D, O]) Shards() int { return len(s.shards) }

func (s *Sharded[K, D, O]) shard(key K) *Cache[K, D, O] {
	return s.shards[util.ShardIndex(s.hash(key), len(s.shards))]
}
