package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type color uint32

type label string

// Named types hash like their underlying kind, so equal values always
// route to the same shard.
func TestFnv64a_NamedKinds(t *testing.T) {
	t.Parallel()

	require.Equal(t, Fnv64a[uint32](0xff00ff00), Fnv64a[color](0xff00ff00))
	require.Equal(t, Fnv64a[string]("arial"), Fnv64a[label]("arial"))
	require.NotEqual(t, Fnv64a[color](1), Fnv64a[color](2))
}

func TestFnv64a_UnsupportedPanics(t *testing.T) {
	t.Parallel()

	type pair struct{ a, b int }
	require.Panics(t, func() { Fnv64a(pair{1, 2}) })
}

func TestNextPow2(t *testing.T) {
	t.Parallel()

	for in, want := range map[uint64]uint64{0: 1, 1: 1, 2: 2, 3: 4, 17: 32, 64: 64} {
		require.Equal(t, want, NextPow2(in), "NextPow2(%d)", in)
	}
	require.Equal(t, uint64(1)<<63, NextPow2(1<<63+1))
}

func TestShardIndex_InRange(t *testing.T) {
	t.Parallel()

	for _, shards := range []int{1, 4, 6, 64} {
		for h := uint64(0); h < 1000; h += 7 {
			idx := ShardIndex(h, shards)
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, shards)
		}
	}
	require.LessOrEqual(t, ReasonableShardCount(), maxShards)
	require.True(t, IsPowerOfTwo(uint64(ReasonableShardCount())))
}
