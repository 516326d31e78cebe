package cache

import (
	"math/rand"
	"strconv"
	"sync/atomic"
	"testing"
)

type intAdapter struct{}

func (intAdapter) Create(k int) (int, int, error) { return k, k, nil }
func (intAdapter) Match(k, d int) bool            { return k == d }

// benchmarkRetrieveOldest fills a cache with n entries and repeatedly fetches
// the first one inserted. With n beyond MoveToFront the first hit promotes it,
// so later iterations measure the head lookup.
func benchmarkRetrieveOldest(b *testing.B, n int) {
	c := New[int, int, int](intAdapter{}, Options{SoftLimit: n + 1, HardLimit: n + 1})
	b.Cleanup(func() { _ = c.Close() })
	for i := 0; i < n; i++ {
		s, _ := c.GetEntry(i)
		_ = s.Close()
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s, _ := c.GetEntry(0)
		_ = s.Close()
	}
}

func BenchmarkCache_RetrieveOldest_10(b *testing.B)  { benchmarkRetrieveOldest(b, 10) }
func BenchmarkCache_RetrieveOldest_30(b *testing.B)  { benchmarkRetrieveOldest(b, 30) }
func BenchmarkCache_RetrieveOldest_100(b *testing.B) { benchmarkRetrieveOldest(b, 100) }

// benchmarkMix exercises a shared cache from parallel workers over a keyspace
// wider than the hard limit, so hits, compaction and overflow all occur.
func benchmarkMix(b *testing.B, keys int, opt Options) {
	c := New[int, int, int](intAdapter{}, opt)
	b.Cleanup(func() { _ = c.Close() })

	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	b.RunParallel(func(pb *testing.PB) {
		// Independent RNG stream for each worker.
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		for pb.Next() {
			s, _ := c.GetEntry(r.Intn(keys))
			_ = s.Close()
		}
	})
	b.ReportMetric(float64(c.Stats().Overflows)/float64(b.N), "overflow/op")
}

func BenchmarkCache_Mix_Keys32(b *testing.B) {
	benchmarkMix(b, 32, Options{SoftLimit: 40, HardLimit: 60})
}

func BenchmarkCache_Mix_Keys256(b *testing.B) {
	benchmarkMix(b, 256, Options{SoftLimit: 40, HardLimit: 60})
}

func BenchmarkSharded_Mix_Keys256(b *testing.B) {
	s := NewSharded[int, int, int](intAdapter{}, 0, nil, Options{SoftLimit: 40, HardLimit: 60})
	b.Cleanup(func() { _ = s.Close() })

	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		for pb.Next() {
			sc, _ := s.GetEntry(r.Intn(256))
			_ = sc.Close()
		}
	})
}

// The string variant includes key formatting costs, like callers that build
// keys on the fly.
func BenchmarkCache_StringKeys(b *testing.B) {
	c, _ := newStrCache(40, 60)
	b.Cleanup(func() { _ = c.Close() })

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s, _ := c.GetEntry("k:" + strconv.Itoa(i&31))
		_ = s.Close()
	}
}
