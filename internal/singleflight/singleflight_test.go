package singleflight

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDo_CoalescesOverlappingCalls(t *testing.T) {
	t.Parallel()

	var g Group[uint32, int]
	var runs atomic.Int32
	release := make(chan struct{})
	entered := make(chan struct{})

	// Leader blocks inside fn until released.
	leader := make(chan int, 1)
	go func() {
		v, _, _ := g.Do(7, func() (int, error) {
			runs.Add(1)
			close(entered)
			<-release
			return 42, nil
		})
		leader <- v
	}()
	<-entered
	require.Equal(t, 1, g.InFlight())

	const followers = 8
	var wg sync.WaitGroup
	results := make([]int, followers)
	shared := make([]bool, followers)
	for i := 0; i < followers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _, shared[i] = g.Do(7, func() (int, error) {
				runs.Add(1)
				return -1, nil
			})
		}(i)
	}
	close(release)
	wg.Wait()
	require.Equal(t, 42, <-leader)

	// Late followers may lead a second round among themselves; every fn run
	// belongs to exactly one non-shared caller.
	own := 0
	for i := range results {
		if shared[i] {
			require.Contains(t, []int{42, -1}, results[i])
		} else {
			require.Equal(t, -1, results[i])
			own++
		}
	}
	require.Equal(t, int32(1+own), runs.Load())
	require.Equal(t, 0, g.InFlight())
}

func TestDo_ErrorIsShared(t *testing.T) {
	t.Parallel()

	var g Group[string, int]
	boom := errors.New("boom")
	_, err, shared := g.Do("k", func() (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)
	require.False(t, shared)

	// Key is forgotten after the call returns.
	v, err, _ := g.Do("k", func() (int, error) { return 1, nil })
	require.NoError(t, err)
	require.Equal(t, 1, v)
}
