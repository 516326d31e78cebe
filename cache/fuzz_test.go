package cache

import (
	"testing"
)

// Fuzz random acquire/release sequences against a small cache.
// Guards against panics and checks the core invariants after every step:
// the hard limit holds, held scopes never see a disposed object, and once
// everything is released only resident objects remain alive.
func FuzzCache_AcquireRelease(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0, 4, 8, 12, 16, 20, 1, 1, 1})
	f.Add([]byte{3, 7, 11, 15, 19, 23, 27, 31})
	f.Add([]byte{0, 0, 0, 0, 2, 2, 2, 2, 0, 4, 8})

	f.Fuzz(func(t *testing.T, ops []byte) {
		// Cap length to keep each run fast.
		const limit = 1 << 10
		if len(ops) > limit {
			ops = ops[:limit]
		}

		const soft, hard = 2, 4
		c, ad := newStrCache(soft, hard)
		t.Cleanup(func() { _ = c.Close() })

		var held []*strScope
		for _, op := range ops {
			k := key(int(op>>2) % 10)
			switch op % 4 {
			case 0: // acquire and hold
				s, err := c.GetEntry(k)
				if err != nil {
					t.Fatalf("GetEntry(%q): %v", k, err)
				}
				held = append(held, &s)
			case 1: // release oldest
				if len(held) > 0 {
					_ = held[0].Close()
					held = held[1:]
				}
			case 2: // release newest
				if n := len(held); n > 0 {
					_ = held[n-1].Close()
					held = held[:n-1]
				}
			case 3: // acquire and release
				s, err := c.GetEntry(k)
				if err != nil {
					t.Fatalf("GetEntry(%q): %v", k, err)
				}
				if s.Object().isClosed() {
					t.Fatalf("fresh scope exposes a disposed object")
				}
				_ = s.Close()
			}

			if n := c.Len(); n > hard {
				t.Fatalf("len %d over hard limit %d", n, hard)
			}
			for _, s := range held {
				if s.Object() == nil || s.Object().isClosed() {
					t.Fatalf("held scope exposes a disposed object")
				}
			}
		}

		for _, s := range held {
			_ = s.Close()
		}
		if live, n := ad.live(), c.Len(); live != n {
			t.Fatalf("live objects %d, resident entries %d", live, n)
		}
	})
}
