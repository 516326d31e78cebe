package cache

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// --- test doubles ---

// resource is a fake handle that records how many times it was closed.
type resource struct {
	key    string
	err    error
	closed atomic.Int32
}

func (r *resource) Close() error {
	r.closed.Add(1)
	return r.err
}

func (r *resource) isClosed() bool { return r.closed.Load() > 0 }

// strAdapter creates resources for string keys; keys match case-insensitively.
type strAdapter struct {
	mu       sync.Mutex
	created  []*resource
	fail     error
	closeErr error
}

func (a *strAdapter) Create(key string) (string, *resource, error) {
	if a.fail != nil {
		return "", nil, a.fail
	}
	r := &resource{key: key, err: a.closeErr}
	a.mu.Lock()
	a.created = append(a.created, r)
	a.mu.Unlock()
	return strings.ToLower(key), r, nil
}

func (a *strAdapter) Match(key, data string) bool { return strings.EqualFold(key, data) }

func (a *strAdapter) ValidKey(key string) error {
	if key == "" {
		return errors.New("empty key")
	}
	return nil
}

// live returns the number of created resources not yet closed.
func (a *strAdapter) live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, r := range a.created {
		if !r.isClosed() {
			n++
		}
	}
	return n
}

func (a *strAdapter) createdCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.created)
}

func newStrCache(soft, hard int) (*Cache[string, string, *resource], *strAdapter) {
	ad := &strAdapter{}
	return New[string, string, *resource](ad, Options{SoftLimit: soft, HardLimit: hard}), ad
}

// keys returns the list contents head to tail.
func (c *Cache[K, D, O]) keys() []D {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []D
	for e := c.ls.head; e != nil; e = e.next {
		out = append(out, e.data)
	}
	return out
}

func key(i int) string { return fmt.Sprintf("k%03d", i) }

func (c *Cache[K, D, O]) dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clean
}
