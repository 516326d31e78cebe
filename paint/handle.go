package paint

import (
	"errors"
	"fmt"
	"sync"
)

// Handle identifies a native-like resource in a HandleTable. Zero is never issued.
type Handle uintptr

// Kind is the resource class a handle was allocated for.
type Kind uint8

const (
	KindPen Kind = iota + 1
	KindBrush
	KindFont
)

func (k Kind) String() string {
	switch k {
	case KindPen:
		return "pen"
	case KindBrush:
		return "brush"
	case KindFont:
		return "font"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

var (
	// ErrHandleQuota is returned when the table has no free handles.
	ErrHandleQuota = errors.New("paint: handle quota exceeded")
	// ErrInvalidHandle is returned when freeing a handle the table does not own.
	ErrInvalidHandle = errors.New("paint: invalid handle")
	// ErrTableClosed is returned by Alloc after Close.
	ErrTableClosed = errors.New("paint: handle table closed")
)

// Allocator issues and releases handles.
type Allocator interface {
	Alloc(kind Kind) (Handle, error)
	Free(h Handle) error
}

// HandleTable is an in-process stand-in for a native handle table: handles
// are scarce (optional quota) and must be freed exactly once.
// It is safe for concurrent use.
type HandleTable struct {
	mu     sync.Mutex
	next   Handle
	live   map[Handle]Kind
	quota  int
	closed bool
}

// NewHandleTable returns a table limited to quota live handles (0 = unlimited).
func NewHandleTable(quota int) *HandleTable {
	return &HandleTable{live: make(map[Handle]Kind), quota: quota}
}

// Alloc issues a new handle of the given kind.
func (t *HandleTable) Alloc(kind Kind) (Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, ErrTableClosed
	}
	if t.quota > 0 && len(t.live) >= t.quota {
		return 0, fmt.Errorf("%w: %d live, allocating %s", ErrHandleQuota, len(t.live), kind)
	}
	t.next++
	t.live[t.next] = kind
	return t.next, nil
}

// Free releases h. Freeing an unknown or already freed handle fails.
func (t *HandleTable) Free(h Handle) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.live[h]; !ok {
		return fmt.Errorf("%w: %#x", ErrInvalidHandle, uintptr(h))
	}
	delete(t.live, h)
	return nil
}

// Live returns the number of handles not yet freed.
func (t *HandleTable) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// LiveKind returns the number of live handles of one kind.
func (t *HandleTable) LiveKind(kind Kind) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, k := range t.live {
		if k == kind {
			n++
		}
	}
	return n
}

// Close stops further allocation. Live handles can still be freed.
func (t *HandleTable) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

var _ Allocator = (*HandleTable)(nil)
