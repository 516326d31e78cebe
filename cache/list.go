package cache

// list is the intrusive doubly linked list of cached entries
// (head = most recently inserted or promoted, tail = oldest).
// All methods require the owning cache's lock.
type list[D, O any] struct {
	head *Entry[D, O]
	tail *Entry[D, O]
	len  int
}

// pushFront inserts e at the head in O(1).
func (l *list[D, O]) pushFront(e *Entry[D, O]) {
	e.prev = nil
	e.next = l.head
	if l.head != nil {
		l.head.prev = e
	}
	l.head = e
	if l.tail == nil {
		l.tail = e
	}
	l.len++
}

// moveToFront relocates e to the head in O(1).
func (l *list[D, O]) moveToFront(e *Entry[D, O]) {
	if e == l.head {
		return
	}
	// detach
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	if l.tail == e {
		l.tail = e.prev
	}
	// insert at head
	e.prev = nil
	e.next = l.head
	if l.head != nil {
		l.head.prev = e
	}
	l.head = e
	if l.tail == nil {
		l.tail = e
	}
}

// remove unlinks e in O(1).
func (l *list[D, O]) remove(e *Entry[D, O]) {
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	if l.head == e {
		l.head = e.next
	}
	if l.tail == e {
		l.tail = e.prev
	}
	e.prev, e.next = nil, nil
	l.len--
}
