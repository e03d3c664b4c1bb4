package cache

// node is an element of the recency list. It carries its key so eviction
// can delete the map entry.
type node[K comparable, V any] struct {
	key        K
	value      V
	prev, next *node[K, V]
}

// list is a doubly linked recency list. front is the most recently used.
// Not safe for concurrent use.
type list[K comparable, V any] struct {
	front, back *node[K, V]
	n           int
}

func (l *list[K, V]) pushFront(n *node[K, V]) {
	n.prev, n.next = nil, l.front
	if l.front != nil {
		l.front.prev = n
	}
	l.front = n
	if l.back == nil {
		l.back = n
	}
	l.n++
}

func (l *list[K, V]) remove(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.front = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.back = n.prev
	}
	n.prev, n.next = nil, nil
	l.n--
}

func (l *list[K, V]) moveToFront(n *node[K, V]) {
	if n == l.front {
		return
	}
	l.remove(n)
	l.pushFront(n)
}
