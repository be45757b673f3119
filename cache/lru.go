package cache

// lruNode is a node in a doubly-linked LRU list.
// The node stores a key for O(1) deletion from the parent map.
type lruNode struct {
	key  Key
	prev *lruNode
	next *lruNode
}

// lruList orders the keys of one shard by recency; the head is the most
// recently used. The list is not thread-safe.
type lruList struct {
	head *lruNode
	tail *lruNode
	len  int
}

func (l *lruList) Len() int { return l.len }

// PushFront adds key as the most recently used entry.
func (l *lruList) PushFront(key Key) *lruNode {
	node := &lruNode{key: key}
	l.insertFront(node)
	return node
}

// MoveToFront marks node as the most recently used entry.
func (l *lruList) MoveToFront(node *lruNode) {
	if node == l.head {
		return
	}
	l.unlink(node)
	l.insertFront(node)
}

// Remove removes node from the list.
func (l *lruList) Remove(node *lruNode) {
	l.unlink(node)
}

// RemoveOldest removes and returns the least recently used key.
func (l *lruList) RemoveOldest() (Key, bool) {
	if l.tail == nil {
		return Key{}, false
	}
	node := l.tail
	l.unlink(node)
	return node.key, true
}

func (l *lruList) insertFront(node *lruNode) {
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.len++
}

func (l *lruList) unlink(node *lruNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	l.len--
}
