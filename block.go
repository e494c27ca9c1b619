package arena

// block is one backing buffer obtained from the backend, plus the
// bookkeeping of how much of it has been handed out. Blocks are linked
// into a blockCache kept sorted by descending avail.
//
//	+----------------+---------------------------+-------------------+
//	|  overhead(32)  |     handed out (used)     |   free (avail)    |
//	+----------------+---------------------------+-------------------+
//	|<------------------------- len(buf) --------------------------->|
type block struct {
	buf   []byte
	used  int
	avail int

	prev, next *block
}

// inOrder reports whether b still satisfies the cache ordering
// invariant with respect to its neighbors: avail no greater than
// prev's, no less than next's.
func (b *block) inOrder() bool {
	if b.prev != nil && b.prev.avail < b.avail {
		return false
	}
	if b.next != nil && b.next.avail > b.avail {
		return false
	}
	return true
}

// bump hands out size bytes at the block's free offset. The caller
// guarantees the block was chosen with enough room.
func (b *block) bump(size int) []byte {
	if b.avail < size {
		panic("arena: bump allocation exceeds block avail")
	}
	buf := b.buf[b.used : b.used+size : b.used+size]
	b.used += size
	b.avail -= size
	return buf
}

// blockCache is an ordered collection of blocks, sorted by descending
// avail. The sort order lets find stop scanning at the first block too
// small to serve a request, and makes the last qualifying block the
// smallest one that still fits.
type blockCache struct {
	head *block
	tail *block

	// root is the first block ever inserted. It is retained for
	// reference and released only when the whole arena is released.
	root *block

	count int

	// Running sums over the linked blocks, maintained incrementally
	// at insert/remove/alloc time, never by rescanning the list.
	totalUsed  int
	totalAvail int
}

// find returns the smallest block with at least size bytes available,
// or nil when no held block qualifies. Because the list is sorted
// descending, the answer is the last block seen before the first one
// that is too small.
func (c *blockCache) find(size int) *block {
	var found *block
	for b := c.head; b != nil; b = b.next {
		if b.avail < size {
			break
		}
		found = b
	}
	return found
}

// insert links b into the list, keeping it sorted by descending avail.
// Ties keep their prior relative order: b goes before the first node
// with strictly smaller avail. The block's used/avail join the running
// totals here.
func (c *blockCache) insert(b *block) {
	if c.head == nil {
		if c.count != 0 || c.tail != nil {
			panic("arena: corrupt empty block cache")
		}
		b.prev, b.next = nil, nil
		c.head, c.tail = b, b
		if c.root == nil {
			c.root = b
		}
		c.count = 1
		c.totalUsed = b.used
		c.totalAvail = b.avail
		return
	}

	inserted := false
	for node := c.head; node != nil; node = node.next {
		if b.avail > node.avail {
			b.prev = node.prev
			b.next = node
			if node.prev == nil {
				c.head = b
			} else {
				node.prev.next = b
			}
			node.prev = b
			inserted = true
			break
		}
	}
	if !inserted {
		// smaller than everything held, append at the tail
		b.prev = c.tail
		b.next = nil
		c.tail.next = b
		c.tail = b
	}

	c.count++
	c.totalUsed += b.used
	c.totalAvail += b.avail
}

// remove unlinks b, repairing head/tail when b was an endpoint, and
// gives back its contribution to the running totals. Removing a block
// that is not linked breaks the cache; callers own that contract.
func (c *blockCache) remove(b *block) {
	if b.prev != nil {
		b.prev.next = b.next
	} else {
		if c.head != b {
			panic("arena: removing unlinked block")
		}
		c.head = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	} else {
		if c.tail != b {
			panic("arena: removing unlinked block")
		}
		c.tail = b.prev
	}
	b.prev, b.next = nil, nil

	c.count--
	c.totalUsed -= b.used
	c.totalAvail -= b.avail
}

// allocFrom bumps size bytes out of b and keeps the totals in step.
// Shrinking avail can break the descending order, so the block is
// moved (remove and reinsert) when its neighbors no longer agree.
// From the cache's point of view that pair is one atomic step.
func (c *blockCache) allocFrom(b *block, size int) []byte {
	buf := b.bump(size)
	c.totalUsed += size
	c.totalAvail -= size

	if !b.inOrder() {
		c.remove(b)
		c.insert(b)
	}
	return buf
}
