package critnib

import "sync/atomic"

// deletedLife bounds how many remove() grace periods a retired node must
// survive before its memory is handed back to the pool. A stalled reader
// is only ever guaranteed correctness across fewer than deletedLife
// concurrent removes; past that it notices staleness and restarts.
const deletedLife = 16

// node is the unified representation of both inner (radix) nodes and
// leaves. Using one struct instead of a tagged pointer lets the isLeaf
// discriminator and the payload it describes travel together inside a
// single atomic.Pointer swap, so a reader never observes a half-published
// node.
type node[V any] struct {
	isLeaf bool

	// Inner-node fields. child slots are published with atomic stores and
	// read with atomic loads by concurrent, lock-free readers.
	child [slotCount]atomic.Pointer[node[V]]
	path  atomic.Uint64
	shift uint8

	// Leaf fields. key never changes after publication; value may be
	// overwritten in place by Insert(..., update=true).
	key   uint64
	value atomic.Pointer[V]

	// next chains a node onto a free list or into this package's pool
	// bookkeeping. Only ever touched while the writer mutex is held, so it
	// needs no atomics of its own.
	next *node[V]
}

func newLeaf[V any](key uint64, value V) *node[V] {
	n := &node[V]{isLeaf: true, key: key}
	n.value.Store(&value)

	return n
}

func newInner[V any](shift uint8, path uint64) *node[V] {
	n := &node[V]{isLeaf: false, shift: shift}
	n.path.Store(path)

	return n
}

// nodePool is the deferred-reclamation allocator described for this tree:
// two free lists (one per node kind) plus two deletedLife-slot retirement
// rings. A node removed from the live tree sits in a ring slot for a full
// rotation of the ring before it becomes eligible for reuse, which bounds
// its lifetime to at least deletedLife concurrent removes — long enough
// that any reader stalled inside it will have noticed staleness via the
// remove count and restarted before the slot is recycled.
//
// Every method here runs under the writer's mutex; none of it needs to be
// safe for concurrent callers.
type nodePool[V any] struct {
	freeInner *node[V]
	freeLeaf  *node[V]

	pendingInner [deletedLife]*node[V]
	pendingLeaf  [deletedLife]*node[V]
}

func (p *nodePool[V]) allocInner(shift uint8, path uint64) *node[V] {
	if p.freeInner == nil {
		return newInner[V](shift, path)
	}

	n := p.freeInner
	p.freeInner = n.next
	n.next = nil
	n.shift = shift
	n.path.Store(path)

	for i := range n.child {
		n.child[i].Store(nil)
	}

	return n
}

func (p *nodePool[V]) allocLeaf(key uint64, value V) *node[V] {
	if p.freeLeaf == nil {
		return newLeaf[V](key, value)
	}

	k := p.freeLeaf
	p.freeLeaf = k.next
	k.next = nil
	k.key = key
	k.value.Store(&value)

	return k
}

func (p *nodePool[V]) freeInnerNode(n *node[V]) {
	if n == nil {
		return
	}

	n.next = p.freeInner
	p.freeInner = n
}

func (p *nodePool[V]) freeLeafNode(k *node[V]) {
	if k == nil {
		return
	}

	k.next = p.freeLeaf
	p.freeLeaf = k
}

// rotate frees whatever has been sitting in ring slot del since the last
// time the ring wrapped around to it, and clears the slot. Called once by
// every Remove that finds a non-empty tree, before the slot is given a new
// occupant (if any) by setPendingInner/setPendingLeaf.
func (p *nodePool[V]) rotate(del uint64) {
	p.freeInnerNode(p.pendingInner[del])
	p.freeLeafNode(p.pendingLeaf[del])
	p.pendingInner[del] = nil
	p.pendingLeaf[del] = nil
}

func (p *nodePool[V]) setPendingInner(del uint64, n *node[V]) {
	p.pendingInner[del] = n
}

func (p *nodePool[V]) setPendingLeaf(del uint64, k *node[V]) {
	p.pendingLeaf[del] = k
}
