package critnib

import "sync/atomic"

// Insert writes key:value into the map. If key is already present and
// update is false, Insert leaves the existing entry untouched and returns
// ErrExists. If update is true, an existing entry's value is overwritten
// in place.
//
// Insert takes the map's single write lock but never stalls a concurrent
// reader: every publication of a new or changed node is a single atomic
// pointer store, so a reader either sees the tree before or after the
// change, never a half-built node.
func (m *Map[V]) Insert(key uint64, value V, update bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kn := m.pool.allocLeaf(key, value)

	root := m.root.Load()
	if root == nil {
		m.root.Store(kn)
		return nil
	}

	parent := &m.root
	prev := root
	n := root

	for n != nil && !n.isLeaf && (key&pathMask(n.shift)) == n.path.Load() {
		prev = n
		idx := sliceIndex(key, n.shift)
		parent = &n.child[idx]
		n = parent.Load()
	}

	if n == nil {
		idx := sliceIndex(key, prev.shift)
		prev.child[idx].Store(kn)

		return nil
	}

	var path uint64
	if n.isLeaf {
		path = n.key
	} else {
		path = n.path.Load()
	}

	at := path ^ key
	if at == 0 {
		// n is necessarily a leaf: a matching inner-node path would have
		// been followed by the descent loop above instead of stopping here.
		m.pool.freeLeafNode(kn)

		if update {
			v := value
			n.value.Store(&v)

			return nil
		}

		return ErrExists
	}

	sh := uint8(msbPosition(at) &^ shiftAlignMask)

	split := m.pool.allocInner(sh, key&pathMask(sh))
	split.child[sliceIndex(key, sh)].Store(kn)
	split.child[sliceIndex(path, sh)].Store(n)

	parent.Store(split)

	return nil
}

// Remove deletes key from the map, returning its value. If key is not
// present, Remove returns ErrNotFound and the zero value.
//
// Every call that observes a non-empty tree advances the remove-count
// envelope and rotates the retirement rings by one slot, whether or not
// the key turns out to be present — a stalled reader only needs to know
// how many removes have happened since it started, not whether any one
// of them succeeded.
func (m *Map[V]) Remove(key uint64) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V

	root := m.root.Load()
	if root == nil {
		return zero, ErrNotFound
	}

	del := (m.removeCount.Add(1) - 1) % deletedLife
	m.pool.rotate(del)

	if root.isLeaf {
		if root.key != key {
			return zero, ErrNotFound
		}

		m.root.Store(nil)

		v := *root.value.Load()
		m.pool.setPendingLeaf(del, root)

		return v, nil
	}

	var nParent, kParent *atomic.Pointer[node[V]]
	nParent = &m.root
	kParent = &m.root

	n := root
	kn := root

	for !kn.isLeaf {
		nParent = kParent
		n = kn
		idx := sliceIndex(key, n.shift)
		kParent = &n.child[idx]
		kn = kParent.Load()

		if kn == nil {
			return zero, ErrNotFound
		}
	}

	if kn.key != key {
		return zero, ErrNotFound
	}

	idx := sliceIndex(key, n.shift)
	n.child[idx].Store(nil)

	ochild := -1

	for i := range n.child {
		if n.child[i].Load() != nil {
			if ochild != -1 {
				// n still has at least two children: it stays in the tree,
				// only the leaf goes away.
				v := *kn.value.Load()
				m.pool.setPendingLeaf(del, kn)

				return v, nil
			}

			ochild = i
		}
	}

	// n now has exactly one child left: splice it into n's own slot and
	// retire n along with the removed leaf.
	nParent.Store(n.child[ochild].Load())
	m.pool.setPendingInner(del, n)

	v := *kn.value.Load()
	m.pool.setPendingLeaf(del, kn)

	return v, nil
}
