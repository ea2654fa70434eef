package hamt

import "iter"

// Iterator walks the entries of a map in trie order. The nil key, if present,
// comes first.
//
//	for it := m.Iterator(); it.HasElem(); it.Next() {
//	    k, v := it.Elem()
//	    …
//	}
//
// Iterators of persistent maps stay valid no matter what is derived from
// the map they have been created for.
type Iterator[K comparable, V any] struct {
	stack []frame[K, V]
	key   K
	val   V
	ok    bool
}

// frame is the position within one node of the path from the root down to
// the current entry.
type frame[K comparable, V any] struct {
	node  node[K, V]
	index int // next slot to visit
}

// Iterator returns an iterator positioned at the first entry of m.
func (m Map[K, V]) Iterator() *Iterator[K, V] {
	it := &Iterator[K, V]{}
	if m.root != nil {
		it.stack = append(it.stack, frame[K, V]{node: m.root})
	}
	if m.hasNil {
		it.val, it.ok = m.nilValue, true
		return it
	}
	it.Next()
	return it
}

// HasElem is true if the iterator is positioned at an entry.
func (it *Iterator[K, V]) HasElem() bool {
	return it.ok
}

// Elem returns the current entry.
func (it *Iterator[K, V]) Elem() (K, V) {
	return it.key, it.val
}

// Next moves the iterator to the next entry.
func (it *Iterator[K, V]) Next() {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		var e entry[K, V]
		switch n := top.node.(type) {
		case *bitmapNode[K, V]:
			if top.index >= len(n.entries) {
				it.stack = it.stack[:len(it.stack)-1]
				continue
			}
			e = n.entries[top.index]
		case *collisionNode[K, V]:
			if top.index >= len(n.entries) {
				it.stack = it.stack[:len(it.stack)-1]
				continue
			}
			e = n.entries[top.index]
		case *arrayNode[K, V]:
			if top.index >= len(n.children) {
				it.stack = it.stack[:len(it.stack)-1]
				continue
			}
			e.sub = n.children[top.index]
			if e.sub == nil {
				top.index++
				continue
			}
		default:
			assertThat(false, "unknown node type %T", top.node)
		}
		top.index++
		if e.sub != nil {
			it.stack = append(it.stack, frame[K, V]{node: e.sub})
			continue
		}
		it.key, it.val, it.ok = e.key, e.val, true
		return
	}
	var zeroK K
	var zeroV V
	it.key, it.val, it.ok = zeroK, zeroV, false
}

// All returns an iterator over the entries of m. The order of entries is
// unspecified, but stable for a given map.
func (m Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for it := m.Iterator(); it.HasElem(); it.Next() {
			if !yield(it.Elem()) {
				return
			}
		}
	}
}

// Keys returns an iterator over the keys of m.
func (m Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns an iterator over the values of m.
func (m Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Reduce folds the entries of m into an accumulated result, starting with
// zero.
func Reduce[K comparable, V, R any](m Map[K, V], f func(R, K, V) R, zero R) R {
	acc := zero
	for k, v := range m.All() {
		acc = f(acc, k, v)
	}
	return acc
}
