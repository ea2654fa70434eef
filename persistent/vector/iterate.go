package vector

import (
	"fmt"
	"iter"

	"github.com/xlab/treeprint"
)

// All iterates over index/element pairs of v in index order. Leafs are
// visited one at a time, thus iteration does not walk the trie for every
// element. The sequence may be ranged over any number of times.
func (v Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		var leafs []T
		for i := 0; i < v.count; i++ {
			if i&mask == 0 {
				leafs = v.leafsFor(i)
			}
			if !yield(i, leafs[i&mask]) {
				return
			}
		}
	}
}

// Values iterates over the elements of v in index order.
func (v Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, x := range v.All() {
			if !yield(x) {
				return
			}
		}
	}
}

// Backward iterates over index/element pairs of v from the last to the first.
func (v Vector[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		var leafs []T
		for i := v.count - 1; i >= 0; i-- {
			if leafs == nil || i&mask == mask {
				leafs = v.leafsFor(i)
			}
			if !yield(i, leafs[i&mask]) {
				return
			}
		}
	}
}

// Reduce folds the elements of v from left to right.
func Reduce[T, R any](v Vector[T], f func(R, int, T) R, zero R) R {
	r := zero
	for i, x := range v.All() {
		r = f(r, i, x)
	}
	return r
}

// --- Debugging -------------------------------------------------------------

// Dump renders the internal structure of v as a tree, for debugging.
func (v Vector[T]) Dump() string {
	header := fmt.Sprintf("Vector(length=%d, shift=%d)\n", v.count, v.shift)
	tail := fmt.Sprintf("       tail=%v\n", v.tail)
	printer := treeprint.New()
	dumpNode(printer, v.root, v.shift, 0)
	return header + tail + printer.String()
}

func dumpNode[T any](printer treeprint.Tree, node *vnode[T], level uint, offset int) {
	if node == nil {
		return
	}
	if node.isLeaf() {
		printer.AddNode(fmt.Sprintf("%d…%d %s", offset, offset+width-1, node))
		return
	}
	span := 1 << level // number of elements below each child
	branch := printer.AddBranch(fmt.Sprintf("%d…%d %s", offset, offset+width*span-1, node))
	for i, ch := range node.children {
		dumpNode(branch, ch, level-bits, offset+i*span)
	}
}
