package vector

import (
	"fmt"
	"strings"

	"github.com/npillmayer/pcoll/persistent/internal/arena"
)

const (
	bits  uint = arena.Bits // will produce nodes with degree  2 ^ 5 = 32
	width int  = arena.Width
	mask  int  = arena.Mask
)

// vnode is a node of the trie. Inner nodes hold children, leafs hold elements.
// Both slices have length 32 if present.
type vnode[T any] struct {
	edit     *arena.Token
	children []*vnode[T]
	leafs    []T
}

func newInner[T any](edit *arena.Token) *vnode[T] {
	return &vnode[T]{
		edit:     edit,
		children: make([]*vnode[T], width),
	}
}

// newLeaf wraps a full tail. The tail's array is not copied.
func newLeaf[T any](edit *arena.Token, tail []T) *vnode[T] {
	assertThat(len(tail) == width, "leaf must hold %d elements, has %d", width, len(tail))
	return &vnode[T]{edit: edit, leafs: tail}
}

func (node *vnode[T]) isLeaf() bool {
	return node.children == nil
}

func (node *vnode[T]) Edit() *arena.Token {
	return node.edit
}

func (node *vnode[T]) Clone(edit *arena.Token) *vnode[T] {
	n := &vnode[T]{edit: edit}
	if node.isLeaf() {
		n.leafs = arena.Copy(node.leafs, len(node.leafs))
	} else {
		n.children = arena.Copy(node.children, len(node.children))
	}
	return n
}

func (node *vnode[T]) String() string {
	b := strings.Builder{}
	b.WriteByte('[')
	if node.isLeaf() {
		for i, l := range node.leafs {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(fmt.Sprintf("%v", l))
		}
	} else {
		for i, c := range node.children {
			if i > 0 {
				b.WriteByte(',')
			}
			if c == nil {
				b.WriteByte('_')
			} else {
				b.WriteString("▪︎")
			}
		}
	}
	b.WriteByte(']')
	return b.String()
}

// tailOffset is the number of elements stored in the trie of a vector of
// length count. Everything from tailOffset on lives in the tail.
func tailOffset(count int) int {
	if count < width {
		return 0
	}
	return ((count - 1) >> bits) << bits
}

// leafFor finds the leaf holding element i of the trie.
func leafFor[T any](root *vnode[T], shift uint, i int) *vnode[T] {
	node := root
	for level := shift; level > 0; level -= bits {
		node = node.children[(i>>level)&mask]
	}
	assertThat(node.isLeaf(), "inconsistency: expected leaf at level 0")
	return node
}

// newPath creates a chain of inner nodes from level down to leaf.
func newPath[T any](edit *arena.Token, level uint, leaf *vnode[T]) *vnode[T] {
	if level == 0 {
		return leaf
	}
	node := newInner[T](edit)
	node.children[0] = newPath(edit, level-bits, leaf)
	return node
}

// --- Trie operations -------------------------------------------------------
//
// The following operations are shared between persistent vectors and transients.
// Nodes are passed through arena.EnsureEditable: with edit == nil every node on
// the path is cloned, with a live token owned nodes are changed in place.
//
// The trie of a vector is either empty (root == nil), a single leaf (shift == 0),
// or an inner root with at least two children.

// pushLeaf files a full leaf into the trie. count is the length of the vector
// before the push, including the full tail which leaf has been made of.
func pushLeaf[T any](edit *arena.Token, count int, shift uint, root, leaf *vnode[T]) (*vnode[T], uint) {
	if root == nil {
		tracer().Debugf("vector trie starts with a single leaf")
		return leaf, 0
	}
	if (count >> bits) > (1 << shift) { // trie is full ⇒ grow a new root
		newRoot := newInner[T](edit)
		newRoot.children[0] = root
		newRoot.children[1] = newPath(edit, shift, leaf)
		tracer().Debugf("vector root overflow at length %d, shift %d → %d", count, shift, shift+bits)
		return newRoot, shift + bits
	}
	return pushTail(edit, count, shift, root, leaf), shift
}

func pushTail[T any](edit *arena.Token, count int, level uint, parent, leaf *vnode[T]) *vnode[T] {
	node := arena.EnsureEditable(parent, edit)
	subidx := ((count - 1) >> level) & mask
	var ins *vnode[T]
	if level == bits {
		ins = leaf
	} else if child := node.children[subidx]; child != nil {
		ins = pushTail(edit, count, level-bits, child, leaf)
	} else {
		ins = newPath(edit, level-bits, leaf)
	}
	node.children[subidx] = ins
	return node
}

// popLeaf removes the rightmost leaf from the trie. count is the length of the
// vector before the pop; its tail holds exactly one element.
func popLeaf[T any](edit *arena.Token, count int, shift uint, root *vnode[T]) (*vnode[T], uint) {
	assertThat(root != nil, "attempt to pop a leaf from an empty trie")
	if shift == 0 {
		tracer().Debugf("vector trie becomes empty")
		return nil, 0
	}
	newRoot := popTail(edit, count, shift, root)
	assertThat(newRoot != nil, "inconsistency: inner root with a single child")
	if newRoot.children[1] == nil { // root has a single child left ⇒ lower the trie
		tracer().Debugf("vector trie shrinks at length %d, shift %d → %d", count-1, shift, shift-bits)
		return newRoot.children[0], shift - bits
	}
	return newRoot, shift
}

// popTail returns nil if the subtree becomes empty.
func popTail[T any](edit *arena.Token, count int, level uint, node *vnode[T]) *vnode[T] {
	subidx := ((count - 2) >> level) & mask
	if level > bits {
		child := popTail(edit, count, level-bits, node.children[subidx])
		if child == nil && subidx == 0 {
			return nil
		}
		n := arena.EnsureEditable(node, edit)
		n.children[subidx] = child
		return n
	}
	if subidx == 0 {
		return nil
	}
	n := arena.EnsureEditable(node, edit)
	n.children[subidx] = nil
	return n
}

// doAssoc replaces element i of the trie.
func doAssoc[T any](edit *arena.Token, level uint, node *vnode[T], i int, x T) *vnode[T] {
	n := arena.EnsureEditable(node, edit)
	if level == 0 {
		n.leafs[i&mask] = x
		return n
	}
	subidx := (i >> level) & mask
	n.children[subidx] = doAssoc(edit, level-bits, n.children[subidx], i, x)
	return n
}
