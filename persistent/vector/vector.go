package vector

import (
	"fmt"
	"strings"

	"github.com/npillmayer/pcoll/maybe"
	"github.com/npillmayer/pcoll/persistent"
	"github.com/npillmayer/pcoll/persistent/internal/arena"
	"github.com/pkg/errors"
)

// Vector is an immutable persistent vector of elements of type T.
// The zero value is an empty vector, ready to use.
type Vector[T any] struct {
	count int
	shift uint      // we do not store the height h of the trie, but rather 5*(h-1)
	root  *vnode[T] // nil if count ≤ 32
	tail  []T       // len(tail) == count - tailOffset(count)
}

// Empty returns an empty vector.
func Empty[T any]() Vector[T] {
	return Vector[T]{}
}

// From creates a vector holding xs, in order.
func From[T any](xs ...T) Vector[T] {
	t := Empty[T]().AsTransient()
	for _, x := range xs {
		t.push(x)
	}
	return t.seal()
}

// --- API -------------------------------------------------------------------

// Len returns the number of elements of v.
func (v Vector[T]) Len() int {
	return v.count
}

// Get returns the element at index i. If i is not in [0, Len()), an error
// wrapping persistent.ErrIndexOutOfBounds is returned.
func (v Vector[T]) Get(i int) (T, error) {
	if i < 0 || i >= v.count {
		var zero T
		return zero, outOfBounds(i, v.count)
	}
	return v.leafsFor(i)[i&mask], nil
}

// GetOr returns the element at index i, or def if i is out of range.
func (v Vector[T]) GetOr(i int, def T) T {
	if i < 0 || i >= v.count {
		return def
	}
	return v.leafsFor(i)[i&mask]
}

// Last returns the last element of v, if any.
func (v Vector[T]) Last() maybe.Maybe[T] {
	if v.count == 0 {
		return maybe.Nothing[T]()
	}
	return maybe.Just(v.tail[len(v.tail)-1])
}

// Push returns a copy of v with value appended.
func (v Vector[T]) Push(value T) Vector[T] {
	if v.count-tailOffset(v.count) < width { // just append value to tail
		newTail := arena.Copy(v.tail, len(v.tail)+1)
		newTail[len(v.tail)] = value
		return Vector[T]{count: v.count + 1, shift: v.shift, root: v.root, tail: newTail}
	}
	// tail is full ⇒ have to move tail into trie
	leaf := newLeaf[T](nil, v.tail)
	root, shift := pushLeaf(nil, v.count, v.shift, v.root, leaf)
	return Vector[T]{count: v.count + 1, shift: shift, root: root, tail: []T{value}}
}

// Pop returns a copy of v without its last element. Popping from an empty
// vector returns an error wrapping persistent.ErrEmptyVector.
func (v Vector[T]) Pop() (Vector[T], error) {
	if v.count == 0 {
		return v, errors.Wrap(persistent.ErrEmptyVector, "vector pop")
	}
	if v.count == 1 {
		return Vector[T]{}, nil
	}
	if v.count-tailOffset(v.count) > 1 {
		newTail := arena.Copy(v.tail, len(v.tail)-1)
		return Vector[T]{count: v.count - 1, shift: v.shift, root: v.root, tail: newTail}, nil
	}
	// tail vanishes ⇒ last leaf of the trie becomes the new tail
	newTail := leafFor(v.root, v.shift, v.count-2).leafs
	root, shift := popLeaf[T](nil, v.count, v.shift, v.root)
	return Vector[T]{count: v.count - 1, shift: shift, root: root, tail: newTail}, nil
}

// Set returns a copy of v with the element at index i replaced by value.
// i may be in [0, Len()]; Set(Len(), value) appends value.
// Other indices return an error wrapping persistent.ErrIndexOutOfBounds.
func (v Vector[T]) Set(i int, value T) (Vector[T], error) {
	if i == v.count {
		return v.Push(value), nil
	}
	if i < 0 || i > v.count {
		return v, outOfBounds(i, v.count)
	}
	if i >= tailOffset(v.count) {
		newTail := arena.Set(v.tail, i&mask, value)
		return Vector[T]{count: v.count, shift: v.shift, root: v.root, tail: newTail}, nil
	}
	root := doAssoc(nil, v.shift, v.root, i, value)
	return Vector[T]{count: v.count, shift: v.shift, root: root, tail: v.tail}, nil
}

// Slice returns the elements of v as a freshly allocated Go slice.
func (v Vector[T]) Slice() []T {
	s := make([]T, 0, v.count)
	for _, x := range v.All() {
		s = append(s, x)
	}
	return s
}

func (v Vector[T]) String() string {
	b := strings.Builder{}
	b.WriteByte('[')
	for i, x := range v.All() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(fmt.Sprintf("%v", x))
	}
	b.WriteByte(']')
	return b.String()
}

// --- Helpers ---------------------------------------------------------------

func (v Vector[T]) leafsFor(i int) []T {
	if i >= tailOffset(v.count) {
		return v.tail
	}
	return leafFor(v.root, v.shift, i).leafs
}

func outOfBounds(i, count int) error {
	return errors.Wrapf(persistent.ErrIndexOutOfBounds, "vector index %d with length %d", i, count)
}
