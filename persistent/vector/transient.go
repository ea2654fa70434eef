package vector

import (
	"github.com/npillmayer/pcoll/persistent"
	"github.com/npillmayer/pcoll/persistent/internal/arena"
	"github.com/pkg/errors"
)

// Transient is a mutable working copy of a vector, intended for building or
// changing a vector in a burst of operations. Nodes created or copied by a
// transient are owned by it and edited in place; nodes shared with persistent
// vectors are copied before the first change.
//
// A transient is turned back into an immutable vector by Persistent(). From
// then on every operation on the transient fails with persistent.ErrTransientSealed.
//
// Transients must not be shared between goroutines. Overlapping calls are
// detected and rejected with persistent.ErrConcurrentEdit.
type Transient[T any] struct {
	edit  *arena.Token
	count int
	shift uint
	root  *vnode[T]
	tail  []T // always of length 32
}

// AsTransient creates a transient copy of v. v itself remains unchanged and
// valid.
func (v Vector[T]) AsTransient() *Transient[T] {
	return &Transient[T]{
		edit:  arena.NewToken(),
		count: v.count,
		shift: v.shift,
		root:  v.root,
		tail:  arena.Copy(v.tail, width),
	}
}

// Len returns the current number of elements.
func (t *Transient[T]) Len() (int, error) {
	if err := t.edit.Enter(); err != nil {
		return 0, err
	}
	defer t.edit.Leave()
	return t.count, nil
}

// Get returns the element at index i.
func (t *Transient[T]) Get(i int) (T, error) {
	var zero T
	if err := t.edit.Enter(); err != nil {
		return zero, err
	}
	defer t.edit.Leave()
	if i < 0 || i >= t.count {
		return zero, outOfBounds(i, t.count)
	}
	if i >= tailOffset(t.count) {
		return t.tail[i&mask], nil
	}
	return leafFor(t.root, t.shift, i).leafs[i&mask], nil
}

// Push appends value.
func (t *Transient[T]) Push(value T) error {
	if err := t.edit.Enter(); err != nil {
		return err
	}
	defer t.edit.Leave()
	t.push(value)
	return nil
}

// Pop removes the last element.
func (t *Transient[T]) Pop() error {
	if err := t.edit.Enter(); err != nil {
		return err
	}
	defer t.edit.Leave()
	return t.pop()
}

// Set replaces the element at index i with value. Set(Len(), value) appends.
func (t *Transient[T]) Set(i int, value T) error {
	if err := t.edit.Enter(); err != nil {
		return err
	}
	defer t.edit.Leave()
	if i == t.count {
		t.push(value)
		return nil
	}
	if i < 0 || i > t.count {
		return outOfBounds(i, t.count)
	}
	if i >= tailOffset(t.count) {
		t.tail[i&mask] = value
		return nil
	}
	t.root = doAssoc(t.edit, t.shift, t.root, i, value)
	return nil
}

// Persistent seals the transient and returns an immutable vector holding its
// contents. The transient must not be used any more.
func (t *Transient[T]) Persistent() (Vector[T], error) {
	if err := t.edit.Enter(); err != nil {
		return Vector[T]{}, err
	}
	defer t.edit.Leave()
	return t.seal(), nil
}

// --- Internals -------------------------------------------------------------

func (t *Transient[T]) push(value T) {
	if t.count-tailOffset(t.count) < width { // room in tail
		t.tail[t.count&mask] = value
		t.count++
		return
	}
	leaf := newLeaf(t.edit, t.tail)
	t.tail = make([]T, width)
	t.tail[0] = value
	t.root, t.shift = pushLeaf(t.edit, t.count, t.shift, t.root, leaf)
	t.count++
}

func (t *Transient[T]) pop() error {
	var zero T
	if t.count == 0 {
		return errors.Wrap(persistent.ErrEmptyVector, "transient vector pop")
	}
	if t.count == 1 {
		t.tail[0] = zero
		t.count = 0
		return nil
	}
	if i := t.count - 1; i&mask > 0 { // tail holds more than one element
		t.tail[i&mask] = zero
		t.count--
		return nil
	}
	leaf := leafFor(t.root, t.shift, t.count-2)
	newTail := leaf.leafs
	if !t.edit.Owns(leaf.edit) {
		newTail = arena.Copy(leaf.leafs, width)
	}
	t.root, t.shift = popLeaf(t.edit, t.count, t.shift, t.root)
	t.tail = newTail
	t.count--
	return nil
}

func (t *Transient[T]) seal() Vector[T] {
	t.edit.Seal()
	v := Vector[T]{
		count: t.count,
		shift: t.shift,
		root:  t.root,
		tail:  arena.Copy(t.tail, t.count-tailOffset(t.count)),
	}
	t.root, t.tail = nil, nil
	return v
}
