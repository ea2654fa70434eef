package hamt

import (
	"github.com/npillmayer/pcoll/persistent/internal/arena"
	"github.com/npillmayer/schuko/tracing"
)

// Transient is a mutable working copy of a map, intended for building or
// changing a map in a burst of operations. Nodes created or copied by a
// transient are owned by it and edited in place; nodes shared with persistent
// maps are copied before the first change.
//
// A transient is turned back into an immutable map by Persistent(). From then
// on every operation on the transient fails with persistent.ErrTransientSealed.
// Overlapping calls from different goroutines fail with
// persistent.ErrConcurrentEdit.
type Transient[K comparable, V any] struct {
	edit     *arena.Token
	count    int
	root     node[K, V]
	hasNil   bool
	nilValue V
	cfg      *config[K]
}

// AsTransient creates a transient copy of m. m itself remains unchanged and
// valid.
func (m Map[K, V]) AsTransient() *Transient[K, V] {
	return &Transient[K, V]{
		edit:     arena.NewToken(),
		count:    m.count,
		root:     m.root,
		hasNil:   m.hasNil,
		nilValue: m.nilValue,
		cfg:      m.config(),
	}
}

// Len returns the current number of entries.
func (t *Transient[K, V]) Len() (int, error) {
	if err := t.edit.Enter(); err != nil {
		return 0, err
	}
	defer t.edit.Leave()
	return t.count, nil
}

// Get returns the value for key and whether key is present.
func (t *Transient[K, V]) Get(key K) (V, bool, error) {
	var zero V
	if err := t.edit.Enter(); err != nil {
		return zero, false, err
	}
	defer t.edit.Leave()
	if isNil(key) {
		return t.nilValue, t.hasNil, nil
	}
	if t.root == nil {
		return zero, false, nil
	}
	v, ok := t.root.find(0, t.cfg.hash(key), key)
	return v, ok, nil
}

// Assoc maps key to val.
func (t *Transient[K, V]) Assoc(key K, val V) error {
	if err := t.edit.Enter(); err != nil {
		return err
	}
	defer t.edit.Leave()
	t.assoc(key, val)
	return nil
}

// Dissoc removes key. Removing a key which is not present is not an error.
func (t *Transient[K, V]) Dissoc(key K) error {
	if err := t.edit.Enter(); err != nil {
		return err
	}
	defer t.edit.Leave()
	t.dissoc(key)
	return nil
}

// Persistent seals t and returns an immutable map sharing t's nodes.
func (t *Transient[K, V]) Persistent() (Map[K, V], error) {
	if err := t.edit.Enter(); err != nil {
		return Map[K, V]{}, err
	}
	defer t.edit.Leave()
	return t.seal(), nil
}

// --- Internals -------------------------------------------------------------

func (t *Transient[K, V]) assoc(key K, val V) {
	if isNil(key) {
		if !t.hasNil {
			t.hasNil = true
			t.count++
		}
		t.nilValue = val
		return
	}
	root := t.root
	if root == nil {
		root = emptyBitmapNode[K, V](t.edit)
	}
	var added bool
	t.root = root.assoc(t.edit, t.cfg, 0, t.cfg.hash(key), key, val, &added)
	if added {
		t.count++
	}
}

func (t *Transient[K, V]) dissoc(key K) {
	if isNil(key) {
		if t.hasNil {
			var zero V
			t.hasNil = false
			t.nilValue = zero
			t.count--
		}
	} else if t.root != nil {
		var removed bool
		t.root = t.root.without(t.edit, t.cfg, 0, t.cfg.hash(key), key, &removed)
		if removed {
			t.count--
		}
	}
	assertThat(t.count >= 0, "transient map has negative count %d", t.count)
}

// seal freezes t's nodes and hands them over to a persistent map.
func (t *Transient[K, V]) seal() Map[K, V] {
	t.edit.Seal()
	tracer().Debugf("transient map sealed with %d entries", t.count)
	m := Map[K, V]{
		count:    t.count,
		root:     t.root,
		hasNil:   t.hasNil,
		nilValue: t.nilValue,
		cfg:      t.cfg,
	}
	if m.count <= 64 && tracer().GetTraceLevel() >= tracing.LevelDebug {
		tracer().Debugf("%s", m.Dump())
	}
	var zero V
	t.root, t.nilValue = nil, zero
	return m
}
