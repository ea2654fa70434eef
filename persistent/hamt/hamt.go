package hamt

import (
	"fmt"
	"strings"

	"github.com/npillmayer/pcoll/maybe"
)

// Map is an immutable persistent hash map from keys of type K to values of
// type V. The zero value is an empty map using the default hasher.
type Map[K comparable, V any] struct {
	count    int
	root     node[K, V] // nil for an empty trie
	hasNil   bool       // the nil key lives outside the trie
	nilValue V
	cfg      *config[K]
}

// Entry is a key/value pair.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Empty returns an empty map.
//
// Use it like this:
//
//	m := hamt.Empty[string, int](hamt.PromoteAt(12), hamt.DemoteAt(6))
func Empty[K comparable, V any](opts ...Option) Map[K, V] {
	return Map[K, V]{cfg: makeConfig[K](opts)}
}

// From creates a map holding entries. For duplicate keys, the last entry wins.
func From[K comparable, V any](entries ...Entry[K, V]) Map[K, V] {
	t := Empty[K, V]().AsTransient()
	for _, e := range entries {
		t.assoc(e.Key, e.Value)
	}
	return t.seal()
}

// FromGoMap creates a map holding the entries of a Go map.
func FromGoMap[K comparable, V any](gomap map[K]V, opts ...Option) Map[K, V] {
	t := Empty[K, V](opts...).AsTransient()
	for k, v := range gomap {
		t.assoc(k, v)
	}
	return t.seal()
}

func (m Map[K, V]) config() *config[K] {
	if m.cfg == nil {
		return defaultConfig[K]()
	}
	return m.cfg
}

// isNil is true for a nil interface key.
func isNil[K comparable](key K) bool {
	var zero K
	return key == zero && any(key) == nil
}

// --- API -------------------------------------------------------------------

// Len returns the number of entries of m.
func (m Map[K, V]) Len() int {
	return m.count
}

// Get returns the value for key and true, or the zero value and false if key
// is not present in m.
func (m Map[K, V]) Get(key K) (V, bool) {
	if isNil(key) {
		return m.nilValue, m.hasNil
	}
	if m.root == nil {
		var zero V
		return zero, false
	}
	return m.root.find(0, m.config().hash(key), key)
}

// GetOr returns the value for key, or def if key is not present in m.
func (m Map[K, V]) GetOr(key K, def V) V {
	if v, ok := m.Get(key); ok {
		return v
	}
	return def
}

// Find returns the value for key, if present.
func (m Map[K, V]) Find(key K) maybe.Maybe[V] {
	v, ok := m.Get(key)
	return maybe.Of(v, ok)
}

// ContainsKey is true if key is present in m.
func (m Map[K, V]) ContainsKey(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Assoc returns a copy of m with key mapped to val.
func (m Map[K, V]) Assoc(key K, val V) Map[K, V] {
	cfg := m.config()
	if isNil(key) {
		count := m.count
		if !m.hasNil {
			count++
		}
		return Map[K, V]{count: count, root: m.root, hasNil: true, nilValue: val, cfg: cfg}
	}
	root := m.root
	if root == nil {
		root = emptyBitmapNode[K, V](nil)
	}
	var added bool
	root = root.assoc(nil, cfg, 0, cfg.hash(key), key, val, &added)
	count := m.count
	if added {
		count++
	}
	return Map[K, V]{count: count, root: root, hasNil: m.hasNil, nilValue: m.nilValue, cfg: cfg}
}

// Dissoc returns a copy of m without key. If key is not present in m, m is
// returned.
func (m Map[K, V]) Dissoc(key K) Map[K, V] {
	if isNil(key) {
		if !m.hasNil {
			return m
		}
		return Map[K, V]{count: m.count - 1, root: m.root, cfg: m.cfg}
	}
	if m.root == nil {
		return m
	}
	cfg := m.config()
	var removed bool
	root := m.root.without(nil, cfg, 0, cfg.hash(key), key, &removed)
	if !removed {
		return m
	}
	return Map[K, V]{count: m.count - 1, root: root, hasNil: m.hasNil, nilValue: m.nilValue, cfg: cfg}
}

// Update returns a copy of m with key mapped to f(v, ok), where v and ok are
// the results of m.Get(key).
func (m Map[K, V]) Update(key K, f func(V, bool) V) Map[K, V] {
	return m.Assoc(key, f(m.Get(key)))
}

// Merge returns a map holding the entries of m and other. For keys present in
// both, the value of other wins.
func (m Map[K, V]) Merge(other Map[K, V]) Map[K, V] {
	if other.count == 0 {
		return m
	}
	if m.count == 0 && m.cfg == other.cfg {
		return other
	}
	t := m.AsTransient()
	for k, v := range other.All() {
		t.assoc(k, v)
	}
	return t.seal()
}

// String returns the entries of m in iteration order, like
// "map[k1:v1 k2:v2]".
func (m Map[K, V]) String() string {
	var sb strings.Builder
	sb.WriteString("map[")
	first := true
	for k, v := range m.All() {
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		fmt.Fprintf(&sb, "%v:%v", k, v)
	}
	sb.WriteByte(']')
	return sb.String()
}

// GoMap returns the entries of m as a Go map.
func (m Map[K, V]) GoMap() map[K]V {
	gomap := make(map[K]V, m.count)
	for k, v := range m.All() {
		gomap[k] = v
	}
	return gomap
}
