package hamt

import (
	"math/bits"

	"github.com/npillmayer/pcoll/persistent/internal/arena"
)

// node is implemented by *bitmapNode, *arrayNode and *collisionNode.
//
// Operations taking an edit token serve persistent maps as well as transients.
// A nil token never owns any node, so every change is done on a copy; a live
// token lets a transient change its own nodes in place.
// Operations return the receiver if nothing has changed, and nil if the last
// entry of the node has been removed.
type node[K comparable, V any] interface {
	find(shift uint, hash uint32, key K) (V, bool)
	assoc(edit *arena.Token, cfg *config[K], shift uint, hash uint32, key K, val V, added *bool) node[K, V]
	without(edit *arena.Token, cfg *config[K], shift uint, hash uint32, key K, removed *bool) node[K, V]
	Edit() *arena.Token
}

// entry is either a key/value pair or, if sub is set, a link to a sub-trie.
type entry[K comparable, V any] struct {
	key K
	val V
	sub node[K, V]
}

// mask extracts the 5 bits of hash which select a slot at level shift.
func mask(hash uint32, shift uint) uint32 {
	return (hash >> shift) & arena.Mask
}

func bitpos(hash uint32, shift uint) uint32 {
	return 1 << mask(hash, shift)
}

// createNode creates a sub-trie at level shift holding two distinct keys.
func createNode[K comparable, V any](edit *arena.Token, cfg *config[K], shift uint,
	key1 K, val1 V, hash2 uint32, key2 K, val2 V) node[K, V] {
	//
	hash1 := cfg.hash(key1)
	if hash1 == hash2 {
		tracer().Debugf("hash collision %#08x", hash1)
		return &collisionNode[K, V]{
			edit:    edit,
			hash:    hash1,
			entries: []entry[K, V]{{key: key1, val: val1}, {key: key2, val: val2}},
		}
	}
	assertThat(shift < 32, "hashes %#08x and %#08x do not differ", hash1, hash2)
	var ignore bool
	n := emptyBitmapNode[K, V](edit).assoc(edit, cfg, shift, hash1, key1, val1, &ignore)
	return n.assoc(edit, cfg, shift, hash2, key2, val2, &ignore)
}

// --- Bitmap nodes ----------------------------------------------------------

type bitmapNode[K comparable, V any] struct {
	edit    *arena.Token
	bitmap  uint32
	entries []entry[K, V] // len(entries) == popcount(bitmap)
}

func emptyBitmapNode[K comparable, V any](edit *arena.Token) *bitmapNode[K, V] {
	return &bitmapNode[K, V]{edit: edit}
}

func (b *bitmapNode[K, V]) Edit() *arena.Token {
	return b.edit
}

func (b *bitmapNode[K, V]) Clone(edit *arena.Token) *bitmapNode[K, V] {
	extra := 0
	if edit != nil { // transients will likely insert
		extra = 1
	}
	return &bitmapNode[K, V]{
		edit:    edit,
		bitmap:  b.bitmap,
		entries: arena.CopyCap(b.entries, len(b.entries), extra),
	}
}

// index returns the position in entries for a bit of the bitmap.
func (b *bitmapNode[K, V]) index(bit uint32) int {
	return bits.OnesCount32(b.bitmap & (bit - 1))
}

func (b *bitmapNode[K, V]) find(shift uint, hash uint32, key K) (V, bool) {
	bit := bitpos(hash, shift)
	if b.bitmap&bit == 0 {
		var zero V
		return zero, false
	}
	e := b.entries[b.index(bit)]
	if e.sub != nil {
		return e.sub.find(shift+arena.Bits, hash, key)
	}
	if e.key == key {
		return e.val, true
	}
	var zero V
	return zero, false
}

func (b *bitmapNode[K, V]) assoc(edit *arena.Token, cfg *config[K], shift uint, hash uint32,
	key K, val V, added *bool) node[K, V] {
	//
	bit := bitpos(hash, shift)
	idx := b.index(bit)
	if b.bitmap&bit != 0 {
		e := b.entries[idx]
		if e.sub != nil {
			n := e.sub.assoc(edit, cfg, shift+arena.Bits, hash, key, val, added)
			if n == e.sub {
				return b
			}
			return b.setEntry(edit, idx, entry[K, V]{sub: n})
		}
		if e.key == key {
			return b.setEntry(edit, idx, entry[K, V]{key: key, val: val})
		}
		*added = true
		sub := createNode(edit, cfg, shift+arena.Bits, e.key, e.val, hash, key, val)
		return b.setEntry(edit, idx, entry[K, V]{sub: sub})
	}
	if len(b.entries) >= cfg.promoteAt {
		return b.promote(edit, cfg, shift, hash, key, val, added)
	}
	*added = true
	return b.insertEntry(edit, bit, idx, entry[K, V]{key: key, val: val})
}

func (b *bitmapNode[K, V]) without(edit *arena.Token, cfg *config[K], shift uint, hash uint32,
	key K, removed *bool) node[K, V] {
	//
	bit := bitpos(hash, shift)
	if b.bitmap&bit == 0 {
		return b
	}
	idx := b.index(bit)
	e := b.entries[idx]
	if e.sub != nil {
		n := e.sub.without(edit, cfg, shift+arena.Bits, hash, key, removed)
		if n == e.sub {
			return b
		}
		if n != nil {
			return b.setEntry(edit, idx, entry[K, V]{sub: n})
		}
	} else if e.key != key {
		return b
	} else {
		*removed = true
	}
	if b.bitmap == bit {
		return nil
	}
	return b.removeEntry(edit, bit, idx)
}

func (b *bitmapNode[K, V]) setEntry(edit *arena.Token, idx int, e entry[K, V]) *bitmapNode[K, V] {
	n := arena.EnsureEditable(b, edit)
	n.entries[idx] = e
	return n
}

func (b *bitmapNode[K, V]) insertEntry(edit *arena.Token, bit uint32, idx int, e entry[K, V]) *bitmapNode[K, V] {
	if edit.Owns(b.edit) {
		if len(b.entries) < cap(b.entries) {
			b.entries = b.entries[:len(b.entries)+1]
			copy(b.entries[idx+1:], b.entries[idx:])
			b.entries[idx] = e
		} else {
			b.entries = arena.Insert(b.entries, idx, e)
		}
		b.bitmap |= bit
		return b
	}
	return &bitmapNode[K, V]{
		edit:    edit,
		bitmap:  b.bitmap | bit,
		entries: arena.Insert(b.entries, idx, e),
	}
}

func (b *bitmapNode[K, V]) removeEntry(edit *arena.Token, bit uint32, idx int) *bitmapNode[K, V] {
	if edit.Owns(b.edit) {
		last := len(b.entries) - 1
		copy(b.entries[idx:], b.entries[idx+1:])
		b.entries[last] = entry[K, V]{}
		b.entries = b.entries[:last]
		b.bitmap ^= bit
		return b
	}
	return &bitmapNode[K, V]{
		edit:    edit,
		bitmap:  b.bitmap ^ bit,
		entries: arena.Remove(b.entries, idx, 1),
	}
}

// promote turns b into an array node, then inserts key. Inline entries of b
// move one level down into fresh bitmap nodes.
func (b *bitmapNode[K, V]) promote(edit *arena.Token, cfg *config[K], shift uint, hash uint32,
	key K, val V, added *bool) node[K, V] {
	//
	tracer().Debugf("promoting bitmap node with %d entries at level %d", len(b.entries), shift/arena.Bits)
	a := &arrayNode[K, V]{
		edit:     edit,
		count:    len(b.entries) + 1,
		children: make([]node[K, V], arena.Width),
	}
	a.children[mask(hash, shift)] = emptyBitmapNode[K, V](edit).assoc(edit, cfg, shift+arena.Bits, hash, key, val, added)
	j := 0
	for i := 0; i < arena.Width; i++ {
		if b.bitmap&(1<<i) == 0 {
			continue
		}
		e := b.entries[j]
		j++
		if e.sub != nil {
			a.children[i] = e.sub
			continue
		}
		var ignore bool
		a.children[i] = emptyBitmapNode[K, V](edit).assoc(edit, cfg, shift+arena.Bits, cfg.hash(e.key), e.key, e.val, &ignore)
	}
	return a
}

// --- Array nodes -----------------------------------------------------------

type arrayNode[K comparable, V any] struct {
	edit     *arena.Token
	count    int          // number of non-nil children
	children []node[K, V] // always 32 slots
}

func (a *arrayNode[K, V]) Edit() *arena.Token {
	return a.edit
}

func (a *arrayNode[K, V]) Clone(edit *arena.Token) *arrayNode[K, V] {
	return &arrayNode[K, V]{
		edit:     edit,
		count:    a.count,
		children: arena.Copy(a.children, arena.Width),
	}
}

func (a *arrayNode[K, V]) find(shift uint, hash uint32, key K) (V, bool) {
	child := a.children[mask(hash, shift)]
	if child == nil {
		var zero V
		return zero, false
	}
	return child.find(shift+arena.Bits, hash, key)
}

func (a *arrayNode[K, V]) assoc(edit *arena.Token, cfg *config[K], shift uint, hash uint32,
	key K, val V, added *bool) node[K, V] {
	//
	idx := mask(hash, shift)
	child := a.children[idx]
	if child == nil {
		n := arena.EnsureEditable(a, edit)
		n.children[idx] = emptyBitmapNode[K, V](edit).assoc(edit, cfg, shift+arena.Bits, hash, key, val, added)
		n.count++
		return n
	}
	c := child.assoc(edit, cfg, shift+arena.Bits, hash, key, val, added)
	if c == child {
		return a
	}
	n := arena.EnsureEditable(a, edit)
	n.children[idx] = c
	return n
}

func (a *arrayNode[K, V]) without(edit *arena.Token, cfg *config[K], shift uint, hash uint32,
	key K, removed *bool) node[K, V] {
	//
	idx := mask(hash, shift)
	child := a.children[idx]
	if child == nil {
		return a
	}
	c := child.without(edit, cfg, shift+arena.Bits, hash, key, removed)
	if c == child {
		return a
	}
	if c == nil && a.count == 1 {
		return nil
	}
	if c == nil && a.count-1 <= cfg.demoteAt {
		return a.pack(edit, int(idx))
	}
	n := arena.EnsureEditable(a, edit)
	n.children[idx] = c
	if c == nil {
		n.count--
	}
	return n
}

// pack creates a bitmap node holding all children of a except the one at idx.
func (a *arrayNode[K, V]) pack(edit *arena.Token, idx int) *bitmapNode[K, V] {
	tracer().Debugf("packing array node with %d children", a.count-1)
	b := &bitmapNode[K, V]{
		edit:    edit,
		entries: make([]entry[K, V], 0, a.count-1),
	}
	for i, child := range a.children {
		if i != idx && child != nil {
			b.entries = append(b.entries, entry[K, V]{sub: child})
			b.bitmap |= 1 << i
		}
	}
	return b
}

// --- Collision nodes -------------------------------------------------------

type collisionNode[K comparable, V any] struct {
	edit    *arena.Token
	hash    uint32        // common hash of all keys
	entries []entry[K, V] // key/value pairs only
}

func (c *collisionNode[K, V]) Edit() *arena.Token {
	return c.edit
}

func (c *collisionNode[K, V]) Clone(edit *arena.Token) *collisionNode[K, V] {
	return &collisionNode[K, V]{
		edit:    edit,
		hash:    c.hash,
		entries: arena.Copy(c.entries, len(c.entries)),
	}
}

func (c *collisionNode[K, V]) indexOf(key K) int {
	for i, e := range c.entries {
		if e.key == key {
			return i
		}
	}
	return -1
}

func (c *collisionNode[K, V]) find(shift uint, hash uint32, key K) (V, bool) {
	if i := c.indexOf(key); i >= 0 {
		return c.entries[i].val, true
	}
	var zero V
	return zero, false
}

func (c *collisionNode[K, V]) assoc(edit *arena.Token, cfg *config[K], shift uint, hash uint32,
	key K, val V, added *bool) node[K, V] {
	//
	if hash != c.hash { // nest c into a bitmap node, then insert key beside it
		b := &bitmapNode[K, V]{
			edit:    edit,
			bitmap:  bitpos(c.hash, shift),
			entries: []entry[K, V]{{sub: c}},
		}
		return b.assoc(edit, cfg, shift, hash, key, val, added)
	}
	if i := c.indexOf(key); i >= 0 {
		n := arena.EnsureEditable(c, edit)
		n.entries[i].val = val
		return n
	}
	*added = true
	if edit.Owns(c.edit) {
		c.entries = append(c.entries, entry[K, V]{key: key, val: val})
		return c
	}
	return &collisionNode[K, V]{
		edit:    edit,
		hash:    c.hash,
		entries: arena.Insert(c.entries, len(c.entries), entry[K, V]{key: key, val: val}),
	}
}

func (c *collisionNode[K, V]) without(edit *arena.Token, cfg *config[K], shift uint, hash uint32,
	key K, removed *bool) node[K, V] {
	//
	i := c.indexOf(key)
	if i < 0 {
		return c
	}
	*removed = true
	if len(c.entries) == 1 {
		return nil
	}
	if edit.Owns(c.edit) { // swap with last
		last := len(c.entries) - 1
		c.entries[i] = c.entries[last]
		c.entries[last] = entry[K, V]{}
		c.entries = c.entries[:last]
		return c
	}
	return &collisionNode[K, V]{
		edit:    edit,
		hash:    c.hash,
		entries: arena.Remove(c.entries, i, 1),
	}
}
