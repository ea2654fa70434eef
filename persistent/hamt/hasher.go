package hamt

import (
	"hash/maphash"

	"github.com/fxamacker/circlehash"
	"golang.org/x/exp/constraints"
)

// Hasher computes 32-bit hashes for keys of type K. Keys which are equal
// (==) must have equal hashes.
type Hasher[K any] interface {
	Hash(K) uint32
}

// HasherFunc adapts a plain function to the Hasher interface.
type HasherFunc[K any] func(K) uint32

// Hash calls f(key).
func (f HasherFunc[K]) Hash(key K) uint32 {
	return f(key)
}

// seed for the default hasher, fixed for the lifetime of the process.
var seed = maphash.MakeSeed()

const circleSeed uint64 = 0x6c62272e07bb0142

// ComparableHasher hashes any comparable key with hash/maphash.
// It is the default hasher of maps.
type ComparableHasher[K comparable] struct{}

// Hash returns the hash of key.
func (ComparableHasher[K]) Hash(key K) uint32 {
	return fold(maphash.Comparable(seed, key))
}

// StringHasher hashes strings with CircleHash64.
type StringHasher struct{}

// Hash returns the hash of s.
func (StringHasher) Hash(s string) uint32 {
	return fold(circlehash.Hash64([]byte(s), circleSeed))
}

// IntegerHasher hashes integer keys with CircleHash64.
type IntegerHasher[K constraints.Integer] struct{}

// Hash returns the hash of n.
func (IntegerHasher[K]) Hash(n K) uint32 {
	return fold(circlehash.Hash64Uint64x2(uint64(n), 0, circleSeed))
}

// fold mixes the high bits of a 64-bit hash into the lower 32 bits, which are
// the ones the trie consumes.
func fold(h uint64) uint32 {
	return uint32(h ^ h>>32)
}
