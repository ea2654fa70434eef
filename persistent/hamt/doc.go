/*
Package hamt implements an immutable persistent hash map, based on a hash array
mapped trie (HAMT).

Like the vector of package persistent/vector, a map is a 32-way trie. Every
level of the trie consumes 5 bits of a key's 32-bit hash, starting with the
lowest bits. Inner nodes come in three flavours:

▪︎ bitmap nodes hold up to 16 entries, compacted by a 32-bit population bitmap.
An entry is either a key/value pair or a sub-trie.

▪︎ array nodes hold 32 child slots, some of which may be empty. A bitmap node
which overflows is promoted to an array node, an array node which drains is
packed into a bitmap node again.

▪︎ collision nodes hold keys whose 32-bit hashes are identical.

Each “modification” of a map creates a copy of the path from the root to the
changed entry, sharing everything else with the original:

	m := hamt.Empty[string, int]()
	m = m.Assoc("a", 1).Assoc("b", 2)
	n := m.Dissoc("a")    // m still holds a and b

Keys are hashed by a Hasher. The default hasher works for any comparable key
type, clients may provide specialized or custom ones with option WithHasher.
A nil interface key is a legal key; it is stored beside the trie.

For batch construction use a transient (see AsTransient), which edits its own
nodes in place and is converted back to an immutable map by Persistent().

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package hamt

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fp.hamt'.
func tracer() tracing.Trace {
	return tracing.Select("fp.hamt")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("persistent.hamt: "+msg, msgargs...)
		panic(msg)
	}
}
