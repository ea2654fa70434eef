/*
Package vector implements an immutable persistent vector, designed for use-cases
similar to Go slices.

An immutable persistent vector has copy-on-write behaviour: Each “modification” of the vector
(append, replacement or removal of the last element) creates a copy, leaving the original
unmodified. Under the hood, copy-on-write retains most of the memory held by the original,
and creates a new incarnation of parts of the structure only. Thus, most of the structure/memory
is shared between original and copy, transparently to clients.

The vector is a trie of 32-way nodes plus a tail buffer of up to 32 elements. Appends go to
the tail; only every 32nd append files the full tail into the trie. Index lookups walk at most
⌈log₃₂ n⌉ levels, which is no more than 7 for any vector that fits into memory.

	v := vector.Empty[string]()
	v = v.Push("a").Push("b")
	w, _ := v.Set(0, "x")    // v is still [a b], w is [x b]

Immutable vectors are inherently concurrency-safe.

For batch construction use a transient (see AsTransient), which edits its own nodes in place
and is converted back to an immutable vector by Persistent().

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package vector

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fp.vector'.
func tracer() tracing.Trace {
	return tracing.Select("fp.vector")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("persistent.vector: "+msg, msgargs...)
		panic(msg)
	}
}
