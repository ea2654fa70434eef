/*
Package arena holds the pieces shared by the trie implementations of package
persistent: the fixed node width, edit tokens for transient ownership, and
copy-on-write helpers for slot arrays.

A node created or cloned by a transient carries the transient's token. While
the token is live, the transient may change such a node in place; every other
node has to be cloned (and stamped) first, see EnsureEditable. Sealing a token
freezes all nodes stamped with it for good, as no other token can ever match.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package arena

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// Tries branch with 2^Bits children per node.
const (
	Bits  = 5
	Width = 1 << Bits
	Mask  = Width - 1
)

// tracer traces with key 'fp.arena'.
func tracer() tracing.Trace {
	return tracing.Select("fp.arena")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("persistent.arena: "+msg, msgargs...)
		panic(msg)
	}
}
