/*
Package persistent is the home of immutable persistent collections: a vector
(package vector) and a hash map (package hamt). Both are built as shallow tries
with a branching factor of 32, so that every “modification” copies just the
path from the root to the changed slot and shares everything else with the
original.

Immutable data structures in many cases offer benefits over mutable data structures in terms
of concurrent access and functional reasoning.  *Persistent* immutable data-structures offer
structural sharing, which means that if two data structures are mostly copies of each other,
most of the memory they take up will be shared between them. This implies that making copies
of an immutable data structure is relatively cheap in terms of space- and time-complexity.

# Transients

Building a large collection one persistent step at a time allocates a new path
for every element. Both collections therefore offer a transient mode: a
transient is a private working copy which may be mutated in place. Nodes
touched by a transient are stamped with an edit token; only the transient
holding that token may change them. Calling Persistent() on a transient seals
it and hands out an ordinary immutable value. A sealed transient refuses every
further operation with ErrTransientSealed.

	t := vector.Empty[int]().AsTransient()
	for i := 0; i < 1000; i++ {
		t.Push(i)
	}
	v, _ := t.Persistent()

Persistent values may be read from any number of goroutines. Transients are
meant for a single goroutine; overlapping calls are reported as
ErrConcurrentEdit.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package persistent
