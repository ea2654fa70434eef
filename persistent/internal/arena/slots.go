package arena

// Node is the contract of trie nodes which take part in transient editing.
type Node[N any] interface {
	Edit() *Token   // token the node has been stamped with, may be nil
	Clone(*Token) N // copy of the node's own slots, stamped with a token
}

// EnsureEditable returns a node which may be mutated in place under edit:
// n itself if edit owns it, a stamped clone otherwise.
// Children of n are shared, not copied.
func EnsureEditable[N Node[N]](n N, edit *Token) N {
	if edit.Owns(n.Edit()) {
		return n
	}
	return n.Clone(edit)
}

// Copy returns a fresh slice of length n, holding the first min(n, len(src))
// elements of src.
func Copy[E any](src []E, n int) []E {
	dst := make([]E, n)
	copy(dst, src)
	return dst
}

// CopyCap is like Copy, but reserves room for extra elements to be appended
// in place later on.
func CopyCap[E any](src []E, n, extra int) []E {
	dst := make([]E, n, n+extra)
	copy(dst, src)
	return dst
}

// Set returns a copy of src with src[i] replaced by x.
func Set[E any](src []E, i int, x E) []E {
	assertThat(i >= 0 && i < len(src), "slot index %d out of range [0,%d)", i, len(src))
	dst := Copy(src, len(src))
	dst[i] = x
	return dst
}

// Insert returns a copy of src with xs inserted at position i.
func Insert[E any](src []E, i int, xs ...E) []E {
	assertThat(i >= 0 && i <= len(src), "insert position %d out of range [0,%d]", i, len(src))
	dst := make([]E, len(src)+len(xs))
	copy(dst, src[:i])
	copy(dst[i:], xs)
	copy(dst[i+len(xs):], src[i:])
	return dst
}

// Remove returns a copy of src without the n elements starting at i.
func Remove[E any](src []E, i, n int) []E {
	assertThat(i >= 0 && n >= 0 && i+n <= len(src), "remove range [%d,%d) out of range [0,%d)", i, i+n, len(src))
	dst := make([]E, len(src)-n)
	copy(dst, src[:i])
	copy(dst[i:], src[i+n:])
	return dst
}
