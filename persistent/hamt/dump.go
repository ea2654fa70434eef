package hamt

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// Dump renders the internal structure of m as a tree, for debugging.
func (m Map[K, V]) Dump() string {
	header := fmt.Sprintf("Map(count=%d)\n", m.count)
	printer := treeprint.New()
	if m.hasNil {
		printer.AddNode(fmt.Sprintf("<nil>: %v", m.nilValue))
	}
	if m.root != nil {
		dumpNode(printer, m.root)
	}
	return header + printer.String()
}

func dumpNode[K comparable, V any](printer treeprint.Tree, n node[K, V]) {
	switch n := n.(type) {
	case *bitmapNode[K, V]:
		branch := printer.AddBranch(fmt.Sprintf("bitmap %032b", n.bitmap))
		for _, e := range n.entries {
			if e.sub != nil {
				dumpNode(branch, e.sub)
			} else {
				branch.AddNode(fmt.Sprintf("%v: %v", e.key, e.val))
			}
		}
	case *arrayNode[K, V]:
		branch := printer.AddBranch(fmt.Sprintf("array #%d", n.count))
		for _, child := range n.children {
			if child != nil {
				dumpNode(branch, child)
			}
		}
	case *collisionNode[K, V]:
		branch := printer.AddBranch(fmt.Sprintf("collision %#08x", n.hash))
		for _, e := range n.entries {
			branch.AddNode(fmt.Sprintf("%v: %v", e.key, e.val))
		}
	}
}
