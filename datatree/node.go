package datatree

import "github.com/bits-and-blooms/bitset"

// Node represents a compressed chain of consecutive draws that has so
// far only ever been observed with one value sequence, plus what
// follows that chain.
type Node struct {
	bits       []uint8
	values     []uint64
	forced     *bitset.BitSet // nil while no draw in this chain is forced
	transition transition
	exhausted  bool
}

func newNode() *Node {
	return &Node{}
}

func (n *Node) isForced(i int) bool {
	return n.forced != nil && n.forced.Test(uint(i))
}

func (n *Node) setForced(i int) {
	if n.forced == nil {
		n.forced = bitset.New(uint(i + 1))
	}
	n.forced.Set(uint(i))
}

// splitAt transforms the node so that index i becomes a branching
// point. It returns the new child that carries the tail beyond i
// (already wired into the resulting Branch transition under the key
// n.values[i]), or a *FlakyError if i was a forced index: splitting a
// forced index means the same draw position produced two different
// values across runs despite one of them having supposedly been
// dictated by the test itself, which can only happen under
// nondeterministic generation.
func (n *Node) splitAt(i int) (*Node, error) {
	if i < 0 || i >= len(n.values) {
		panic("datatree: splitAt index out of range")
	}
	if n.isForced(i) {
		return nil, newInconsistentGeneration("split at a forced draw index")
	}

	child := &Node{
		bits:       append([]uint8(nil), n.bits[i+1:]...),
		values:     append([]uint64(nil), n.values[i+1:]...),
		transition: n.transition,
	}
	if n.forced != nil {
		for j := i + 1; j < len(n.values); j++ {
			if n.forced.Test(uint(j)) {
				child.setForced(j - i - 1)
			}
		}
	}
	child.checkExhausted()

	key := n.values[i]
	branchWidth := n.bits[i]
	n.transition = newBranchTransition(branchWidth)
	n.transition.setChild(key, child)

	n.bits = n.bits[:i]
	n.values = n.values[:i]
	if n.forced != nil {
		trimmed := bitset.New(uint(i))
		for j := 0; j < i; j++ {
			if n.forced.Test(uint(j)) {
				trimmed.Set(uint(j))
			}
		}
		if trimmed.Count() == 0 {
			n.forced = nil
		} else {
			n.forced = trimmed
		}
	}
	// A node mid-split cannot have been exhausted: exhaustion requires
	// every draw forced, and we just proved index i was not.
	n.exhausted = false

	return child, nil
}

// checkExhausted reports and caches whether every path through n is a
// concluded, fully-forced path. Idempotent and monotonic: once true,
// it never flips back.
func (n *Node) checkExhausted() bool {
	if n.exhausted {
		return true
	}
	allForced := len(n.values) == 0
	if n.forced != nil {
		allForced = int(n.forced.Count()) == len(n.values)
	}
	if !allForced {
		return false
	}
	switch n.transition.kind {
	case transitionUnknown:
		return false
	case transitionConclusion:
		n.exhausted = true
	case transitionBranch:
		if uint64(n.transition.childCount()) != n.transition.slotCount() {
			return false
		}
		allChildrenExhausted := true
		n.transition.forEachChild(func(c *Node) {
			if !c.exhausted {
				allChildrenExhausted = false
			}
		})
		if !allChildrenExhausted {
			return false
		}
		n.exhausted = true
	}
	return n.exhausted
}
