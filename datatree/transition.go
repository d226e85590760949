package datatree

// denseBranchThreshold is the widest branch draw for which children
// are stored as a dense slice instead of a map. A dense array is
// faster for small widths; 8 keeps the largest dense array at 256
// slots.
const denseBranchThreshold = 8

type transitionKind uint8

const (
	transitionUnknown transitionKind = iota
	transitionBranch
	transitionConclusion
)

// transition is the tagged variant attached to a Node: either the tail
// of the run hasn't been observed yet (Unknown), the next draw split
// into multiple observed values (Branch), or the run terminated here
// (Conclusion).
type transition struct {
	kind        transitionKind
	branchWidth uint8
	dense       []*Node          // non-nil when branchWidth <= denseBranchThreshold
	sparse      map[uint64]*Node // non-nil otherwise
	conclusion  *Conclusion
}

func newBranchTransition(width uint8) transition {
	t := transition{kind: transitionBranch, branchWidth: width}
	if width <= denseBranchThreshold {
		t.dense = make([]*Node, uint64(1)<<width)
	} else {
		t.sparse = make(map[uint64]*Node)
	}
	return t
}

func (t *transition) getChild(v uint64) (*Node, bool) {
	if t.dense != nil {
		if v >= uint64(len(t.dense)) {
			return nil, false
		}
		c := t.dense[v]
		return c, c != nil
	}
	c, ok := t.sparse[v]
	return c, ok
}

func (t *transition) setChild(v uint64, n *Node) {
	if t.dense != nil {
		t.dense[v] = n
		return
	}
	t.sparse[v] = n
}

func (t *transition) childCount() int {
	if t.dense != nil {
		n := 0
		for _, c := range t.dense {
			if c != nil {
				n++
			}
		}
		return n
	}
	return len(t.sparse)
}

// slotCount is 2^branchWidth, the number of possible draw values.
func (t *transition) slotCount() uint64 {
	return uint64(1) << t.branchWidth
}

func (t *transition) forEachChild(fn func(*Node)) {
	if t.dense != nil {
		for _, c := range t.dense {
			if c != nil {
				fn(c)
			}
		}
		return
	}
	for _, c := range t.sparse {
		fn(c)
	}
}
