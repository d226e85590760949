package datatree

import "github.com/go-conjecture/datatree/source"

// simulate replays data against the tree starting at root. It always
// returns a non-nil error: either errPreviouslyUnseen (the replay left
// known territory) or the terminal error the data source returns once
// it concludes the run.
func simulate(root *Node, data source.Source) error {
	node := root
	for {
		for i := 0; i < len(node.values); i++ {
			var forcedPtr *uint64
			if node.isForced(i) {
				v := node.values[i]
				forcedPtr = &v
			}
			v, err := data.DrawBits(node.bits[i], forcedPtr)
			if err != nil {
				return err
			}
			if v != node.values[i] {
				return errPreviouslyUnseen
			}
		}
		switch node.transition.kind {
		case transitionConclusion:
			return data.ConcludeTest(node.transition.conclusion.Status, node.transition.conclusion.Origin)
		case transitionUnknown:
			return errPreviouslyUnseen
		case transitionBranch:
			v, err := data.DrawBits(node.transition.branchWidth, nil)
			if err != nil {
				return err
			}
			child, ok := node.transition.getChild(v)
			if !ok {
				return errPreviouslyUnseen
			}
			node = child
		}
	}
}
