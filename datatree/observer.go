package datatree

import (
	"github.com/rs/zerolog"

	"github.com/go-conjecture/datatree/source"
)

// Observer is a recording observer, positioned at some node and index
// within it, that mutates the owning Tree as a real run proceeds. It
// keeps a trail of every node visited so a conclusion can walk back
// and propagate exhaustion up the chain.
type Observer struct {
	tree  *Tree
	node  *Node
	index int
	trail []*Node
	log   zerolog.Logger
}

func newObserver(t *Tree) *Observer {
	o := &Observer{tree: t, node: t.root, log: t.log}
	o.trail = append(o.trail, o.node)
	return o
}

// OnDraw records one draw_bits(n_bits) event with the value the live
// test run actually produced.
func (o *Observer) OnDraw(nBits uint8, forced bool, value uint64) error {
	node := o.node
	i := o.index
	o.index++

	if i < len(node.bits) {
		// Case A: inside a compressed chain.
		if nBits != node.bits[i] {
			return newInconsistentGeneration("draw width changed at a replayed index")
		}
		if forced && !node.isForced(i) {
			return newInconsistentGeneration("draw forced at an index that was previously free")
		}
		if value != node.values[i] {
			if _, err := node.splitAt(i); err != nil {
				return err
			}
			sibling := newNode()
			node.transition.setChild(value, sibling)
			if e := o.log.Debug(); e.Enabled() {
				e.Str("fingerprint", fingerprint(append(append([]uint64(nil), node.values...), value))).
					Int("index", i).
					Msg("split")
			}
			o.node = sibling
			o.index = 0
		}
	} else {
		// Case B: at or past the end of the chain.
		switch node.transition.kind {
		case transitionUnknown:
			node.bits = append(node.bits, nBits)
			node.values = append(node.values, value)
			if forced {
				node.setForced(i)
			}
		case transitionConclusion:
			return newInconsistentGeneration("drew past a previously recorded conclusion")
		case transitionBranch:
			if nBits != node.transition.branchWidth {
				return newInconsistentGeneration("branch draw width changed at a replayed index")
			}
			child, ok := node.transition.getChild(value)
			if !ok {
				child = newNode()
				node.transition.setChild(value, child)
			}
			o.node = child
			o.index = 0
		}
	}

	if len(o.trail) == 0 || o.trail[len(o.trail)-1] != o.node {
		o.trail = append(o.trail, o.node)
	}
	return nil
}

// OnConclude records a conclude_test(status, origin) event.
func (o *Observer) OnConclude(status source.Status, origin any) error {
	if status == source.StatusOverrun {
		return nil
	}
	node := o.node
	i := o.index
	if i < len(node.values) || node.transition.kind == transitionBranch {
		return newInconsistentGeneration("concluded before the recorded draws were exhausted")
	}

	newConc := o.tree.intern(status, origin)
	if node.transition.kind == transitionConclusion {
		if node.transition.conclusion != newConc {
			o.log.Warn().
				Str("fingerprint", fingerprint(node.values)).
				Str("previous", node.transition.conclusion.Status.String()).
				Str("now", newConc.Status.String()).
				Msg("flaky: inconsistent results")
			return newInconsistentResults("the same draw sequence concluded with a different status or origin")
		}
	} else {
		node.transition = transition{kind: transitionConclusion, conclusion: newConc}
	}

	for j := len(o.trail) - 1; j >= 0; j-- {
		if !o.trail[j].checkExhausted() {
			break
		}
	}
	return nil
}
