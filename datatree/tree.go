// Package datatree implements the execution trie that remembers every
// prior invocation of a property-based test in terms of the primitive
// bit draws that produced it: it records executions as they happen,
// simulates candidate buffers against recorded knowledge, and
// generates novel prefixes to direct future exploration.
package datatree

import (
	"math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/go-conjecture/datatree/source"
)

// maxNovelPrefixAttempts bounds GenerateNovelPrefix's acceptance
// sampling loop. The loop can in principle run unboundedly against a
// tree that is not exhausted but came arbitrarily close to it; this is
// a defensive backstop against that practically unreachable case.
const maxNovelPrefixAttempts = 1_000_000

// Tree owns the root node of the execution trie.
type Tree struct {
	root    *Node
	interns map[conclusionKey]*Conclusion
	log     zerolog.Logger
}

// New returns an empty Tree.
func New() *Tree {
	return &Tree{
		root:    newNode(),
		interns: make(map[conclusionKey]*Conclusion),
		log:     zerolog.Nop(),
	}
}

// SetLogger attaches a structured logger used for a debug event on each
// split and a warn event on inconsistent results. Exhaustion changes
// are not logged. Only observers created after the call use it. The
// zero value logs nothing.
func (t *Tree) SetLogger(l zerolog.Logger) {
	t.log = l
}

// IsExhausted reports whether every reachable path from the root is a
// concluded, fully-forced path, so no novel extension is possible.
func (t *Tree) IsExhausted() bool {
	return t.root.exhausted
}

// NewObserver returns a fresh recording observer positioned at the
// root, index 0.
func (t *Tree) NewObserver() *Observer {
	return newObserver(t)
}

// Rewrite replays buf against recorded knowledge. If the replay
// reaches a definite conclusion, status is that conclusion's status
// (or StatusOverrun if the buffer ran out) and known is true;
// otherwise known is false and status is meaningless. outBuf is the
// bytes actually consumed during replay, which can differ from buf
// when a forced draw rewrites an input byte.
func (t *Tree) Rewrite(buf []byte) (outBuf []byte, status source.Status, known bool) {
	data := source.NewBufferSource(buf)
	err := simulate(t.root, data)
	if err == errPreviouslyUnseen {
		return data.Buffer(), 0, false
	}
	return data.Buffer(), data.Status(), true
}

// GenerateNovelPrefix returns a short bit-string guaranteed not to
// replay any previously recorded execution. Precondition: !IsExhausted().
func (t *Tree) GenerateNovelPrefix(rng *rand.Rand) ([]byte, error) {
	if t.IsExhausted() {
		return nil, errTreeExhausted
	}
	for attempt := 0; attempt < maxNovelPrefixAttempts; attempt++ {
		data := source.NewRandomSource(rng)
		err := simulate(t.root, data)
		if err == errPreviouslyUnseen {
			return data.Buffer(), nil
		}
	}
	return nil, errNovelPrefixSearchExhausted
}

// Stats is a snapshot of tree-wide counters, used by the CLI and by
// dtmetrics' Prometheus collectors.
type Stats struct {
	NodeCount          int
	ExhaustedNodeCount int
	MaxDepth           int
}

// Stats walks the tree and summarizes its shape.
func (t *Tree) Stats() Stats {
	var s Stats
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		s.NodeCount++
		if n.exhausted {
			s.ExhaustedNodeCount++
		}
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		if n.transition.kind == transitionBranch {
			n.transition.forEachChild(func(c *Node) {
				walk(c, depth+1)
			})
		}
	}
	walk(t.root, 0)
	return s
}
