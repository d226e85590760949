// Package dtmetrics wraps a datatree.Tree with Prometheus
// instrumentation: a decorator that records counters and gauges
// around each call instead of changing the wrapped tree's behavior.
package dtmetrics

import (
	"math/rand/v2"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/go-conjecture/datatree/datatree"
	"github.com/go-conjecture/datatree/source"
)

// InstrumentedTree wraps a *datatree.Tree and records its shape and
// flakiness as Prometheus metrics.
type InstrumentedTree struct {
	tree *datatree.Tree

	nodes          prometheus.Gauge
	exhaustedNodes prometheus.Gauge
	maxDepth       prometheus.Gauge
	flaky          prometheus.Counter
	novelBytes     prometheus.Counter
}

// NewInstrumentedTree wraps tree, registering its gauges and counters
// against reg. Pass prometheus.DefaultRegisterer in production; tests
// should pass a fresh prometheus.NewRegistry() so repeated construction
// within one process (or test binary) doesn't collide on metric names.
func NewInstrumentedTree(tree *datatree.Tree, reg prometheus.Registerer) *InstrumentedTree {
	factory := promauto.With(reg)

	nodes := factory.NewGauge(prometheus.GaugeOpts{
		Name: "conjecture_nodes_total",
		Help: "number of nodes in the execution trie",
	})
	exhaustedNodes := factory.NewGauge(prometheus.GaugeOpts{
		Name: "conjecture_exhausted_nodes",
		Help: "number of fully exhausted nodes in the execution trie",
	})
	maxDepth := factory.NewGauge(prometheus.GaugeOpts{
		Name: "conjecture_max_depth",
		Help: "deepest path currently recorded in the execution trie",
	})
	flaky := factory.NewCounter(prometheus.CounterOpts{
		Name: "conjecture_flaky_total",
		Help: "number of recordings rejected as flaky",
	})
	novelBytes := factory.NewCounter(prometheus.CounterOpts{
		Name: "conjecture_novel_prefix_bytes_total",
		Help: "total bytes returned by GenerateNovelPrefix",
	})

	it := &InstrumentedTree{
		tree:           tree,
		nodes:          nodes,
		exhaustedNodes: exhaustedNodes,
		maxDepth:       maxDepth,
		flaky:          flaky,
		novelBytes:     novelBytes,
	}
	it.refresh()
	return it
}

func (it *InstrumentedTree) refresh() {
	stats := it.tree.Stats()
	it.nodes.Set(float64(stats.NodeCount))
	it.exhaustedNodes.Set(float64(stats.ExhaustedNodeCount))
	it.maxDepth.Set(float64(stats.MaxDepth))
}

// IsExhausted passes through to the wrapped tree.
func (it *InstrumentedTree) IsExhausted() bool {
	return it.tree.IsExhausted()
}

// NewObserver returns an instrumented recording observer. The
// underlying tree's gauges refresh each time the observer concludes a
// run, and the flaky counter increments on any rejected recording.
func (it *InstrumentedTree) NewObserver() *Observer {
	return &Observer{it: it, inner: it.tree.NewObserver()}
}

// Rewrite passes through to the wrapped tree.
func (it *InstrumentedTree) Rewrite(buf []byte) ([]byte, source.Status, bool) {
	return it.tree.Rewrite(buf)
}

// GenerateNovelPrefix passes through to the wrapped tree, counting the
// bytes of every prefix it returns.
func (it *InstrumentedTree) GenerateNovelPrefix(rng *rand.Rand) ([]byte, error) {
	prefix, err := it.tree.GenerateNovelPrefix(rng)
	if err != nil {
		return nil, err
	}
	it.novelBytes.Add(float64(len(prefix)))
	return prefix, nil
}

// Observer wraps a datatree.Observer, recording flakiness and
// refreshing the owning tree's shape gauges on conclusion.
type Observer struct {
	it    *InstrumentedTree
	inner *datatree.Observer
}

// OnDraw passes through to the wrapped observer, counting a Flaky
// rejection if one occurs.
func (o *Observer) OnDraw(nBits uint8, forced bool, value uint64) error {
	err := o.inner.OnDraw(nBits, forced, value)
	if err != nil {
		o.it.flaky.Inc()
	}
	return err
}

// OnConclude passes through to the wrapped observer, counting a Flaky
// rejection if one occurs and refreshing the tree's shape gauges
// either way.
func (o *Observer) OnConclude(status source.Status, origin any) error {
	err := o.inner.OnConclude(status, origin)
	if err != nil {
		o.it.flaky.Inc()
	}
	o.it.refresh()
	return err
}
