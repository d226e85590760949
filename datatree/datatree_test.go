package datatree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-conjecture/datatree/source"
)

type draw struct {
	bits   uint8
	value  uint64
	forced bool
}

func record(t *testing.T, tree *Tree, draws []draw, status source.Status, origin any) error {
	t.Helper()
	obs := tree.NewObserver()
	for _, d := range draws {
		if err := obs.OnDraw(d.bits, d.forced, d.value); err != nil {
			return err
		}
	}
	return obs.OnConclude(status, origin)
}

// S1: two runs of two 8-bit draws each.
func TestScenarioTwoRunsNotExhausted(t *testing.T) {
	tree := New()
	require.NoError(t, record(t, tree, []draw{{8, 0, false}, {8, 0, false}}, source.StatusValid, nil))
	require.NoError(t, record(t, tree, []draw{{8, 0, false}, {8, 1, false}}, source.StatusValid, nil))

	assert.False(t, tree.IsExhausted())

	_, status, known := tree.Rewrite([]byte{0, 0})
	assert.True(t, known)
	assert.Equal(t, source.StatusValid, status)

	_, status, known = tree.Rewrite([]byte{0, 1})
	assert.True(t, known)
	assert.Equal(t, source.StatusValid, status)

	_, _, known = tree.Rewrite([]byte{0, 2})
	assert.False(t, known)
}

// S2: a single bit draw, both values recorded.
func TestScenarioSingleBitBothValuesExhausted(t *testing.T) {
	tree := New()
	require.NoError(t, record(t, tree, []draw{{1, 0, false}}, source.StatusValid, nil))
	require.NoError(t, record(t, tree, []draw{{1, 1, false}}, source.StatusValid, nil))

	assert.True(t, tree.IsExhausted())
}

// S3: draw one bit; if 1, draw another.
func TestScenarioNestedBranchExhausted(t *testing.T) {
	tree := New()
	require.NoError(t, record(t, tree, []draw{{1, 1, false}, {1, 0, false}}, source.StatusValid, nil))
	require.NoError(t, record(t, tree, []draw{{1, 1, false}, {1, 1, false}}, source.StatusValid, nil))
	require.NoError(t, record(t, tree, []draw{{1, 0, false}}, source.StatusValid, nil))

	assert.True(t, tree.IsExhausted())
}

// S4: ten 1-bit draws, all forced to 0, concluding INTERESTING.
func TestScenarioAllForcedConcludesInteresting(t *testing.T) {
	tree := New()
	draws := make([]draw, 10)
	for i := range draws {
		draws[i] = draw{bits: 1, value: 0, forced: true}
	}
	require.NoError(t, record(t, tree, draws, source.StatusInteresting, "bug"))

	root := tree.root
	require.Equal(t, 10, len(root.bits))
	require.Equal(t, 10, len(root.values))
	require.Equal(t, transitionConclusion, root.transition.kind)
	assert.Equal(t, source.StatusInteresting, root.transition.conclusion.Status)
	assert.Equal(t, "bug", root.transition.conclusion.Origin)
	require.NotNil(t, root.forced)
	assert.EqualValues(t, 10, root.forced.Count())
	for i := 0; i < 10; i++ {
		assert.True(t, root.isForced(i), "index %d should be forced", i)
	}
}

// S5: [0,0,2] then [0,1,3] with layout draw(1); draw(1); draw(4).
func TestScenarioSplitMidChain(t *testing.T) {
	tree := New()
	require.NoError(t, record(t, tree, []draw{{1, 0, false}, {1, 0, false}, {4, 2, false}}, source.StatusValid, nil))
	require.NoError(t, record(t, tree, []draw{{1, 0, false}, {1, 1, false}, {4, 3, false}}, source.StatusValid, nil))

	root := tree.root
	assert.Equal(t, []uint8{1}, root.bits)
	assert.Equal(t, []uint64{0}, root.values)
	require.Equal(t, transitionBranch, root.transition.kind)
	assert.EqualValues(t, 1, root.transition.branchWidth)

	child0, ok := root.transition.getChild(0)
	require.True(t, ok)
	assert.Equal(t, []uint64{2}, child0.values)

	child1, ok := root.transition.getChild(1)
	require.True(t, ok)
	assert.Equal(t, []uint64{3}, child1.values)
}

// S6: [0,0] and [1,0] where the second draw is forced to 0.
func TestScenarioForcedPropagatesThroughSplit(t *testing.T) {
	tree := New()
	require.NoError(t, record(t, tree, []draw{{8, 0, false}, {8, 0, true}}, source.StatusValid, nil))
	require.NoError(t, record(t, tree, []draw{{8, 1, false}, {8, 0, true}}, source.StatusValid, nil))

	root := tree.root
	require.Equal(t, transitionBranch, root.transition.kind)

	child0, ok := root.transition.getChild(0)
	require.True(t, ok)
	require.NotNil(t, child0.forced)
	assert.True(t, child0.isForced(0))

	child1, ok := root.transition.getChild(1)
	require.True(t, ok)
	require.NotNil(t, child1.forced)
	assert.True(t, child1.isForced(0))
}

// S7: replaying with a different value at a position that was
// previously forced signals inconsistent generation.
func TestScenarioFlakyOnForcedMismatch(t *testing.T) {
	tree := New()
	require.NoError(t, record(t, tree, []draw{{8, 5, true}}, source.StatusValid, nil))

	err := record(t, tree, []draw{{8, 6, false}}, source.StatusValid, nil)
	require.Error(t, err)
	var flaky *FlakyError
	require.ErrorAs(t, err, &flaky)
	assert.True(t, flaky.IsInconsistentGeneration())
}

func TestFlatnessSingleExampleNoBranch(t *testing.T) {
	tree := New()
	require.NoError(t, record(t, tree, []draw{{8, 1, false}, {8, 2, false}, {8, 3, false}}, source.StatusValid, nil))

	root := tree.root
	assert.Equal(t, []uint64{1, 2, 3}, root.values)
	assert.Equal(t, transitionConclusion, root.transition.kind)
}

func TestFlakyOnConflictingConclusion(t *testing.T) {
	tree := New()
	require.NoError(t, record(t, tree, []draw{{8, 9, true}}, source.StatusValid, nil))

	err := record(t, tree, []draw{{8, 9, true}}, source.StatusInteresting, "boom")
	require.Error(t, err)
	var flaky *FlakyError
	require.ErrorAs(t, err, &flaky)
	assert.True(t, flaky.IsInconsistentResults())
}

func TestDrawPastConclusionIsFlaky(t *testing.T) {
	tree := New()
	require.NoError(t, record(t, tree, []draw{{8, 1, false}}, source.StatusValid, nil))

	obs := tree.NewObserver()
	err := obs.OnDraw(8, false, 1)
	require.NoError(t, err)
	err = obs.OnDraw(8, false, 2)
	require.Error(t, err)
	var flaky *FlakyError
	require.ErrorAs(t, err, &flaky)
	assert.True(t, flaky.IsInconsistentGeneration())
}

func TestOverrunIsNeverRecorded(t *testing.T) {
	tree := New()
	obs := tree.NewObserver()
	require.NoError(t, obs.OnConclude(source.StatusOverrun, nil))
	assert.Equal(t, transitionUnknown, tree.root.transition.kind)
}

func TestGenerateNovelPrefixPrecondition(t *testing.T) {
	tree := New()
	require.NoError(t, record(t, tree, []draw{{1, 0, false}}, source.StatusValid, nil))
	require.NoError(t, record(t, tree, []draw{{1, 1, false}}, source.StatusValid, nil))
	require.True(t, tree.IsExhausted())

	_, err := tree.GenerateNovelPrefix(nil)
	require.Error(t, err)
}
