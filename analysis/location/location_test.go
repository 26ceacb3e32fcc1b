package location

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cs-au-dk/gocpa/analysis/algorithm"
	"github.com/cs-au-dk/gocpa/analysis/cfa"
	"github.com/cs-au-dk/gocpa/analysis/cpa"
	"github.com/cs-au-dk/gocpa/analysis/reached"
	tu "github.com/cs-au-dk/gocpa/testutil"
)

func loadCFA(t *testing.T, pkg, fun string) *cfa.CFA {
	t.Helper()
	res := tu.LoadExamplePackage(t, "../..", pkg)
	c, err := cfa.FromFunction(res.Func(t, fun))
	require.NoError(t, err)
	return c
}

func run(t *testing.T, a Analysis, order reached.Order) (*reached.PartitionedReachedSet, cpa.AlgorithmStatus) {
	t.Helper()
	r := reached.New(reached.Config{Order: order, Priority: a.Priority})
	r.Add(a.InitialState(), a.InitialPrecision())

	status, err := algorithm.New(a).Run(context.Background(), r)
	require.NoError(t, err)
	return r, status
}

func TestReachability(t *testing.T) {
	tests := []struct {
		pkg, fun string
		target   bool
	}{
		{"reach/unguarded-panic", "main", true},
		// Branch conditions are not tracked by the location analysis.
		{"reach/guarded-panic", "main", true},
		{"reach/no-panic", "fib", false},
		{"reach/no-panic", "main", false},
	}

	for _, test := range tests {
		t.Run(test.pkg+"."+test.fun, func(t *testing.T) {
			c := loadCFA(t, test.pkg, test.fun)

			for _, order := range []reached.Order{reached.DFS, reached.BFS, reached.Priority} {
				r, status := run(t, New(c, false), order)
				assert.Equal(t, cpa.SOUND_AND_PRECISE, status)
				assert.Equal(t, test.target, len(r.Targets()) > 0, "order %s", order)

				// Every location reachable from the entry is reached.
				reachable := 0
				for _, comp := range c.SCC().Components {
					reachable += len(comp)
				}
				assert.Equal(t, reachable, r.Size(), "order %s", order)
			}
		})
	}
}

func TestStopAtTarget(t *testing.T) {
	c := loadCFA(t, "reach/unguarded-panic", "main")
	a := New(c, true)

	r, status := run(t, a, reached.BFS)
	assert.Equal(t, cpa.SOUND_AND_PRECISE, status)
	require.Len(t, r.Targets(), 1)
	assert.True(t, r.Targets()[0].(State).Node().IsError())
	assert.Less(t, r.Size(), len(c.Nodes()), "exploration ends at the first error location")
}

func TestPriorityExploresInTopologicalOrder(t *testing.T) {
	c := loadCFA(t, "reach/no-panic", "fib")
	a := New(c, false)

	r := reached.New(reached.Config{Order: reached.Priority, Priority: a.Priority})
	r.Add(a.InitialState(), a.InitialPrecision())

	var popped []int
	transfer := a.TransferRelation()
	for r.HasWaitingState() {
		s, p := r.PopFromWaitlist()
		popped = append(popped, a.Priority(s))
		succs, err := transfer.Successors(context.Background(), s, p)
		require.NoError(t, err)
		for _, succ := range succs {
			if !r.Contains(succ) {
				r.Add(succ, p)
			}
		}
	}

	assert.IsNonDecreasing(t, popped)
}

func TestStates(t *testing.T) {
	c := loadCFA(t, "reach/guarded-panic", "main")
	c.Compress()

	for _, n := range c.Nodes() {
		s := StateOf(n)
		assert.True(t, s.Equal(StateOf(n)))
		assert.Equal(t, s.Hash(), StateOf(n).Hash())
		assert.Equal(t, c.PartitionOf(n), s.Partition())
		assert.Equal(t, n.IsError(), s.IsTarget())
		assert.Same(t, n, s.Node())

		for _, succ := range n.Successors() {
			if succ != n {
				assert.False(t, s.Equal(StateOf(succ)))
			}
		}
	}
	assert.False(t, StateOf(c.Entry()).Equal(tu.Count(0)))
}

func TestAnalysisOperators(t *testing.T) {
	c := loadCFA(t, "reach/no-panic", "fib")

	a := New(c, false)
	assert.Same(t, c, a.CFA())
	assert.Equal(t, StateOf(c.Entry()), a.InitialState())
	assert.Equal(t, cpa.MergeSep, a.MergeOperator())
	assert.Equal(t, cpa.StopSep, a.StopOperator())
	assert.Equal(t, cpa.StaticPrecisionAdjustment, a.PrecisionAdjustment())
	assert.Equal(t, 0, a.Priority(a.InitialState()))

	assert.Equal(t, cpa.BreakOnTargets{}, New(c, true).PrecisionAdjustment())
}

func TestSuccessorsForEdge(t *testing.T) {
	c := loadCFA(t, "reach/guarded-panic", "main")
	transfer := New(c, false).TransferRelation().(cpa.EdgeTransferRelation)
	ctx := context.Background()

	for _, n := range c.Nodes() {
		s := StateOf(n)
		for _, succ := range n.Successors() {
			res, err := transfer.SuccessorsForEdge(ctx, s, cpa.NoPrecision{}, succ)
			require.NoError(t, err)
			assert.Equal(t, []cpa.AbstractState{StateOf(succ)}, res)
		}
	}

	entry := StateOf(c.Entry())
	res, err := transfer.SuccessorsForEdge(ctx, entry, cpa.NoPrecision{}, c.Entry())
	require.NoError(t, err)
	assert.Empty(t, res, "the entry has no self loop")

	_, err = transfer.SuccessorsForEdge(ctx, entry, cpa.NoPrecision{}, 3)
	assert.ErrorIs(t, err, ErrNotAnEdge)
}
