package cpa

import (
	"fmt"
)

// Widenable states support widening, an upper bound operator that
// guarantees termination of ascending chains at the cost of precision.
type Widenable interface {
	AbstractState
	Widen(AbstractState) AbstractState
}

type (
	mergeSep   struct{}
	mergeJoin  struct{}
	mergeWiden struct{}
)

var (
	// MergeSep never combines states.
	MergeSep MergeOperator = mergeSep{}
	// MergeJoin replaces the reached state with the join of both states.
	MergeJoin MergeOperator = mergeJoin{}
	// MergeWiden replaces the reached state with reached ∇ state.
	MergeWiden MergeOperator = mergeWiden{}
)

func (mergeSep) Merge(_, reached AbstractState, _ Precision) (AbstractState, error) {
	return reached, nil
}

func (mergeSep) IsTrivial() bool {
	return true
}

func (mergeJoin) Merge(state, reached AbstractState, _ Precision) (AbstractState, error) {
	r, ok := reached.(Joinable)
	if !ok {
		return nil, fmt.Errorf("merge-join: %s (%T) is not joinable", reached, reached)
	}
	return r.Join(state), nil
}

func (mergeWiden) Merge(state, reached AbstractState, _ Precision) (AbstractState, error) {
	r, ok := reached.(Widenable)
	if !ok {
		return nil, fmt.Errorf("merge-widen: %s (%T) does not support widening", reached, reached)
	}
	return r.Widen(state), nil
}

func (mergeWiden) Imprecise() bool {
	return true
}

// covers checks s ⊑ r, falling back to equality for states without an ordering.
func covers(r, s AbstractState) bool {
	if c, ok := s.(Coverable); ok {
		return c.LessOrEqual(r)
	}
	return s.Equal(r)
}

type (
	stopSep   struct{}
	stopJoin  struct{}
	stopNever struct{}
)

var (
	// StopSep stops if any single candidate covers the state.
	StopSep StopOperator = stopSep{}
	// StopJoin stops if the join of all candidates covers the state.
	StopJoin StopOperator = stopJoin{}
	// StopNever always explores the state.
	StopNever StopOperator = stopNever{}
)

func (stopSep) Stop(state AbstractState, candidates []AbstractState, _ Precision) (bool, error) {
	for _, r := range candidates {
		if covers(r, state) {
			return true, nil
		}
	}
	return false, nil
}

func (stopJoin) Stop(state AbstractState, candidates []AbstractState, _ Precision) (bool, error) {
	if len(candidates) == 0 {
		return false, nil
	}

	joined := candidates[0]
	for _, r := range candidates[1:] {
		j, ok := joined.(Joinable)
		if !ok {
			return false, fmt.Errorf("stop-join: %s (%T) is not joinable", joined, joined)
		}
		joined = j.Join(r)
	}
	return covers(joined, state), nil
}

func (stopNever) Stop(AbstractState, []AbstractState, Precision) (bool, error) {
	return false, nil
}

type staticPrecisionAdjustment struct{}

// StaticPrecisionAdjustment keeps every successor and its precision as is.
var StaticPrecisionAdjustment PrecisionAdjustment = staticPrecisionAdjustment{}

func (staticPrecisionAdjustment) Adjust(
	state AbstractState,
	prec Precision,
	_ UnmodifiableReachedSet,
	_ func(AbstractState) AbstractState,
	_ AbstractState,
) (PrecisionAdjustmentResult, bool, error) {
	return Continue(state, prec), true, nil
}

// BreakOnTargets signals BREAK for every adjusted successor that is a
// target state. A nil Inner adjustment behaves like StaticPrecisionAdjustment.
type BreakOnTargets struct {
	Inner PrecisionAdjustment
}

func (b BreakOnTargets) Adjust(
	state AbstractState,
	prec Precision,
	reached UnmodifiableReachedSet,
	projection func(AbstractState) AbstractState,
	fullState AbstractState,
) (PrecisionAdjustmentResult, bool, error) {
	inner := b.Inner
	if inner == nil {
		inner = StaticPrecisionAdjustment
	}

	res, ok, err := inner.Adjust(state, prec, reached, projection, fullState)
	if err != nil || !ok {
		return res, ok, err
	}
	if IsTarget(res.State) {
		res.Action = BREAK
	}
	return res, true, nil
}

// NoPrecision is the precision of domains without a tunable abstraction.
type NoPrecision struct{}

func (NoPrecision) String() string {
	return "∅"
}
