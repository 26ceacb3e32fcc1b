package algorithm

import (
	"context"
	"fmt"
	"log"

	"github.com/cs-au-dk/gocpa/analysis/cpa"
)

// CPAAlgorithm is the worklist fixpoint engine. It repeatedly pops a state,
// computes its successors and merges, stops or adds each of them, until the
// waitlist is empty or a precision adjustment signals BREAK.
type CPAAlgorithm struct {
	transfer       cpa.TransferRelation
	merge          cpa.MergeOperator
	stop           cpa.StopOperator
	adjust         cpa.PrecisionAdjustment
	forcedCovering cpa.ForcedCovering

	trivialMerge   bool
	impreciseMerge bool
	mergeCleanup   cpa.OnMergeCleanup

	stats  *Statistics
	logger *log.Logger
}

var _ Algorithm = (*CPAAlgorithm)(nil)

// Option configures a CPAAlgorithm.
type Option func(*CPAAlgorithm)

// WithForcedCovering lets the strategy try to cover every popped state
// before it is expanded.
func WithForcedCovering(fc cpa.ForcedCovering) Option {
	return func(a *CPAAlgorithm) {
		a.forcedCovering = fc
	}
}

// WithStatistics records engine statistics in stats.
func WithStatistics(stats *Statistics) Option {
	return func(a *CPAAlgorithm) {
		a.stats = stats
	}
}

// WithLogger logs engine events (pops, merges, stops and breaks).
func WithLogger(logger *log.Logger) Option {
	return func(a *CPAAlgorithm) {
		a.logger = logger
	}
}

// New creates an engine for the operators of the given analysis.
func New(analysis cpa.ConfigurableProgramAnalysis, opts ...Option) *CPAAlgorithm {
	a := &CPAAlgorithm{
		transfer: analysis.TransferRelation(),
		merge:    analysis.MergeOperator(),
		stop:     analysis.StopOperator(),
		adjust:   analysis.PrecisionAdjustment(),
	}

	if tm, ok := a.merge.(cpa.TrivialMerge); ok {
		a.trivialMerge = tm.IsTrivial()
	}
	if im, ok := a.merge.(cpa.ImpreciseMerge); ok {
		a.impreciseMerge = im.Imprecise()
	}
	a.mergeCleanup, _ = a.merge.(cpa.OnMergeCleanup)

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Statistics returns the statistics the engine records into, if any.
func (a *CPAAlgorithm) Statistics() *Statistics {
	return a.stats
}

func (a *CPAAlgorithm) logf(format string, args ...any) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}

// Run explores the reached set until its waitlist is empty, or until a
// successor that is not covered by the reached set signals BREAK.
//
// If the run fails or is cancelled while a popped state is being processed,
// that state is put back on the waitlist before the error is returned, so a
// later run on the same reached set loses no states.
func (a *CPAAlgorithm) Run(ctx context.Context, reached cpa.ReachedSet) (cpa.AlgorithmStatus, error) {
	defer a.stats.timer(phaseTotal)()

	status := cpa.SOUND_AND_PRECISE
	for reached.HasWaitingState() {
		if err := interrupted(ctx); err != nil {
			return status, err
		}

		a.stats.iteration(reached.WaitlistSize())

		done := a.stats.timer(phasePop)
		state, prec := reached.PopFromWaitlist()
		done()
		a.logf("Popped %s", state)

		res, brk, err := a.handleState(ctx, state, prec, reached)
		status = status.Update(res)
		if err != nil || brk {
			return status, err
		}
	}

	return status, nil
}

// handleState processes one popped state. It reports whether exploration
// must end because of a BREAK.
func (a *CPAAlgorithm) handleState(
	ctx context.Context,
	state cpa.AbstractState,
	prec cpa.Precision,
	reached cpa.ReachedSet,
) (status cpa.AlgorithmStatus, brk bool, err error) {
	status = cpa.SOUND_AND_PRECISE

	defer func() {
		// A merge may have replaced the popped state, in which case the
		// replacement is already waiting.
		if err != nil && reached.Contains(state) {
			reached.ReAddToWaitlist(state)
			a.stats.requeue()
		}
	}()

	if a.forcedCovering != nil {
		done := a.stats.timer(phaseForcedCovering)
		covered, err := a.forcedCovering.TryCover(ctx, state, prec, reached)
		done()
		if err != nil {
			return status, false, operatorError(ctx, err, "forced covering of %s", state)
		}

		a.stats.forcedCovering(covered)
		if covered {
			a.logf("%s is covered", state)
			if uc, ok := a.forcedCovering.(cpa.UnsoundCovering); ok && uc.Unsound() {
				status = status.WithSound(false)
			}
			return status, false, nil
		}
	}

	done := a.stats.timer(phaseTransfer)
	successors, err := a.transfer.Successors(ctx, state, prec)
	done()
	if err != nil {
		return status, false, operatorError(ctx, err, "computing successors of %s", state)
	}
	if err = interrupted(ctx); err != nil {
		return status, false, err
	}
	a.stats.successors(len(successors))

	identity := func(s cpa.AbstractState) cpa.AbstractState { return s }

	for i, successor := range successors {
		if err = interrupted(ctx); err != nil {
			return status, false, err
		}

		done := a.stats.timer(phasePrecision)
		res, ok, err := a.adjust.Adjust(successor, prec, reached, identity, successor)
		done()
		if err != nil {
			return status, false, operatorError(ctx, err, "adjusting precision of %s", successor)
		}
		if err = interrupted(ctx); err != nil {
			return status, false, err
		}
		if !ok {
			continue
		}

		successor, succPrec := res.State, res.Precision

		if res.Action == cpa.BREAK {
			covered, err := a.stopCheck(successor, reached.Reached(successor), succPrec)
			if err != nil {
				return status, false, err
			}
			if covered {
				a.logf("Ignoring BREAK for covered %s", successor)
				continue
			}

			a.logf("BREAK at %s", successor)
			a.stats.brk()
			done := a.stats.timer(phaseAdd)
			reached.AddToReached(successor, succPrec)
			// The remaining successors of the state are recomputed on the
			// next run, unless a merge has replaced the state.
			if i < len(successors)-1 && reached.Contains(state) {
				reached.ReAddToWaitlist(state)
				a.stats.requeue()
			}
			done()
			return status, true, nil
		}

		candidates := reached.Reached(successor)
		if !a.trivialMerge && len(candidates) > 0 {
			merged, err := a.mergeInto(successor, candidates, succPrec, reached)
			if err != nil {
				return status, false, err
			}
			if merged {
				if a.impreciseMerge {
					status = status.WithPrecise(false)
				}
				candidates = reached.Reached(successor)
			}
		}

		covered, err := a.stopCheck(successor, candidates, succPrec)
		if err != nil {
			return status, false, err
		}
		if covered {
			continue
		}

		done = a.stats.timer(phaseAdd)
		reached.Add(successor, succPrec)
		done()
	}

	return status, false, nil
}

// mergeInto merges the successor with every candidate. Candidates that
// change are replaced after all merges are computed. It reports whether any
// candidate was replaced.
func (a *CPAAlgorithm) mergeInto(
	successor cpa.AbstractState,
	candidates []cpa.AbstractState,
	prec cpa.Precision,
	reached cpa.ReachedSet,
) (bool, error) {
	defer a.stats.timer(phaseMerge)()

	var (
		toRemove []cpa.AbstractState
		toAdd    []cpa.StatePrecision
	)
	for _, r := range candidates {
		merged, err := a.merge.Merge(successor, r, prec)
		if err != nil {
			return false, fmt.Errorf("merging %s into %s: %w", successor, r, err)
		}

		changed := !merged.Equal(r)
		a.stats.merge(changed)
		if changed {
			a.logf("Merged %s into %s, yielding %s", successor, r, merged)
			toRemove = append(toRemove, r)
			toAdd = append(toAdd, cpa.StatePrecision{State: merged, Precision: prec})
		}
	}

	if len(toRemove) == 0 {
		return false, nil
	}

	reached.RemoveAll(toRemove)
	reached.AddAll(toAdd)
	if a.mergeCleanup != nil {
		a.mergeCleanup.CleanUp(reached)
	}
	return true, nil
}

func (a *CPAAlgorithm) stopCheck(
	state cpa.AbstractState,
	candidates []cpa.AbstractState,
	prec cpa.Precision,
) (bool, error) {
	done := a.stats.timer(phaseStop)
	covered, err := a.stop.Stop(state, candidates, prec)
	done()
	if err != nil {
		return false, fmt.Errorf("stop check of %s: %w", state, err)
	}

	a.stats.stop(covered)
	if covered {
		a.logf("Stopped at %s", state)
	}
	return covered, nil
}
