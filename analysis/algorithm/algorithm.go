package algorithm

import (
	"context"
	"errors"
	"fmt"

	"github.com/cs-au-dk/gocpa/analysis/cpa"
)

// Algorithm explores a reached set. Run may be invoked repeatedly on the
// same reached set; each invocation resumes from its waitlist.
type Algorithm interface {
	Run(ctx context.Context, reached cpa.ReachedSet) (cpa.AlgorithmStatus, error)
}

// ErrInterrupted is returned, wrapped with the context error, when a run is
// cancelled.
var ErrInterrupted = errors.New("analysis interrupted")

// interrupted reports the cancellation of ctx as an error.
func interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInterrupted, err)
	}
	return nil
}

// operatorError wraps an error returned by an operator. Once the context is
// done, the failure is reported as an interruption instead, since operators
// that observe the context give up with its error.
func operatorError(ctx context.Context, err error, format string, state cpa.AbstractState) error {
	if ierr := interrupted(ctx); ierr != nil {
		return ierr
	}
	return fmt.Errorf(format+": %w", state, err)
}
