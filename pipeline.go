package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/benbjohnson/immutable"
	"github.com/fatih/color"

	"github.com/cs-au-dk/gocpa/analysis/algorithm"
	"github.com/cs-au-dk/gocpa/analysis/cfa"
	"github.com/cs-au-dk/gocpa/analysis/cpa"
	"github.com/cs-au-dk/gocpa/analysis/location"
	"github.com/cs-au-dk/gocpa/analysis/reached"
	"github.com/cs-au-dk/gocpa/pkgutil"
	"github.com/cs-au-dk/gocpa/utils"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
)

// pipeline is a wrapper around the analysis pipeline of a single function.
type pipeline struct {
	prog  *ssa.Program
	mains []*ssa.Package
	fun   *ssa.Function
	cfa   *cfa.CFA
}

// newPipeline builds the SSA representation of the loaded packages and the
// compressed CFA of the function with the given name.
func newPipeline(pkgs []*packages.Package, name string) (*pipeline, error) {
	log.Println("Building SSA...")
	prog, mains, err := pkgutil.BuildSSA(pkgs)
	if err != nil {
		return nil, err
	}
	if len(mains) == 0 {
		return nil, errors.New("no main packages detected")
	}

	fun, err := pkgutil.FindFunction(prog, mains, name)
	if err != nil {
		return nil, err
	}
	log.Println("Target function:", fun)

	c, err := cfa.FromFunction(fun)
	if err != nil {
		return nil, err
	}
	c.Compress()

	opts.Verbosef("CFA of %s has %d locations, %d of which are error locations\n",
		utils.SSAFunString(fun), len(c.Nodes()), len(c.ErrorNodes()))

	return &pipeline{
		prog:  prog,
		mains: mains,
		fun:   fun,
		cfa:   c,
	}, nil
}

// waitlistOrder translates the -waitlist option.
func waitlistOrder() reached.Order {
	switch {
	case opts.Waitlist().BFS():
		return reached.BFS
	case opts.Waitlist().Topological():
		return reached.Priority
	}
	return reached.DFS
}

// verdict is the answer of the reachability task.
type verdict int

const (
	TARGET_REACHED verdict = iota
	SAFE
	UNKNOWN
	INTERRUPTED
)

var verdictColor = struct {
	good, bad, unknown func(...interface{}) string
}{
	good: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiGreen, color.Bold).SprintFunc())(is...)
	},
	bad: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiRed, color.Bold).SprintFunc())(is...)
	},
	unknown: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgYellow, color.Bold).SprintFunc())(is...)
	},
}

func (v verdict) String() string {
	switch v {
	case TARGET_REACHED:
		return verdictColor.bad("TARGET REACHED")
	case SAFE:
		return verdictColor.good("SAFE")
	case UNKNOWN:
		return verdictColor.unknown("UNKNOWN")
	case INTERRUPTED:
		return verdictColor.unknown("INTERRUPTED")
	}
	return "verdict(?)"
}

// decide derives the verdict from the outcome of an engine run. A reached
// target is reported even if the run was interrupted afterwards. Without a
// target, the program is only safe if the run explored the whole state
// space soundly and precisely.
func decide(status cpa.AlgorithmStatus, targets int, waiting bool, err error) verdict {
	switch {
	case targets > 0:
		return TARGET_REACHED
	case errors.Is(err, algorithm.ErrInterrupted):
		return INTERRUPTED
	case waiting || !status.Sound() || !status.Precise():
		return UNKNOWN
	}
	return SAFE
}

// reachResult is the outcome of the reachability task.
type reachResult struct {
	fun     *ssa.Function
	verdict verdict
	status  cpa.AlgorithmStatus
	reached *reached.PartitionedReachedSet
	stats   *algorithm.Statistics

	// locations is the reached set as it was when the run ended, and total
	// is the number of locations of the CFA.
	locations *immutable.Map[cpa.AbstractState, cpa.Precision]
	total     int
}

// isReached checks whether the analysis reached a CFA location.
func (res *reachResult) isReached(n *cfa.Node) bool {
	_, found := res.locations.Get(location.StateOf(n))
	return found
}

// reach runs the location analysis on the CFA of the target function.
func (p *pipeline) reach(ctx context.Context) (*reachResult, error) {
	analysis := location.New(p.cfa, opts.StopAtTarget())

	r := reached.New(reached.Config{
		Order:    waitlistOrder(),
		Priority: analysis.Priority,
	})
	r.Add(analysis.InitialState(), analysis.InitialPrecision())

	var algOpts []algorithm.Option
	var stats *algorithm.Statistics
	if opts.Metrics() || opts.MetricsAddr() != "" {
		stats = algorithm.NewStatistics()
		algOpts = append(algOpts, algorithm.WithStatistics(stats))
	}
	if opts.LogAI() {
		algOpts = append(algOpts, algorithm.WithLogger(log.New(os.Stderr, "[cpa] ", log.Ltime)))
	}

	if addr := opts.MetricsAddr(); addr != "" {
		srv := serveMetrics(addr, stats)
		defer shutdownMetrics(srv)
	}

	log.Printf("Exploring %s with %s waitlist...", p.fun, waitlistOrder())
	start := time.Now()
	status, err := algorithm.New(analysis, algOpts...).Run(ctx, r)
	utils.Elapsed("Exploration", start)

	v := decide(status, len(r.Targets()), r.HasWaitingState(), err)
	if err != nil && v != INTERRUPTED && v != TARGET_REACHED {
		return nil, fmt.Errorf("analysis of %s failed: %w", p.fun, err)
	}
	if err != nil {
		log.Println(err)
	}

	return &reachResult{
		fun:     p.fun,
		verdict: v,
		status:  status,
		reached: r,
		stats:   stats,

		locations: r.Snapshot(),
		total:     len(p.cfa.Nodes()),
	}, nil
}

// report prints the verdict and the reached set.
func (res *reachResult) report(w io.Writer) {
	fmt.Fprintln(w, "Function:", utils.SSAFunString(res.fun))
	fmt.Fprintln(w, "Verdict:", res.verdict)
	fmt.Fprintln(w, "Status:", res.status)
	fmt.Fprintf(w, "Reached %d of %d locations\n", res.locations.Len(), res.total)
	fmt.Fprintln(w, res.reached)

	targets := res.reached.Targets()
	if len(targets) == 0 {
		return
	}
	fmt.Fprintln(w, "Error locations reached:")
	for _, t := range targets {
		n := t.(location.State).Node()
		fmt.Fprintf(w, "  %s [%s] at %s\n", n, n.Label(), n.Position())
	}
}
