package algorithm

import (
	"fmt"
	"io"
	"math/bits"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/cs-au-dk/gocpa/utils"
)

// phase identifies a timed part of the engine loop.
type phase int

const (
	phaseTotal phase = iota
	phasePop
	phaseForcedCovering
	phaseTransfer
	phasePrecision
	phaseMerge
	phaseStop
	phaseAdd
	numPhases
)

var phaseNames = [numPhases]string{
	"total",
	"pop",
	"forced covering",
	"transfer",
	"precision adjustment",
	"merge",
	"stop",
	"add",
}

func (p phase) String() string {
	return phaseNames[p]
}

// histBuckets is the number of waitlist histogram buckets. Bucket i counts
// iterations that started with a waitlist of at most 2^i states; the last
// bucket is unbounded.
const histBuckets = 16

// Counters is a snapshot of the engine statistics.
type Counters struct {
	Iterations      uint64
	MaxWaitlistSize int
	// WaitlistSizeSum is the sum of the waitlist sizes observed at the
	// start of every iteration.
	WaitlistSizeSum   uint64
	WaitlistHistogram [histBuckets]uint64

	Successors    uint64
	MaxSuccessors int

	MergeOperations uint64
	MergedStates    uint64
	StopOperations  uint64
	StoppedStates   uint64
	Breaks          uint64

	ForcedCoveringAttempts  uint64
	ForcedCoveringSuccesses uint64

	Requeues uint64

	Times [numPhases]time.Duration
}

// AvgWaitlistSize is the average waitlist size at the start of an iteration.
func (c Counters) AvgWaitlistSize() float64 {
	if c.Iterations == 0 {
		return 0
	}
	return float64(c.WaitlistSizeSum) / float64(c.Iterations)
}

// Time returns the accumulated time spent in the named phase.
func (c Counters) Time(name string) time.Duration {
	for p, n := range phaseNames {
		if n == name {
			return c.Times[p]
		}
	}
	return 0
}

// Statistics accumulates engine counters across runs. All methods accept
// a nil receiver, which disables collection. Statistics may be read
// concurrently with a running engine.
type Statistics struct {
	mu sync.Mutex
	c  Counters
}

// NewStatistics creates an empty statistics object.
func NewStatistics() *Statistics {
	return &Statistics{}
}

// Enabled checks whether statistics are collected.
func (s *Statistics) Enabled() bool {
	return s != nil
}

// Counters returns a snapshot of the current counters.
func (s *Statistics) Counters() Counters {
	if s == nil {
		return Counters{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c
}

func (s *Statistics) update(do func(*Counters)) {
	if s == nil {
		return
	}
	s.mu.Lock()
	do(&s.c)
	s.mu.Unlock()
}

// timer starts timing a phase. The returned function stops the timer.
func (s *Statistics) timer(p phase) func() {
	if s == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		d := time.Since(start)
		s.update(func(c *Counters) { c.Times[p] += d })
	}
}

func (s *Statistics) iteration(waitlistSize int) {
	s.update(func(c *Counters) {
		c.Iterations++
		c.WaitlistSizeSum += uint64(waitlistSize)
		if waitlistSize > c.MaxWaitlistSize {
			c.MaxWaitlistSize = waitlistSize
		}
		c.WaitlistHistogram[histBucket(waitlistSize)]++
	})
}

// histBucket returns the smallest i with size ≤ 2^i, capped at the last bucket.
func histBucket(size int) int {
	if size <= 1 {
		return 0
	}
	b := bits.Len(uint(size - 1))
	if b >= histBuckets {
		return histBuckets - 1
	}
	return b
}

func (s *Statistics) successors(n int) {
	s.update(func(c *Counters) {
		c.Successors += uint64(n)
		if n > c.MaxSuccessors {
			c.MaxSuccessors = n
		}
	})
}

func (s *Statistics) merge(merged bool) {
	s.update(func(c *Counters) {
		c.MergeOperations++
		if merged {
			c.MergedStates++
		}
	})
}

func (s *Statistics) stop(stopped bool) {
	s.update(func(c *Counters) {
		c.StopOperations++
		if stopped {
			c.StoppedStates++
		}
	})
}

func (s *Statistics) forcedCovering(covered bool) {
	s.update(func(c *Counters) {
		c.ForcedCoveringAttempts++
		if covered {
			c.ForcedCoveringSuccesses++
		}
	})
}

func (s *Statistics) brk() {
	s.update(func(c *Counters) { c.Breaks++ })
}

func (s *Statistics) requeue() {
	s.update(func(c *Counters) { c.Requeues++ })
}

var colorize = struct {
	Header func(...interface{}) string
	Label  func(...interface{}) string
	Value  func(...interface{}) string
}{
	Header: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiBlue, color.Bold).SprintFunc())(is...)
	},
	Label: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiWhite).SprintFunc())(is...)
	},
	Value: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgCyan).SprintFunc())(is...)
	},
}

// Print renders a report of the statistics.
func (s *Statistics) Print(w io.Writer) {
	if s == nil {
		return
	}
	c := s.Counters()

	line := func(label string, value any) {
		fmt.Fprintf(w, "%s %s\n", colorize.Label(fmt.Sprintf("%-40s", label+":")), colorize.Value(value))
	}

	fmt.Fprintln(w, colorize.Header("CPA algorithm statistics"))
	line("Number of iterations", c.Iterations)
	line("Max size of waitlist", c.MaxWaitlistSize)
	line("Average size of waitlist", fmt.Sprintf("%.2f", c.AvgWaitlistSize()))
	line("Number of computed successors", c.Successors)
	line("Max successors for one state", c.MaxSuccessors)
	line("Number of merge operations", c.MergeOperations)
	line("Number of merged states", c.MergedStates)
	line("Number of stop operations", c.StopOperations)
	line("Number of stopped states", c.StoppedStates)
	line("Number of breaks", c.Breaks)
	line("Forced covering attempts", c.ForcedCoveringAttempts)
	line("Forced covering successes", c.ForcedCoveringSuccesses)
	line("Number of re-queued states", c.Requeues)

	fmt.Fprintln(w, colorize.Header("Waitlist size histogram"))
	for i, n := range c.WaitlistHistogram {
		if n == 0 {
			continue
		}
		bound := fmt.Sprintf("≤ %d", 1<<i)
		if i == histBuckets-1 {
			bound = fmt.Sprintf("> %d", 1<<(i-1))
		}
		line("  "+bound, n)
	}

	fmt.Fprintln(w, colorize.Header("Time"))
	for p := phaseTotal; p < numPhases; p++ {
		line("  "+p.String(), c.Times[p].Round(time.Microsecond))
	}
}
