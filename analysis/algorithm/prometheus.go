package algorithm

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gocpa"

// statsCollector exposes engine statistics to Prometheus. Values are read
// from a snapshot at scrape time.
type statsCollector struct {
	stats *Statistics

	counters  []counterDesc
	maxWait   *prometheus.Desc
	phases    *prometheus.Desc
	waitlists *prometheus.Desc
}

type counterDesc struct {
	desc  *prometheus.Desc
	value func(Counters) float64
}

func newCounterDesc(name, help string, value func(Counters) uint64) counterDesc {
	return counterDesc{
		desc: prometheus.NewDesc(prometheus.BuildFQName(namespace, "engine", name), help, nil, nil),
		value: func(c Counters) float64 {
			return float64(value(c))
		},
	}
}

// Collector returns a Prometheus collector for the statistics.
func (s *Statistics) Collector() prometheus.Collector {
	return &statsCollector{
		stats: s,
		counters: []counterDesc{
			newCounterDesc("iterations_total", "Number of processed waitlist states.",
				func(c Counters) uint64 { return c.Iterations }),
			newCounterDesc("successors_total", "Number of computed successors.",
				func(c Counters) uint64 { return c.Successors }),
			newCounterDesc("merges_total", "Number of merge operations.",
				func(c Counters) uint64 { return c.MergeOperations }),
			newCounterDesc("merged_states_total", "Number of reached states replaced by a merge.",
				func(c Counters) uint64 { return c.MergedStates }),
			newCounterDesc("stops_total", "Number of stop operations.",
				func(c Counters) uint64 { return c.StopOperations }),
			newCounterDesc("stopped_states_total", "Number of successors found covered.",
				func(c Counters) uint64 { return c.StoppedStates }),
			newCounterDesc("breaks_total", "Number of runs ended by a BREAK action.",
				func(c Counters) uint64 { return c.Breaks }),
			newCounterDesc("forced_covering_attempts_total", "Number of forced covering attempts.",
				func(c Counters) uint64 { return c.ForcedCoveringAttempts }),
			newCounterDesc("forced_covering_successes_total", "Number of states covered by forced covering.",
				func(c Counters) uint64 { return c.ForcedCoveringSuccesses }),
			newCounterDesc("requeues_total", "Number of states put back on the waitlist.",
				func(c Counters) uint64 { return c.Requeues }),
		},
		maxWait: prometheus.NewDesc(prometheus.BuildFQName(namespace, "engine", "waitlist_max_size"),
			"Largest observed waitlist size.", nil, nil),
		phases: prometheus.NewDesc(prometheus.BuildFQName(namespace, "engine", "phase_seconds_total"),
			"Time spent per phase of the engine loop.", []string{"phase"}, nil),
		waitlists: prometheus.NewDesc(prometheus.BuildFQName(namespace, "engine", "waitlist_size"),
			"Waitlist size at the start of each iteration.", nil, nil),
	}
}

func (c *statsCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, cd := range c.counters {
		ch <- cd.desc
	}
	ch <- c.maxWait
	ch <- c.phases
	ch <- c.waitlists
}

func (c *statsCollector) Collect(ch chan<- prometheus.Metric) {
	snap := c.stats.Counters()

	for _, cd := range c.counters {
		ch <- prometheus.MustNewConstMetric(cd.desc, prometheus.CounterValue, cd.value(snap))
	}
	ch <- prometheus.MustNewConstMetric(c.maxWait, prometheus.GaugeValue, float64(snap.MaxWaitlistSize))
	for p := phaseTotal; p < numPhases; p++ {
		ch <- prometheus.MustNewConstMetric(c.phases, prometheus.CounterValue, snap.Times[p].Seconds(), p.String())
	}

	buckets := make(map[float64]uint64, histBuckets-1)
	var cumulative uint64
	for i := 0; i < histBuckets-1; i++ {
		cumulative += snap.WaitlistHistogram[i]
		buckets[float64(uint(1)<<i)] = cumulative
	}
	ch <- prometheus.MustNewConstHistogram(c.waitlists, snap.Iterations, float64(snap.WaitlistSizeSum), buckets)
}
