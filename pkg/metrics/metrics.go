// Package metrics exposes work-loop counters through prometheus.
//
// A nil *Collector is valid and records nothing, so sessions can call it
// unconditionally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector groups the renderer metrics.
type Collector struct {
	units          prometheus.Counter
	yields         prometheus.Counter
	commits        prometheus.Counter
	preemptions    prometheus.Counter
	deletions      prometheus.Counter
	effects        *prometheus.CounterVec
	faults         *prometheus.CounterVec
	commitDuration prometheus.Histogram
}

// New creates a collector whose metric names are prefixed with namespace.
func New(namespace string) *Collector {
	return &Collector{
		units: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_of_work_total",
			Help:      "Fiber units of work performed.",
		}),
		yields: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "yields_total",
			Help:      "Idle slots given back with work still pending.",
		}),
		commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits_total",
			Help:      "Generations committed to the host tree.",
		}),
		preemptions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preemptions_total",
			Help:      "State updates that rebased the work loop.",
		}),
		deletions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deletions_total",
			Help:      "Fibers removed during commit.",
		}),
		effects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "effects_total",
			Help:      "Effect callbacks and cleanups run.",
		}, []string{"phase"}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "faults_total",
			Help:      "Recovered faults that aborted an idle slot.",
		}, []string{"kind"}),
		commitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "commit_duration_seconds",
			Help:      "Time spent in the commit phase.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
}

// Register adds every metric to reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, m := range []prometheus.Collector{
		c.units, c.yields, c.commits, c.preemptions, c.deletions,
		c.effects, c.faults, c.commitDuration,
	} {
		if err := reg.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// UnitOfWork counts one performed unit.
func (c *Collector) UnitOfWork() {
	if c != nil {
		c.units.Inc()
	}
}

// Yield counts a slot that ran out of budget.
func (c *Collector) Yield() {
	if c != nil {
		c.yields.Inc()
	}
}

// Preemption counts a rebase caused by a state update.
func (c *Collector) Preemption() {
	if c != nil {
		c.preemptions.Inc()
	}
}

// Commit records a finished commit.
func (c *Collector) Commit(deletions int, d time.Duration) {
	if c == nil {
		return
	}
	c.commits.Inc()
	c.deletions.Add(float64(deletions))
	c.commitDuration.Observe(d.Seconds())
}

// Effect counts an effect phase ("cleanup" or "run").
func (c *Collector) Effect(phase string) {
	if c != nil {
		c.effects.WithLabelValues(phase).Inc()
	}
}

// Fault counts a recovered fault of the given kind.
func (c *Collector) Fault(kind string) {
	if c != nil {
		c.faults.WithLabelValues(kind).Inc()
	}
}
