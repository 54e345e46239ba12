// Package metrics exports delegapter counters to Prometheus.
//
// A nil *Metrics is valid and records nothing, so callers never need to
// check whether metrics were configured.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors of one registry.
type Metrics struct {
	codesRegistered prometheus.Counter
	codesEvicted    prometheus.Counter
	diffs           prometheus.Counter
	events          *prometheus.CounterVec
	replaceDuration prometheus.Histogram
}

// New creates the collectors and registers them with reg. A nil reg skips
// registration.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		codesRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "delegapter",
			Name:      "codes_registered_total",
			Help:      "View type codes handed out.",
		}),
		codesEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "delegapter",
			Name:      "codes_evicted_total",
			Help:      "View type codes whose kind was reclaimed.",
		}),
		diffs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "delegapter",
			Name:      "diffs_total",
			Help:      "Replace transactions diffed and dispatched.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "delegapter",
			Name:      "events_total",
			Help:      "Notifications delivered to consumers.",
		}, []string{"op"}),
		replaceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "delegapter",
			Name:      "replace_duration_seconds",
			Help:      "Time spent diffing and dispatching a replace transaction.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.codesRegistered, m.codesEvicted, m.diffs, m.events, m.replaceDuration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// CodeRegistered counts a new view type code.
func (m *Metrics) CodeRegistered(int) {
	if m != nil {
		m.codesRegistered.Inc()
	}
}

// CodeEvicted counts an evicted view type code.
func (m *Metrics) CodeEvicted(int) {
	if m != nil {
		m.codesEvicted.Inc()
	}
}

// DiffApplied counts a dispatched replace transaction and its duration.
func (m *Metrics) DiffApplied(d time.Duration) {
	if m != nil {
		m.diffs.Inc()
		m.replaceDuration.Observe(d.Seconds())
	}
}

// Event counts one notification of the given op.
func (m *Metrics) Event(op string) {
	if m != nil {
		m.events.WithLabelValues(op).Inc()
	}
}

// Consumer is the notification interface Counting wraps.
type Consumer interface {
	OnInserted(position, count int)
	OnRemoved(position, count int)
	OnMoved(fromPosition, toPosition int)
	OnChanged(position, count int, payload any)
}

// Counting returns a consumer that counts every notification before
// forwarding it to next. It returns next unchanged when m is nil.
func (m *Metrics) Counting(next Consumer) Consumer {
	if m == nil {
		return next
	}
	return &counting{m: m, next: next}
}

type counting struct {
	m    *Metrics
	next Consumer
}

func (c *counting) OnInserted(position, count int) {
	c.m.Event("inserted")
	c.next.OnInserted(position, count)
}

func (c *counting) OnRemoved(position, count int) {
	c.m.Event("removed")
	c.next.OnRemoved(position, count)
}

func (c *counting) OnMoved(fromPosition, toPosition int) {
	c.m.Event("moved")
	c.next.OnMoved(fromPosition, toPosition)
}

func (c *counting) OnChanged(position, count int, payload any) {
	c.m.Event("changed")
	c.next.OnChanged(position, count, payload)
}
