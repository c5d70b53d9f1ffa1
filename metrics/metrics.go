// Package metrics exports event loop activity as prometheus collectors.
//
// A nil *Metrics is valid and records nothing, so the loop can call it
// unconditionally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "panes"

// Metrics holds the loop collectors
type Metrics struct {
	events     *prometheus.CounterVec
	redraws    prometheus.Counter
	redrawTime prometheus.Histogram
	rows       prometheus.Counter
	tooSmall   prometheus.Counter
	resizes    prometheus.Counter
	unhandled  prometheus.Counter
	ticks      prometheus.Counter
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "input_events_total",
			Help:      "Decoded input events by kind.",
		}, []string{"kind"}),
		redraws: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redraws_total",
			Help:      "Completed screen redraws.",
		}),
		redrawTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "redraw_duration_seconds",
			Help:      "Time spent laying out, rendering and flushing one frame.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flushed_rows_total",
			Help:      "Screen rows rewritten by diff-based flushes.",
		}),
		tooSmall: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "too_small_frames_total",
			Help:      "Frames replaced by the terminal-too-small diagnostic.",
		}),
		resizes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resizes_total",
			Help:      "Settled terminal resizes.",
		}),
		unhandled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unhandled_events_total",
			Help:      "Events addressed to a disabled component.",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Tick boundaries delivered to components.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.events, m.redraws, m.redrawTime, m.rows, m.tooSmall, m.resizes, m.unhandled, m.ticks,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Event counts one decoded input event
func (m *Metrics) Event(kind string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(kind).Inc()
}

// Redraw records a completed frame and the rows it rewrote
func (m *Metrics) Redraw(d time.Duration, rows int) {
	if m == nil {
		return
	}
	m.redraws.Inc()
	m.redrawTime.Observe(d.Seconds())
	m.rows.Add(float64(rows))
}

func (m *Metrics) TooSmall() {
	if m == nil {
		return
	}
	m.tooSmall.Inc()
}

func (m *Metrics) Resize() {
	if m == nil {
		return
	}
	m.resizes.Inc()
}

func (m *Metrics) Unhandled() {
	if m == nil {
		return
	}
	m.unhandled.Inc()
}

func (m *Metrics) Tick() {
	if m == nil {
		return
	}
	m.ticks.Inc()
}
