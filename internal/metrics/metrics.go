// Package metrics exposes Prometheus instrumentation for the camera core.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cortexcam"

// Metrics holds the camera core collectors
type Metrics struct {
	modeChanges        *prometheus.CounterVec
	frames             prometheus.Counter
	transitionProgress prometheus.Gauge
	splineRejections   prometheus.Counter
	picksApplied       prometheus.Counter
	picksStale         prometheus.Counter
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		modeChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mode_changes_total",
			Help:      "Camera mode transitions by source and destination mode.",
		}, []string{"from", "to"}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames stepped by the camera manager.",
		}),
		transitionProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transition_progress",
			Help:      "Blend progress of the current mode transition, 0 to 1.",
		}),
		splineRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spline_rejections_total",
			Help:      "Animation samples discarded for being non-finite.",
		}),
		picksApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "picks_applied_total",
			Help:      "Pick results applied to the camera.",
		}),
		picksStale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "picks_stale_total",
			Help:      "Pick results dropped because the mode changed while they were pending.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.modeChanges, m.frames, m.transitionProgress,
		m.splineRejections, m.picksApplied, m.picksStale,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ModeChanged(from, to string) {
	if m == nil {
		return
	}
	m.modeChanges.WithLabelValues(from, to).Inc()
}

func (m *Metrics) Frame(progress float64) {
	if m == nil {
		return
	}
	m.frames.Inc()
	m.transitionProgress.Set(progress)
}

func (m *Metrics) SplineRejected() {
	if m == nil {
		return
	}
	m.splineRejections.Inc()
}

func (m *Metrics) PickApplied() {
	if m == nil {
		return
	}
	m.picksApplied.Inc()
}

func (m *Metrics) PickStale() {
	if m == nil {
		return
	}
	m.picksStale.Inc()
}
