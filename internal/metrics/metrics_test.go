package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gathered sums counter and gauge samples per metric family
func gathered(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			out[mf.GetName()] += m.GetCounter().GetValue() + m.GetGauge().GetValue()
		}
	}
	return out
}

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ModeChanged("orbit", "fly")
	m.ModeChanged("orbit", "fly")
	m.ModeChanged("fly", "anim")
	m.Frame(0.25)
	m.SplineRejected()
	m.PickApplied()
	m.PickStale()

	got := gathered(t, reg)
	assert.Equal(t, 3.0, got["cortexcam_mode_changes_total"])
	assert.Equal(t, 1.0, got["cortexcam_frames_total"])
	assert.Equal(t, 0.25, got["cortexcam_transition_progress"])
	assert.Equal(t, 1.0, got["cortexcam_spline_rejections_total"])
	assert.Equal(t, 1.0, got["cortexcam_picks_applied_total"])
	assert.Equal(t, 1.0, got["cortexcam_picks_stale_total"])
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ModeChanged("a", "b")
		m.Frame(1)
		m.SplineRejected()
		m.PickApplied()
		m.PickStale()
	})
}
