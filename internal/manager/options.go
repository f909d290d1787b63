package manager

import (
	"github.com/normanking/cortexcam/internal/bus"
	"github.com/normanking/cortexcam/internal/metrics"
	"github.com/normanking/cortexcam/internal/state"
	"github.com/rs/zerolog"
)

// Option configures a Manager
type Option func(*Manager)

// WithBus publishes mode changes on b. Use Attach to also consume events from it.
func WithBus(b *bus.EventBus) Option {
	return func(m *Manager) {
		m.bus = b
	}
}

// WithState uses s as the session's observable state
func WithState(s *state.State) Option {
	return func(m *Manager) {
		m.state = s
	}
}

// WithPicker sets the collaborator RequestPick queries
func WithPicker(p Picker) Option {
	return func(m *Manager) {
		m.picker = p
	}
}

// WithMetrics records instrumentation on mt
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// WithLogger sets the manager's logger
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// WithSessionID overrides the generated session id
func WithSessionID(id string) Option {
	return func(m *Manager) {
		m.sessionID = id
	}
}
