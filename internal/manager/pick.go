package manager

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"
)

// Picker resolves a screen position to a world-space point. ok is false
// when nothing was hit.
type Picker interface {
	Pick(ctx context.Context, x, y float64) (position mgl64.Vec3, ok bool, err error)
}

// PickerFunc adapts a function to Picker
type PickerFunc func(ctx context.Context, x, y float64) (mgl64.Vec3, bool, error)

func (f PickerFunc) Pick(ctx context.Context, x, y float64) (mgl64.Vec3, bool, error) {
	return f(ctx, x, y)
}

type pendingPick struct {
	position   mgl64.Vec3
	generation uint64
}

// RequestPick queries the picker without blocking the frame loop. A hit
// is applied as an ordinary pick at the start of a later Update. The
// query is abandoned when ctx ends or the configured timeout expires.
func (m *Manager) RequestPick(ctx context.Context, x, y float64) {
	if m.picker == nil {
		m.log.Debug().Float64("x", x).Float64("y", y).Msg("Pick requested without a picker")
		return
	}
	gen := m.generation

	go func() {
		if m.cfg.Pick.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, m.cfg.Pick.Timeout)
			defer cancel()
		}

		pos, ok, err := m.picker.Pick(ctx, x, y)
		if err != nil {
			m.log.Debug().Err(err).Float64("x", x).Float64("y", y).Msg("Pick failed")
			return
		}
		if !ok {
			return
		}

		select {
		case m.picks <- pendingPick{position: pos, generation: gen}:
		case <-ctx.Done():
		default:
			m.log.Debug().Msg("Pick queue full, result dropped")
		}
	}()
}

// drainPicks applies every resolved pick, skipping those issued before
// the last mode change when stale picks are discarded. Picks in one batch
// are judged against the generation at the start of the frame.
func (m *Manager) drainPicks() {
	current := m.generation
	for {
		select {
		case p := <-m.picks:
			if m.cfg.Pick.DiscardStale && p.generation != current {
				m.log.Debug().
					Uint64("issued", p.generation).
					Uint64("current", current).
					Msg("Stale pick discarded")
				m.metrics.PickStale()
				continue
			}
			m.handlePick(PickResult{Position: p.position})
		default:
			return
		}
	}
}
