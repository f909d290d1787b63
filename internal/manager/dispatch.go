package manager

import (
	"context"

	"github.com/normanking/cortexcam/internal/bus"
	"github.com/normanking/cortexcam/internal/camera"
)

// Dispatch applies one message to the state machine
func (m *Manager) Dispatch(msg Message) {
	switch msg := msg.(type) {
	case InputCommand:
		m.handleCommand(msg.Command)
	case PickResult:
		m.handlePick(msg)
	case PickRequest:
		m.RequestPick(context.Background(), msg.X, msg.Y)
	case ScrubAnim:
		m.handleScrub(msg.Time)
	case SetMode:
		m.setMode(msg.Mode)
	}
}

func (m *Manager) handleCommand(cmd Command) {
	switch cmd {
	case CommandFrame:
		m.setMode(camera.ModeOrbit)
		m.orbit.Goto(m.framePose, true)

	case CommandReset:
		m.setMode(camera.ModeOrbit)
		m.orbit.Goto(m.resetPose, true)

	case CommandPlayPause:
		if m.anim == nil {
			return
		}
		if m.mode == camera.ModeAnim {
			m.state.SetAnimationPaused(!m.state.AnimationPaused())
			return
		}
		m.setMode(camera.ModeAnim)
		m.state.SetAnimationPaused(false)

	case CommandCancel, CommandInterrupt:
		if m.mode == camera.ModeAnim {
			m.setMode(m.fromMode)
		}

	default:
		m.log.Debug().Str("command", string(cmd)).Msg("Unknown input command ignored")
	}
}

// handlePick looks from the current camera position toward the picked
// point and hands that pose to the orbit controller
func (m *Manager) handlePick(p PickResult) {
	if !camera.IsFinite(p.Position) {
		return
	}

	m.setMode(camera.ModeOrbit)

	look := m.pose
	look.Look(m.pose.Position, p.Position)
	m.orbit.Goto(look, true)

	m.metrics.PickApplied()
}

func (m *Manager) handleScrub(t float64) {
	if m.anim == nil {
		return
	}
	m.setMode(camera.ModeAnim)
	m.anim.Player.Cursor.SetValue(t)
}

// Attach subscribes the manager to the inbound event types on b. Event
// payloads must be Message values; anything else is ignored.
func (m *Manager) Attach(b *bus.EventBus) {
	b.SubscribeMultiple([]bus.EventType{
		bus.EventTypeInput,
		bus.EventTypePick,
		bus.EventTypeScrubAnim,
		bus.EventTypeSetMode,
	}, func(e bus.Event) {
		msg, ok := e.Payload.(Message)
		if !ok {
			m.log.Warn().Str("event", string(e.Type)).Msg("Event payload is not a camera message")
			return
		}
		m.Dispatch(msg)
	})
	if m.bus == nil {
		m.bus = b
	}
}
