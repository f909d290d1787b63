// Package session runs one viewing session: it owns the camera manager,
// its bus and observable state, and steps them from a fixed-rate loop.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/normanking/cortexcam/internal/bus"
	"github.com/normanking/cortexcam/internal/camera"
	"github.com/normanking/cortexcam/internal/config"
	"github.com/normanking/cortexcam/internal/manager"
	"github.com/normanking/cortexcam/internal/metrics"
	"github.com/normanking/cortexcam/internal/remote"
	"github.com/normanking/cortexcam/internal/scene"
	"github.com/normanking/cortexcam/internal/settings"
	"github.com/normanking/cortexcam/internal/state"
	"github.com/rs/zerolog"
)

// Bridge is the remote side of a session
type Bridge interface {
	Inbox() <-chan remote.Inbound
	Broadcast(msg any) error
}

// Session couples a camera manager with its event plumbing
type Session struct {
	ID      string
	Bus     *bus.EventBus
	State   *state.State
	Manager *manager.Manager

	cfg     *config.Config
	bounds  scene.BoundingBox
	metrics *metrics.Metrics
	bridge  Bridge
	picker  manager.Picker
	logger  zerolog.Logger

	frame  camera.InputFrame
	reload chan *settings.Settings
	frames int
}

// Options carries the optional collaborators of a session
type Options struct {
	Metrics *metrics.Metrics
	Bridge  Bridge
	Picker  manager.Picker
	Logger  zerolog.Logger
}

// New starts a session for the given settings and scene bounds
func New(cfg *config.Config, s *settings.Settings, bounds scene.BoundingBox, opts Options) (*Session, error) {
	sess := &Session{
		cfg:     cfg,
		bounds:  bounds,
		metrics: opts.Metrics,
		bridge:  opts.Bridge,
		picker:  opts.Picker,
		logger:  opts.Logger,
		reload:  make(chan *settings.Settings, 1),
	}
	if err := sess.start(s); err != nil {
		return nil, err
	}
	return sess, nil
}

// start replaces the manager, bus and state with fresh ones for s
func (sess *Session) start(s *settings.Settings) error {
	id := uuid.NewString()
	b := bus.NewEventBus()
	st := state.New()

	log := sess.logger.With().Str("session", id).Logger()
	st.Subscribe(func(c state.Change) {
		log.Debug().Str("field", string(c.Field)).Interface("value", c.Value).Msg("State changed")
	})

	opts := []manager.Option{
		manager.WithBus(b),
		manager.WithState(st),
		manager.WithMetrics(sess.metrics),
		manager.WithLogger(log.With().Str("component", "camera").Logger()),
		manager.WithSessionID(id),
	}
	if sess.picker != nil {
		opts = append(opts, manager.WithPicker(sess.picker))
	}

	m, err := manager.New(sess.cfg, s, sess.bounds, opts...)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	m.Attach(b)

	if sess.Bus != nil {
		sess.Bus.Clear()
	}
	sess.ID = id
	sess.Bus = b
	sess.State = st
	sess.Manager = m
	sess.frame = camera.InputFrame{}
	return nil
}

// Reload schedules a restart with new settings before the next frame.
// It is safe to call from any goroutine; a pending reload is replaced.
func (sess *Session) Reload(s *settings.Settings) {
	for {
		select {
		case sess.reload <- s:
			return
		default:
		}
		select {
		case <-sess.reload:
		default:
		}
	}
}

// Frame returns the pending input frame so hosts can add local input
func (sess *Session) Frame() *camera.InputFrame {
	return &sess.frame
}

// Publish routes a camera message through the session bus
func (sess *Session) Publish(msg manager.Message) {
	sess.Bus.Publish(bus.Event{Type: eventType(msg), Payload: msg})
}

func eventType(msg manager.Message) bus.EventType {
	switch msg.(type) {
	case manager.PickResult, manager.PickRequest:
		return bus.EventTypePick
	case manager.ScrubAnim:
		return bus.EventTypeScrubAnim
	case manager.SetMode:
		return bus.EventTypeSetMode
	default:
		return bus.EventTypeInput
	}
}

// Step applies pending reloads and remote messages, then advances the
// camera by dt seconds and broadcasts the resulting pose
func (sess *Session) Step(dt float64) error {
	select {
	case s := <-sess.reload:
		if err := sess.start(s); err != nil {
			sess.logger.Warn().Err(err).Msg("Settings reload rejected, keeping session")
		} else {
			sess.logger.Info().Str("session", sess.ID).Msg("Session restarted with new settings")
		}
	default:
	}

	if sess.bridge != nil {
		sess.drainInbox()
	}

	sess.Manager.Update(dt, &sess.frame)
	sess.frames++

	if sess.bridge != nil {
		msg := remote.NewPoseMessage(sess.ID, sess.Manager.Pose(), sess.State.Snapshot())
		if err := sess.bridge.Broadcast(msg); err != nil {
			return fmt.Errorf("broadcast pose: %w", err)
		}
	}
	return nil
}

func (sess *Session) drainInbox() {
	inbox := sess.bridge.Inbox()
	for {
		select {
		case in := <-inbox:
			if in.Input != nil {
				in.Input.ApplyTo(&sess.frame)
				continue
			}
			if in.Message != nil {
				sess.Publish(in.Message)
			}
		default:
			return
		}
	}
}

// Frames returns the number of frames stepped
func (sess *Session) Frames() int {
	return sess.frames
}

// Run steps the session at frameRate until ctx is done or maxFrames
// frames have run (maxFrames <= 0 runs forever)
func (sess *Session) Run(ctx context.Context, frameRate float64, maxFrames int) error {
	if frameRate <= 0 {
		return fmt.Errorf("frame rate must be positive, got %v", frameRate)
	}
	interval := time.Duration(float64(time.Second) / frameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if err := sess.Step(dt); err != nil {
				return err
			}
			if maxFrames > 0 && sess.frames >= maxFrames {
				return nil
			}
		}
	}
}
