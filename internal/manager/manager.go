// Package manager owns the authoritative camera pose for a viewing
// session. It selects the active navigation controller, reacts to host
// messages and blends the camera across mode switches.
package manager

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/normanking/cortexcam/internal/anim"
	"github.com/normanking/cortexcam/internal/bus"
	"github.com/normanking/cortexcam/internal/camera"
	"github.com/normanking/cortexcam/internal/config"
	"github.com/normanking/cortexcam/internal/metrics"
	"github.com/normanking/cortexcam/internal/scene"
	"github.com/normanking/cortexcam/internal/settings"
	"github.com/normanking/cortexcam/internal/state"
	"github.com/rs/zerolog"
)

// largeSceneExtent is the bounds size above which framing the whole scene
// is not a useful start and the authored reset pose is used instead
const largeSceneExtent = 100

// pickQueueSize bounds the number of resolved picks waiting for a frame
const pickQueueSize = 16

// Manager is the camera mode state machine. It is not safe for concurrent
// use: Update and Dispatch must be called from the host's frame loop.
type Manager struct {
	cfg       *config.Config
	log       zerolog.Logger
	state     *state.State
	bus       *bus.EventBus
	metrics   *metrics.Metrics
	picker    Picker
	sessionID string

	controllers map[camera.Mode]camera.Controller
	orbit       *camera.OrbitController
	fly         *camera.FlyController
	anim        *camera.AnimController

	framePose camera.Pose
	resetPose camera.Pose

	mode            camera.Mode
	fromMode        camera.Mode
	pose            camera.Pose // authoritative
	target          camera.Pose // written by the active controller
	from            camera.Pose // pose at the last mode change
	transitionTimer float64

	generation uint64
	picks      chan pendingPick
}

// New creates the manager for one viewing session and resolves the
// starting pose, animation track and mode from settings and scene bounds.
func New(cfg *config.Config, s *settings.Settings, bounds scene.BoundingBox, opts ...Option) (*Manager, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if s == nil {
		s = &settings.Settings{Camera: settings.CameraSettings{StartMode: settings.StartDefault}}
	}

	m := &Manager{
		cfg:   cfg,
		log:   zerolog.Nop(),
		picks: make(chan pendingPick, pickQueueSize),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.state == nil {
		m.state = state.New()
	}
	if m.sessionID == "" {
		m.sessionID = uuid.NewString()
	}

	fov := s.FOVOr(cfg.Camera.DefaultFOV)
	m.framePose = bounds.FramePose(fov)
	m.resetPose = s.ResetPose(fov)

	start := m.framePose
	if s.HasStartPose() || bounds.HalfExtents.Len() > largeSceneExtent {
		start = m.resetPose
	}
	if s.Camera.StartMode == settings.StartAnnotation {
		if p, ok := s.AnnotationPose(fov); ok {
			start = p
		}
	}

	// a start outside the scene looks at an object, which turns slowly
	// unless the document says otherwise
	outside := !bounds.ContainsPoint(start.Position)
	track, err := resolveTrack(s, start, s.AutoRotateOr(outside))
	if err != nil {
		return nil, err
	}

	m.orbit = camera.NewOrbitController()
	m.orbit.RotateDamping = cfg.Orbit.RotateDamping
	m.orbit.MoveDamping = cfg.Orbit.MoveDamping
	m.orbit.ZoomDamping = cfg.Orbit.ZoomDamping
	m.orbit.PitchMin = cfg.Orbit.PitchMin
	m.orbit.PitchMax = cfg.Orbit.PitchMax
	m.orbit.ZoomMin = cfg.Orbit.ZoomMin
	m.orbit.ZoomMax = cfg.Orbit.ZoomMax

	m.fly = camera.NewFlyController()
	m.fly.RotateDamping = cfg.Fly.RotateDamping
	m.fly.MoveDamping = cfg.Fly.MoveDamping
	m.fly.PitchMin = cfg.Fly.PitchMin
	m.fly.PitchMax = cfg.Fly.PitchMax

	m.controllers = map[camera.Mode]camera.Controller{
		camera.ModeOrbit: m.orbit,
		camera.ModeFly:   m.fly,
	}
	if track != nil {
		m.anim = camera.NewAnimController(track)
		m.anim.OnReject = m.splineRejected
		m.controllers[camera.ModeAnim] = m.anim
	}

	navMode := camera.ModeOrbit
	if outside {
		navMode = camera.ModeFly
	}

	m.mode = navMode
	if m.anim != nil {
		m.mode = camera.ModeAnim
	}
	m.fromMode = navMode
	m.pose = start
	m.target = start
	m.from = start
	m.transitionTimer = 1

	m.state.SetHasAnimation(m.anim != nil)
	if m.anim != nil {
		m.state.SetAnimationDuration(m.anim.Player.Duration())
	} else {
		m.state.SetAnimationDuration(0)
	}
	m.state.SetCameraMode(m.mode)

	m.controllers[m.mode].OnEnter(m.pose)

	ev := m.log.Info().
		Str("session", m.sessionID).
		Str("mode", string(m.mode)).
		Str("navMode", string(navMode))
	if track != nil {
		ev = ev.Str("track", track.Name).Float64("duration", track.Duration)
	}
	ev.Msg("Camera session started")

	return m, nil
}

// resolveTrack picks the animation track for a session: the named
// authored track when the start mode asks for one, else a generated
// orbit around the start pose when autoRotate is set.
func resolveTrack(s *settings.Settings, start camera.Pose, autoRotate bool) (*anim.Track, error) {
	if s.Camera.StartMode == settings.StartAnimTrack {
		authored, ok := s.FindTrack(s.Camera.AnimTrack)
		if !ok {
			return nil, nil
		}
		track, err := authored.Track()
		if err != nil {
			return nil, fmt.Errorf("resolve animation track: %w", err)
		}
		return track, nil
	}
	if autoRotate {
		return anim.RotateTrack(start.Position, start.FocalPoint(), anim.DefaultRotateKeys, anim.DefaultRotateDuration), nil
	}
	return nil, nil
}

// Update steps the camera by one frame. deltaTime is in seconds; frame
// holds the input accumulated since the previous call and may be nil.
func (m *Manager) Update(deltaTime float64, frame *camera.InputFrame) {
	m.drainPicks()

	if frame.WantsFly() && m.mode != camera.ModeFly {
		m.setMode(camera.ModeFly)
	}

	dt := deltaTime
	if m.mode == camera.ModeAnim && m.state.AnimationPaused() {
		dt = 0
	}

	m.transitionTimer = math.Min(1, m.transitionTimer+deltaTime*m.cfg.Camera.TransitionSpeed)

	m.controllers[m.mode].Update(dt, frame, &m.target)

	if m.transitionTimer < 1 {
		m.pose = camera.LerpPose(m.from, m.target, camera.EaseOut(m.transitionTimer))
	} else {
		m.pose = m.target
	}

	if m.mode == camera.ModeAnim {
		m.state.SetAnimationTime(m.anim.Player.Cursor.Value())
	}

	m.metrics.Frame(m.transitionTimer)
}

// setMode switches the active controller. The outgoing pose is captured
// so the blend starts exactly where the camera is. Switching to the
// current mode or to a mode without a controller does nothing.
func (m *Manager) setMode(mode camera.Mode) bool {
	next, ok := m.controllers[mode]
	if !ok || mode == m.mode {
		return false
	}

	prev := m.mode
	m.mode = mode

	m.target = m.pose
	m.from = m.pose
	m.fromMode = prev

	m.controllers[prev].OnExit(m.pose)
	next.OnEnter(m.pose)

	m.transitionTimer = 0
	m.generation++

	m.log.Debug().
		Str("from", string(prev)).
		Str("to", string(mode)).
		Uint64("generation", m.generation).
		Msg("Camera mode changed")
	m.metrics.ModeChanged(string(prev), string(mode))

	m.state.SetCameraMode(mode)
	if m.bus != nil {
		m.bus.Publish(bus.Event{
			Type:    bus.EventTypeCameraModeChanged,
			Payload: ModeChanged{Mode: mode, Previous: prev, Generation: m.generation},
		})
	}
	return true
}

func (m *Manager) splineRejected() {
	m.log.Debug().Float64("time", m.anim.Player.Cursor.Value()).Msg("Non-finite animation sample ignored")
	m.metrics.SplineRejected()
}

// Pose returns the authoritative camera pose
func (m *Manager) Pose() camera.Pose {
	return m.pose
}

// Mode returns the active navigation mode
func (m *Manager) Mode() camera.Mode {
	return m.mode
}

// FromMode returns the mode that was active before the last switch
func (m *Manager) FromMode() camera.Mode {
	return m.fromMode
}

// Player returns the animation player, nil when the session has no track
func (m *Manager) Player() *anim.Player {
	if m.anim == nil {
		return nil
	}
	return m.anim.Player
}

// TransitionProgress returns the blend timer in [0, 1]
func (m *Manager) TransitionProgress() float64 {
	return m.transitionTimer
}

// Generation returns the number of mode changes so far
func (m *Manager) Generation() uint64 {
	return m.generation
}

// State returns the session's observable state
func (m *Manager) State() *state.State {
	return m.state
}

// SessionID returns the session identifier
func (m *Manager) SessionID() string {
	return m.sessionID
}

// FramePose returns the pose that frames the whole scene
func (m *Manager) FramePose() camera.Pose {
	return m.framePose
}

// ResetPose returns the authored start pose
func (m *Manager) ResetPose() camera.Pose {
	return m.resetPose
}
