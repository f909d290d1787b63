package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/normanking/cortexcam/internal/camera"
	"github.com/normanking/cortexcam/internal/config"
	"github.com/normanking/cortexcam/internal/manager"
	"github.com/normanking/cortexcam/internal/remote"
	"github.com/normanking/cortexcam/internal/scene"
	"github.com/normanking/cortexcam/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBridge struct {
	inbox chan remote.Inbound
	err   error

	mu   sync.Mutex
	sent []any
}

func newFakeBridge() *fakeBridge {
	return &fakeBridge{inbox: make(chan remote.Inbound, 8)}
}

func (f *fakeBridge) Inbox() <-chan remote.Inbound { return f.inbox }

func (f *fakeBridge) Broadcast(msg any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

func (f *fakeBridge) last() remote.WSPoseMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1].(remote.WSPoseMessage)
}

var bounds = scene.BoundingBox{HalfExtents: mgl64.Vec3{1, 1, 1}}

func insideSettings(t *testing.T) *settings.Settings {
	t.Helper()
	s, err := settings.Parse([]byte(`camera: {position: [0, 0.5, 0.5], target: [0, 0, 0]}`))
	require.NoError(t, err)
	return s
}

func TestSession_StepBroadcastsPose(t *testing.T) {
	bridge := newFakeBridge()
	sess, err := New(config.DefaultConfig(), insideSettings(t), bounds, Options{Bridge: bridge})
	require.NoError(t, err)

	require.NoError(t, sess.Step(1.0/60))
	assert.Equal(t, 1, sess.Frames())

	msg := bridge.last()
	assert.Equal(t, remote.TypePose, msg.Type)
	assert.Equal(t, sess.ID, msg.Session)
	assert.Equal(t, camera.ModeOrbit, msg.State.CameraMode)
	assert.Equal(t, [3]float64(sess.Manager.Pose().Position), msg.Position)
}

func TestSession_DrainsInbox(t *testing.T) {
	bridge := newFakeBridge()
	sess, err := New(config.DefaultConfig(), insideSettings(t), bounds, Options{Bridge: bridge})
	require.NoError(t, err)

	bridge.inbox <- remote.Inbound{Message: manager.SetMode{Mode: camera.ModeFly}}
	require.NoError(t, sess.Step(0.1))
	assert.Equal(t, camera.ModeFly, sess.Manager.Mode())

	// a held axis from a remote client keeps the camera flying
	bridge.inbox <- remote.Inbound{Message: manager.SetMode{Mode: camera.ModeOrbit}}
	bridge.inbox <- remote.Inbound{Input: &remote.InputDelta{Axis: mgl64.Vec3{0, 0, 1}}}
	require.NoError(t, sess.Step(0.1))
	assert.Equal(t, camera.ModeFly, sess.Manager.Mode())
	assert.True(t, sess.Frame().WantsFly())
}

func TestSession_RemotePickUsesHostPicker(t *testing.T) {
	requests := make(chan [2]float64, 1)
	picker := manager.PickerFunc(func(ctx context.Context, x, y float64) (mgl64.Vec3, bool, error) {
		requests <- [2]float64{x, y}
		return mgl64.Vec3{1, 0, 0}, true, nil
	})

	bridge := newFakeBridge()
	sess, err := New(config.DefaultConfig(), insideSettings(t), bounds, Options{Bridge: bridge, Picker: picker})
	require.NoError(t, err)

	bridge.inbox <- remote.Inbound{Message: manager.SetMode{Mode: camera.ModeFly}}
	bridge.inbox <- remote.Inbound{Message: manager.PickRequest{X: 0.5, Y: 0.5}}
	require.NoError(t, sess.Step(0.1))
	assert.Equal(t, [2]float64{0.5, 0.5}, <-requests)

	require.Eventually(t, func() bool {
		return sess.Step(0.1) == nil && sess.Manager.Mode() == camera.ModeOrbit
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSession_PublishRoutesMessages(t *testing.T) {
	sess, err := New(nil, insideSettings(t), bounds, Options{})
	require.NoError(t, err)

	sess.Publish(manager.SetMode{Mode: camera.ModeFly})
	assert.Equal(t, camera.ModeFly, sess.Manager.Mode())

	sess.Publish(manager.PickResult{Position: mgl64.Vec3{0, 0, 0}})
	assert.Equal(t, camera.ModeOrbit, sess.Manager.Mode())

	sess.Publish(manager.InputCommand{Command: manager.CommandFrame})
	assert.Equal(t, camera.ModeOrbit, sess.State.CameraMode())
}

func TestSession_Reload(t *testing.T) {
	sess, err := New(nil, insideSettings(t), bounds, Options{})
	require.NoError(t, err)
	firstID := sess.ID
	firstBus := sess.Bus

	withTrack, err := settings.Parse([]byte(`
camera: {position: [0, 0.5, 0.5], autoRotate: true}
`))
	require.NoError(t, err)

	sess.Reload(insideSettings(t))
	sess.Reload(withTrack)
	require.NoError(t, sess.Step(0.1))

	assert.NotEqual(t, firstID, sess.ID)
	assert.NotSame(t, firstBus, sess.Bus)
	assert.Equal(t, camera.ModeAnim, sess.Manager.Mode(), "latest reload wins")
	assert.True(t, sess.State.HasAnimation())
}

func TestSession_ReloadRejectedKeepsSession(t *testing.T) {
	sess, err := New(nil, insideSettings(t), bounds, Options{})
	require.NoError(t, err)
	id := sess.ID

	bad := &settings.Settings{
		Camera:     settings.CameraSettings{StartMode: settings.StartAnimTrack},
		AnimTracks: []settings.AnimTrack{{Name: "bad", FrameRate: 1, Keyframes: settings.Keyframes{Times: []float64{0}}}},
	}
	sess.Reload(bad)
	require.NoError(t, sess.Step(0.1))
	assert.Equal(t, id, sess.ID)
}

func TestSession_BroadcastError(t *testing.T) {
	bridge := newFakeBridge()
	bridge.err = errors.New("gone")
	sess, err := New(nil, insideSettings(t), bounds, Options{Bridge: bridge})
	require.NoError(t, err)

	assert.Error(t, sess.Step(0.1))
}

func TestSession_RunStopsAfterMaxFrames(t *testing.T) {
	sess, err := New(nil, insideSettings(t), bounds, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, sess.Run(ctx, 200, 5))
	assert.Equal(t, 5, sess.Frames())

	assert.Error(t, sess.Run(ctx, 0, 1))
}
