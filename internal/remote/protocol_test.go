package remote

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/normanking/cortexcam/internal/camera"
	"github.com/normanking/cortexcam/internal/manager"
	"github.com/normanking/cortexcam/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInbound(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Inbound
	}{
		{
			name: "command",
			data: `{"type":"command","command":"playPause"}`,
			want: Inbound{Message: manager.InputCommand{Command: manager.CommandPlayPause}},
		},
		{
			name: "pick",
			data: `{"type":"pick","position":[1,2,3]}`,
			want: Inbound{Message: manager.PickResult{Position: mgl64.Vec3{1, 2, 3}}},
		},
		{
			name: "pick at screen position",
			data: `{"type":"pickAt","x":0.25,"y":0.75}`,
			want: Inbound{Message: manager.PickRequest{X: 0.25, Y: 0.75}},
		},
		{
			name: "pick at origin",
			data: `{"type":"pickAt","x":0,"y":0}`,
			want: Inbound{Message: manager.PickRequest{}},
		},
		{
			name: "scrub at zero",
			data: `{"type":"scrub","time":0}`,
			want: Inbound{Message: manager.ScrubAnim{Time: 0}},
		},
		{
			name: "mode",
			data: `{"type":"mode","mode":"fly"}`,
			want: Inbound{Message: manager.SetMode{Mode: camera.ModeFly}},
		},
		{
			name: "input with axis only",
			data: `{"type":"input","axis":[0,0,1]}`,
			want: Inbound{Input: &InputDelta{Axis: mgl64.Vec3{0, 0, 1}}},
		},
		{
			name: "input",
			data: `{"type":"input","move":[0.5,0,0],"rotate":[10,-5,0]}`,
			want: Inbound{Input: &InputDelta{Move: mgl64.Vec3{0.5, 0, 0}, Rotate: mgl64.Vec3{10, -5, 0}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeInbound([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeInbound_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"type":`},
		{"unknown type", `{"type":"teleport"}`},
		{"unknown command", `{"type":"command","command":"spin"}`},
		{"pick without position", `{"type":"pick"}`},
		{"pick with two components", `{"type":"pick","position":[1,2]}`},
		{"pickAt without y", `{"type":"pickAt","x":0.5}`},
		{"pickAt with position only", `{"type":"pickAt","position":[1,2,3]}`},
		{"scrub without time", `{"type":"scrub"}`},
		{"unknown mode", `{"type":"mode","mode":"walk"}`},
		{"short move", `{"type":"input","move":[1]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeInbound([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
		})
	}
}

func TestInputDelta_ApplyTo(t *testing.T) {
	frame := &camera.InputFrame{Axis: mgl64.Vec3{1, 0, 0}}
	frame.Append(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{})

	d := &InputDelta{Move: mgl64.Vec3{0, 1, 0}, Rotate: mgl64.Vec3{5, 0, 0}}
	d.ApplyTo(frame)

	move, rotate := frame.Read()
	assert.Equal(t, mgl64.Vec3{1, 1, 0}, move)
	assert.Equal(t, mgl64.Vec3{5, 0, 0}, rotate)
	assert.False(t, frame.WantsFly(), "axis is replaced, not accumulated")
}

func TestNewPoseMessage(t *testing.T) {
	pose := camera.NewPose(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{}, 50)
	msg := NewPoseMessage("abc", pose, state.Snapshot{CameraMode: camera.ModeOrbit})

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, TypePose, parsed["type"])
	assert.Equal(t, "abc", parsed["session"])
	assert.Equal(t, []any{0.0, 0.0, 5.0}, parsed["position"])
	assert.Equal(t, 5.0, parsed["distance"])
	assert.Equal(t, "orbit", parsed["state"].(map[string]any)["cameraMode"])

	focal := parsed["focal_point"].([]any)
	require.Len(t, focal, 3)
	assert.InDelta(t, 0.0, focal[2].(float64), 1e-9)
}
