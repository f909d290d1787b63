package remote

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/normanking/cortexcam/internal/camera"
	"github.com/normanking/cortexcam/internal/manager"
	"github.com/normanking/cortexcam/internal/state"
)

// Inbound message types
const (
	TypeCommand = "command"
	TypePick    = "pick"
	TypePickAt  = "pickAt"
	TypeScrub   = "scrub"
	TypeMode    = "mode"
	TypeInput   = "input"
)

// TypePose is the outbound pose message type
const TypePose = "pose"

// ErrMalformed is wrapped by all decode errors
var ErrMalformed = errors.New("malformed message")

// Inbound is one decoded client message. Exactly one of Message and
// Input is set.
type Inbound struct {
	Message manager.Message
	Input   *InputDelta
}

// InputDelta is a batch of normalized input from a remote client. Move
// and Rotate accumulate into the pending frame; Axis replaces the held
// fly axis.
type InputDelta struct {
	Move   mgl64.Vec3
	Rotate mgl64.Vec3
	Axis   mgl64.Vec3
}

// ApplyTo merges the delta into frame
func (d *InputDelta) ApplyTo(frame *camera.InputFrame) {
	frame.Append(d.Move, d.Rotate)
	frame.Axis = d.Axis
}

// WSInboundMessage is the wire form of every client message
type WSInboundMessage struct {
	Type     string    `json:"type"`
	Command  string    `json:"command,omitempty"`
	Position []float64 `json:"position,omitempty"`
	X        *float64  `json:"x,omitempty"`
	Y        *float64  `json:"y,omitempty"`
	Time     *float64  `json:"time,omitempty"`
	Mode     string    `json:"mode,omitempty"`
	Move     []float64 `json:"move,omitempty"`
	Rotate   []float64 `json:"rotate,omitempty"`
	Axis     []float64 `json:"axis,omitempty"`
}

// WSPoseMessage is broadcast to clients with the authoritative pose
type WSPoseMessage struct {
	Type       string         `json:"type"`
	Session    string         `json:"session"`
	Position   [3]float64     `json:"position"`
	Angles     [3]float64     `json:"angles"`
	Distance   float64        `json:"distance"`
	FOV        float64        `json:"fov"`
	FocalPoint [3]float64     `json:"focal_point"`
	State      state.Snapshot `json:"state"`
}

// NewPoseMessage builds the outbound message for pose
func NewPoseMessage(session string, pose camera.Pose, snap state.Snapshot) WSPoseMessage {
	return WSPoseMessage{
		Type:       TypePose,
		Session:    session,
		Position:   pose.Position,
		Angles:     pose.Angles,
		Distance:   pose.Distance,
		FOV:        pose.FOV,
		FocalPoint: pose.FocalPoint(),
		State:      snap,
	}
}

// DecodeInbound parses one client message
func DecodeInbound(data []byte) (Inbound, error) {
	var msg WSInboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return Inbound{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	switch msg.Type {
	case TypeCommand:
		cmd, err := manager.ParseCommand(msg.Command)
		if err != nil {
			return Inbound{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return Inbound{Message: manager.InputCommand{Command: cmd}}, nil

	case TypePick:
		pos, err := vec3(msg.Position, "position", false)
		if err != nil {
			return Inbound{}, err
		}
		return Inbound{Message: manager.PickResult{Position: pos}}, nil

	case TypePickAt:
		if msg.X == nil || msg.Y == nil {
			return Inbound{}, fmt.Errorf("%w: pickAt needs x and y", ErrMalformed)
		}
		return Inbound{Message: manager.PickRequest{X: *msg.X, Y: *msg.Y}}, nil

	case TypeScrub:
		if msg.Time == nil {
			return Inbound{}, fmt.Errorf("%w: scrub without time", ErrMalformed)
		}
		return Inbound{Message: manager.ScrubAnim{Time: *msg.Time}}, nil

	case TypeMode:
		mode, err := camera.ParseMode(msg.Mode)
		if err != nil {
			return Inbound{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return Inbound{Message: manager.SetMode{Mode: mode}}, nil

	case TypeInput:
		move, err := vec3(msg.Move, "move", true)
		if err != nil {
			return Inbound{}, err
		}
		rotate, err := vec3(msg.Rotate, "rotate", true)
		if err != nil {
			return Inbound{}, err
		}
		axis, err := vec3(msg.Axis, "axis", true)
		if err != nil {
			return Inbound{}, err
		}
		return Inbound{Input: &InputDelta{Move: move, Rotate: rotate, Axis: axis}}, nil
	}

	return Inbound{}, fmt.Errorf("%w: unknown type %q", ErrMalformed, msg.Type)
}

func vec3(v []float64, field string, optional bool) (mgl64.Vec3, error) {
	if len(v) == 0 && optional {
		return mgl64.Vec3{}, nil
	}
	if len(v) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("%w: %s needs 3 components, got %d", ErrMalformed, field, len(v))
	}
	out := mgl64.Vec3{v[0], v[1], v[2]}
	if !camera.IsFinite(out) {
		return mgl64.Vec3{}, fmt.Errorf("%w: %s is not finite", ErrMalformed, field)
	}
	return out, nil
}
