package camera

import "github.com/go-gl/mathgl/mgl64"

// InputFrame accumulates normalized input deltas between camera updates.
//
// Move is (right, up, forward) in world units; orbit mode treats forward
// as a dolly toward the focal point, scaled by distance. Rotate is
// (yaw, pitch, roll) in degrees. Axis is the held fly-movement axis from
// keyboard or stick and is level-triggered: it is not drained by Read.
type InputFrame struct {
	Move   mgl64.Vec3
	Rotate mgl64.Vec3
	Axis   mgl64.Vec3
}

// Append adds deltas to the frame
func (f *InputFrame) Append(move, rotate mgl64.Vec3) {
	f.Move = f.Move.Add(move)
	f.Rotate = f.Rotate.Add(rotate)
}

// Read returns the accumulated deltas and clears them
func (f *InputFrame) Read() (move, rotate mgl64.Vec3) {
	if f == nil {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	move, rotate = f.Move, f.Rotate
	f.Move = mgl64.Vec3{}
	f.Rotate = mgl64.Vec3{}
	return move, rotate
}

// WantsFly reports whether a fly movement axis is held
func (f *InputFrame) WantsFly() bool {
	return f != nil && f.Axis.Len() > 0
}
