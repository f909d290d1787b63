// Package camera holds the camera pose, its blending geometry, and the
// navigation controllers that turn per-frame input into poses.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultFOV is the vertical field of view in degrees used when nothing else is given
const DefaultFOV = 65.0

// Pose is a camera placement: where it is, which way it faces, how far
// away its focal point is and its vertical field of view in degrees.
//
// Angles are (pitch, yaw, roll) in degrees and always come from a unit
// direction via VecToAngles, so roll is zero.
type Pose struct {
	Position mgl64.Vec3
	Angles   mgl64.Vec3
	Distance float64
	FOV      float64
}

// NewPose creates a pose at from looking toward to
func NewPose(from, to mgl64.Vec3, fov float64) Pose {
	p := Pose{FOV: fov}
	p.Look(from, to)
	return p
}

// Look places the camera at from facing to, with the focal distance set
// to the distance between them. Coincident points keep the current angles.
func (p *Pose) Look(from, to mgl64.Vec3) {
	p.Position = from
	delta := to.Sub(from)
	p.Distance = delta.Len()
	if p.Distance > 0 {
		p.Angles = VecToAngles(delta.Mul(1 / p.Distance))
	}
}

// Rotation returns the camera orientation
func (p Pose) Rotation() mgl64.Quat {
	return Rotation(p.Angles)
}

// Forward returns the unit facing direction
func (p Pose) Forward() mgl64.Vec3 {
	return p.Rotation().Rotate(Forward)
}

// FocalPoint returns the point Distance along the facing direction
func (p Pose) FocalPoint() mgl64.Vec3 {
	return p.Position.Add(p.Forward().Mul(p.Distance))
}

// LerpPose blends two poses. Position and focal point are interpolated
// independently and the result looks from one to the other, so the blend
// always faces a real point instead of an averaged angle. FOV is linear.
func LerpPose(a, b Pose, t float64) Pose {
	af := a.FocalPoint()
	bf := b.FocalPoint()

	var out Pose
	out.Angles = a.Angles
	out.Look(lerpVec(a.Position, b.Position, t), lerpVec(af, bf, t))
	out.FOV = Lerp(a.FOV, b.FOV, t)
	return out
}

// ApproxEqual reports whether two poses match within eps per component.
// Yaw is compared modulo 360.
func (p Pose) ApproxEqual(o Pose, eps float64) bool {
	for i := range p.Position {
		if math.Abs(p.Position[i]-o.Position[i]) > eps {
			return false
		}
	}
	if math.Abs(p.Angles.X()-o.Angles.X()) > eps || math.Abs(p.Angles.Z()-o.Angles.Z()) > eps {
		return false
	}
	if math.Abs(shortestArc(p.Angles.Y(), o.Angles.Y())) > eps {
		return false
	}
	return math.Abs(p.Distance-o.Distance) <= eps && math.Abs(p.FOV-o.FOV) <= eps
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
