package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Damp converts a per-millisecond damping factor (0 < damping < 1) into a
// frame-rate independent lerp factor for a step of dt seconds.
func Damp(damping, dt float64) float64 {
	return 1 - math.Pow(damping, dt*1000)
}

// EaseOut is an exponential ease that starts fast and settles into 1
func EaseOut(x float64) float64 {
	return (1 - math.Pow(2, -10*x)) / (1 - math.Pow(2, -10))
}

// Lerp interpolates linearly between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpAngle interpolates between two angles in degrees along the shortest arc
func LerpAngle(a, b, t float64) float64 {
	return a + shortestArc(a, b)*t
}

func shortestArc(from, to float64) float64 {
	d := math.Mod(to-from, 360)
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return d
}

// VecToAngles converts a unit direction into Euler angles in degrees:
// pitch from the Y component, yaw about Y measured from -Z, no roll.
func VecToAngles(dir mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.RadToDeg(math.Asin(mgl64.Clamp(dir.Y(), -1, 1))),
		mgl64.RadToDeg(math.Atan2(-dir.X(), -dir.Z())),
		0,
	}
}

// Rotation returns the orientation for Euler angles in degrees, applied
// as yaw about Y after pitch about X.
func Rotation(angles mgl64.Vec3) mgl64.Quat {
	yaw := mgl64.QuatRotate(mgl64.DegToRad(angles.Y()), mgl64.Vec3{0, 1, 0})
	pitch := mgl64.QuatRotate(mgl64.DegToRad(angles.X()), mgl64.Vec3{1, 0, 0})
	roll := mgl64.QuatRotate(mgl64.DegToRad(angles.Z()), mgl64.Vec3{0, 0, 1})
	return yaw.Mul(pitch).Mul(roll)
}

// Forward is the canonical camera facing direction
var Forward = mgl64.Vec3{0, 0, -1}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// IsFinite reports whether every component of v is a real number
func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
