package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// OrbitController rotates, pans and zooms the camera around a focal point.
// Input moves a target pivot; the visible pivot chases it with
// exponential damping.
type OrbitController struct {
	// Damping per millisecond, 0 < d < 1; closer to 1 is smoother
	RotateDamping float64
	MoveDamping   float64
	ZoomDamping   float64

	// Pitch limits in degrees
	PitchMin float64
	PitchMax float64

	// Distance limits; ZoomMax <= 0 means unbounded
	ZoomMin float64
	ZoomMax float64

	focus    mgl64.Vec3
	angles   mgl64.Vec3
	distance float64

	targetFocus    mgl64.Vec3
	targetAngles   mgl64.Vec3
	targetDistance float64
}

// NewOrbitController creates an orbit controller with default damping and limits
func NewOrbitController() *OrbitController {
	return &OrbitController{
		RotateDamping: 0.97,
		MoveDamping:   0.97,
		ZoomDamping:   0.97,
		PitchMin:      -90,
		PitchMax:      90,
		ZoomMin:       0.01,
		ZoomMax:       0,
		distance:      1,
	}
}

// OnEnter snaps the pivot to the camera's current pose
func (oc *OrbitController) OnEnter(pose Pose) {
	oc.attach(pose, false)
}

// OnExit is a no-op
func (oc *OrbitController) OnExit(pose Pose) {}

// Goto retargets the pivot to pose. With smooth set the camera glides
// there under damping instead of jumping.
func (oc *OrbitController) Goto(pose Pose, smooth bool) {
	oc.attach(pose, smooth)
}

func (oc *OrbitController) attach(pose Pose, smooth bool) {
	oc.targetFocus = pose.FocalPoint()
	oc.targetAngles = mgl64.Vec3{clamp(pose.Angles.X(), oc.PitchMin, oc.PitchMax), pose.Angles.Y(), 0}
	oc.targetDistance = oc.clampZoom(pose.Distance)

	if !smooth {
		oc.focus = oc.targetFocus
		oc.angles = oc.targetAngles
		oc.distance = oc.targetDistance
		return
	}

	// glide the short way round
	oc.targetAngles[1] = oc.angles.Y() + shortestArc(oc.angles.Y(), oc.targetAngles.Y())
}

// Update applies one frame of pan, dolly and rotation input
func (oc *OrbitController) Update(dt float64, frame *InputFrame, out *Pose) {
	move, rotate := frame.Read()

	// pan in the view plane
	pan := Rotation(oc.targetAngles).Rotate(mgl64.Vec3{move.X(), move.Y(), 0})
	oc.targetFocus = oc.targetFocus.Add(pan)

	// dolly proportionally to the current distance
	if move.Z() != 0 {
		oc.targetDistance = oc.clampZoom(oc.targetDistance - move.Z()*oc.targetDistance)
	}

	oc.targetAngles[0] = clamp(oc.targetAngles.X()-rotate.Y(), oc.PitchMin, oc.PitchMax)
	oc.targetAngles[1] = oc.targetAngles.Y() - rotate.X()

	oc.focus = lerpVec(oc.focus, oc.targetFocus, Damp(oc.MoveDamping, dt))
	oc.angles = lerpVec(oc.angles, oc.targetAngles, Damp(oc.RotateDamping, dt))
	oc.distance = Lerp(oc.distance, oc.targetDistance, Damp(oc.ZoomDamping, dt))

	out.Angles = mgl64.Vec3{oc.angles.X(), wrapDegrees(oc.angles.Y()), 0}
	out.Distance = oc.distance
	out.Position = oc.focus.Sub(Rotation(oc.angles).Rotate(Forward).Mul(oc.distance))
}

// Focus returns the current pivot point
func (oc *OrbitController) Focus() mgl64.Vec3 {
	return oc.focus
}

func (oc *OrbitController) clampZoom(d float64) float64 {
	d = math.Max(d, oc.ZoomMin)
	if oc.ZoomMax > 0 {
		d = math.Min(d, oc.ZoomMax)
	}
	return d
}

// wrapDegrees maps an angle into (-180, 180]
func wrapDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}
