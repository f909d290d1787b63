package camera

import "github.com/go-gl/mathgl/mgl64"

// FlyController moves the camera freely: input translates along the view
// axes and turns the view in place, both damped.
type FlyController struct {
	RotateDamping float64
	MoveDamping   float64

	PitchMin float64
	PitchMax float64

	position mgl64.Vec3
	angles   mgl64.Vec3
	distance float64

	targetPosition mgl64.Vec3
	targetAngles   mgl64.Vec3
}

// NewFlyController creates a fly controller with default damping and limits
func NewFlyController() *FlyController {
	return &FlyController{
		RotateDamping: 0.97,
		MoveDamping:   0.97,
		PitchMin:      -90,
		PitchMax:      90,
		distance:      1,
	}
}

// OnEnter snaps to the camera's current pose
func (fc *FlyController) OnEnter(pose Pose) {
	fc.attach(pose, false)
}

// OnExit is a no-op
func (fc *FlyController) OnExit(pose Pose) {}

// Goto retargets the controller to pose, gliding there if smooth is set
func (fc *FlyController) Goto(pose Pose, smooth bool) {
	fc.attach(pose, smooth)
}

func (fc *FlyController) attach(pose Pose, smooth bool) {
	fc.targetPosition = pose.Position
	fc.targetAngles = mgl64.Vec3{clamp(pose.Angles.X(), fc.PitchMin, fc.PitchMax), pose.Angles.Y(), 0}
	fc.distance = pose.Distance

	if !smooth {
		fc.position = fc.targetPosition
		fc.angles = fc.targetAngles
		return
	}
	fc.targetAngles[1] = fc.angles.Y() + shortestArc(fc.angles.Y(), fc.targetAngles.Y())
}

// Update applies one frame of translation and look input
func (fc *FlyController) Update(dt float64, frame *InputFrame, out *Pose) {
	move, rotate := frame.Read()

	fc.targetAngles[0] = clamp(fc.targetAngles.X()-rotate.Y(), fc.PitchMin, fc.PitchMax)
	fc.targetAngles[1] = fc.targetAngles.Y() - rotate.X()

	// forward input travels along the facing direction
	offset := Rotation(fc.targetAngles).Rotate(mgl64.Vec3{move.X(), move.Y(), -move.Z()})
	fc.targetPosition = fc.targetPosition.Add(offset)

	fc.position = lerpVec(fc.position, fc.targetPosition, Damp(fc.MoveDamping, dt))
	fc.angles = lerpVec(fc.angles, fc.targetAngles, Damp(fc.RotateDamping, dt))

	out.Position = fc.position
	out.Angles = mgl64.Vec3{fc.angles.X(), wrapDegrees(fc.angles.Y()), 0}
	out.Distance = fc.distance
}
