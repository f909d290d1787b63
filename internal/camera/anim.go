package camera

import "github.com/normanking/cortexcam/internal/anim"

// AnimController plays a scripted track and ignores user input
type AnimController struct {
	Player *anim.Player

	// OnReject is called when the track produced a non-finite sample
	OnReject func()
}

// NewAnimController creates a controller for track, positioned at its start
func NewAnimController(track *anim.Track) *AnimController {
	return &AnimController{Player: anim.NewPlayer(track)}
}

// OnEnter is a no-op; playback state lives in the player
func (ac *AnimController) OnEnter(pose Pose) {}

// OnExit is a no-op
func (ac *AnimController) OnExit(pose Pose) {}

// Update advances playback and looks from the track position to its target.
// Pending input is drained so it does not reach the next controller.
func (ac *AnimController) Update(dt float64, frame *InputFrame, out *Pose) {
	if !ac.Player.Update(dt) && ac.OnReject != nil {
		ac.OnReject()
	}

	out.Look(ac.Player.Position(), ac.Player.Target())

	frame.Read()
}

// Pose returns the pose the player currently describes, keeping fov
func (ac *AnimController) Pose(fov float64) Pose {
	return NewPose(ac.Player.Position(), ac.Player.Target(), fov)
}
