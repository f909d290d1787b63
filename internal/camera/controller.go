package camera

import "fmt"

// Mode identifies a navigation behavior
type Mode string

const (
	ModeOrbit Mode = "orbit"
	ModeFly   Mode = "fly"
	ModeAnim  Mode = "anim"
)

// ParseMode converts a mode name into a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeOrbit, ModeFly, ModeAnim:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown camera mode %q", s)
}

// Controller is one navigation behavior.
//
// OnEnter seeds the controller's private state from the pose the camera
// currently has, so taking over never moves the camera by itself. Update
// performs one navigation step and writes the resulting pose into out.
// OnExit is called on the outgoing controller during a switch.
type Controller interface {
	OnEnter(pose Pose)
	Update(dt float64, frame *InputFrame, out *Pose)
	OnExit(pose Pose)
}
