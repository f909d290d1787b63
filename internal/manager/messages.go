package manager

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/normanking/cortexcam/internal/camera"
)

// Command is a host input command
type Command string

const (
	CommandFrame     Command = "frame"
	CommandReset     Command = "reset"
	CommandPlayPause Command = "playPause"
	CommandCancel    Command = "cancel"
	CommandInterrupt Command = "interrupt"
)

// ParseCommand converts a command name into a Command
func ParseCommand(s string) (Command, error) {
	switch Command(s) {
	case CommandFrame, CommandReset, CommandPlayPause, CommandCancel, CommandInterrupt:
		return Command(s), nil
	}
	return "", fmt.Errorf("unknown command %q", s)
}

// Message is one event the manager reacts to. The set is closed: only
// the types in this file implement it.
type Message interface {
	message()
}

// InputCommand carries a host input command
type InputCommand struct {
	Command Command
}

// PickResult is a resolved pick location in world space
type PickResult struct {
	Position mgl64.Vec3
}

// PickRequest asks the configured Picker to resolve a screen position.
// A hit arrives later as a PickResult.
type PickRequest struct {
	X, Y float64
}

// ScrubAnim sets the animation time directly, in seconds
type ScrubAnim struct {
	Time float64
}

// SetMode requests a navigation mode
type SetMode struct {
	Mode camera.Mode
}

func (InputCommand) message() {}
func (PickResult) message()   {}
func (PickRequest) message()  {}
func (ScrubAnim) message()    {}
func (SetMode) message()      {}

// ModeChanged is the payload of bus.EventTypeCameraModeChanged
type ModeChanged struct {
	Mode       camera.Mode
	Previous   camera.Mode
	Generation uint64
}
