package anim

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Defaults for generated turntable tracks
const (
	DefaultRotateKeys     = 12
	DefaultRotateDuration = 20.0
)

// RotateTrack builds a repeating turntable orbit: the camera circles target
// about the world Y axis, starting from position, with one keyframe per
// 360/keys degrees. Times are in seconds (frame rate 1).
func RotateTrack(position, target mgl64.Vec3, keys int, duration float64) *Track {
	if keys <= 0 {
		keys = DefaultRotateKeys
	}
	if duration <= 0 {
		duration = DefaultRotateDuration
	}

	offset := position.Sub(target)
	keyframes := make([]Keyframe, keys)
	for i := 0; i < keys; i++ {
		angle := mgl64.DegToRad(-float64(i) / float64(keys) * 360)
		rotated := mgl64.Rotate3DY(angle).Mul3x1(offset)

		keyframes[i] = Keyframe{
			Time:     float64(i) / float64(keys) * duration,
			Position: target.Add(rotated),
			Target:   target,
		}
	}

	return &Track{
		Name:       "rotate",
		Keyframes:  keyframes,
		FrameRate:  1,
		Duration:   duration,
		LoopMode:   LoopRepeat,
		Smoothness: 1,
	}
}
