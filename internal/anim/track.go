package anim

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidTrack is wrapped by all track validation errors
var ErrInvalidTrack = errors.New("invalid track")

// Keyframe is one authored camera sample. Time is in frames, not seconds.
type Keyframe struct {
	Time     float64
	Position mgl64.Vec3
	Target   mgl64.Vec3
}

// Track is an authored camera path. It is immutable once built; the
// fitted spline is computed on first use and shared afterwards.
type Track struct {
	Name       string
	Keyframes  []Keyframe
	FrameRate  float64 // keyframe time units per second
	Duration   float64 // seconds
	LoopMode   LoopMode
	Smoothness float64

	splineOnce sync.Once
	spline     *CubicSpline
}

// Validate checks the structural invariants of the track
func (t *Track) Validate() error {
	if len(t.Keyframes) == 0 {
		return fmt.Errorf("%w %q: no keyframes", ErrInvalidTrack, t.Name)
	}
	if t.FrameRate <= 0 {
		return fmt.Errorf("%w %q: frame rate must be positive, got %v", ErrInvalidTrack, t.Name, t.FrameRate)
	}
	if t.Duration < 0 {
		return fmt.Errorf("%w %q: negative duration %v", ErrInvalidTrack, t.Name, t.Duration)
	}
	for i := 1; i < len(t.Keyframes); i++ {
		if t.Keyframes[i].Time <= t.Keyframes[i-1].Time {
			return fmt.Errorf("%w %q: keyframe %d time %v does not follow %v",
				ErrInvalidTrack, t.Name, i, t.Keyframes[i].Time, t.Keyframes[i-1].Time)
		}
	}
	return nil
}

// IsClosedLoop reports whether the last keyframe lands exactly on the end
// of the track, in which case the curve needs one extra frame to wrap.
func (t *Track) IsClosedLoop() bool {
	if len(t.Keyframes) == 0 || t.FrameRate <= 0 {
		return false
	}
	last := t.Keyframes[len(t.Keyframes)-1].Time / t.FrameRate
	return math.Abs(t.Duration-last) < 1e-9
}

// Spline returns the looping spline fitted through position and target,
// interleaved as six values per keyframe.
func (t *Track) Spline() *CubicSpline {
	t.splineOnce.Do(func() {
		times := make([]float64, len(t.Keyframes))
		points := make([]float64, 0, len(t.Keyframes)*6)
		for i, k := range t.Keyframes {
			times[i] = k.Time
			points = append(points, k.Position[0], k.Position[1], k.Position[2])
			points = append(points, k.Target[0], k.Target[1], k.Target[2])
		}

		extra := 0.0
		if t.IsClosedLoop() {
			extra = 1
		}

		t.spline = SplineFromPointsLooping((t.Duration+extra)*t.FrameRate, times, points, t.Smoothness)
	})
	return t.spline
}
