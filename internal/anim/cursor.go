// Package anim provides keyframed camera animation: a looping time cursor,
// a cubic spline evaluator and a player that ties them together.
package anim

import (
	"fmt"
	"math"
)

// LoopMode controls cursor behavior once playback reaches the end of a track
type LoopMode string

const (
	LoopClamp    LoopMode = "clamp"
	LoopRepeat   LoopMode = "repeat"
	LoopPingPong LoopMode = "pingpong"
)

// ParseLoopMode accepts the settings spellings of a loop mode.
// "none" is the legacy name for clamp.
func ParseLoopMode(s string) (LoopMode, error) {
	switch s {
	case "", "none", "clamp":
		return LoopClamp, nil
	case "repeat":
		return LoopRepeat, nil
	case "pingpong":
		return LoopPingPong, nil
	}
	return "", fmt.Errorf("unknown loop mode %q", s)
}

// Cursor tracks playback time under a loop policy
type Cursor struct {
	Duration float64
	LoopMode LoopMode

	// Timer counts elapsed time regardless of looping
	Timer float64

	cursor float64
}

// NewCursor creates a cursor at time zero
func NewCursor(duration float64, mode LoopMode) *Cursor {
	c := &Cursor{}
	c.Reset(duration, mode)
	return c
}

// Reset reinitializes the cursor to zero with a new duration and loop mode
func (c *Cursor) Reset(duration float64, mode LoopMode) {
	c.Duration = duration
	c.LoopMode = mode
	c.Timer = 0
	c.cursor = 0
}

// Update advances the cursor by dt seconds and applies the loop policy
func (c *Cursor) Update(dt float64) {
	c.Timer += dt
	c.cursor += dt

	// zero-length tracks are complete as soon as they start
	if c.Duration <= 0 {
		c.cursor = 0
		return
	}

	if c.cursor >= c.Duration {
		switch c.LoopMode {
		case LoopRepeat:
			c.cursor = math.Mod(c.cursor, c.Duration)
		case LoopPingPong:
			c.cursor = math.Mod(c.cursor, c.Duration*2)
		default:
			c.cursor = c.Duration
		}
	}
}

// Position returns the raw cursor, before any ping-pong fold
func (c *Cursor) Position() float64 {
	return c.cursor
}

// Value returns the playback time.
//
// Past the end of the track (only reachable in ping-pong) the value is
// Duration - cursor, which is negative over (Duration, 2*Duration). A looping
// spline samples a negative value from its prepended wrap segment, starting at
// times[n-2]-Duration, and clamps only below that.
func (c *Cursor) Value() float64 {
	if c.cursor > c.Duration {
		return c.Duration - c.cursor
	}
	return c.cursor
}

// SetValue jumps the cursor to v, wrapped into [0, Duration)
func (c *Cursor) SetValue(v float64) {
	if c.Duration <= 0 {
		c.cursor = 0
		return
	}
	c.cursor = floorMod(v, c.Duration)
}

// floorMod is a modulus that is never negative for positive m
func floorMod(n, m float64) float64 {
	return math.Mod(math.Mod(n, m)+m, m)
}
