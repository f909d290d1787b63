package anim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Player advances a cursor along a track and holds the current camera
// position and look-at target.
type Player struct {
	Cursor *Cursor

	track     *Track
	spline    *CubicSpline
	frameRate float64
	result    []float64

	position mgl64.Vec3
	target   mgl64.Vec3
}

// NewPlayer creates a player for track, evaluated at time zero
func NewPlayer(track *Track) *Player {
	spline := track.Spline()
	p := &Player{
		Cursor:    NewCursor(track.Duration, track.LoopMode),
		track:     track,
		spline:    spline,
		frameRate: track.FrameRate,
		result:    make([]float64, max(spline.Dim(), 6)),
	}
	p.Update(0)
	return p
}

// Update advances playback by dt seconds and re-evaluates the spline.
// It returns false when the spline produced a non-finite sample; the
// previous position and target are kept in that case.
func (p *Player) Update(dt float64) bool {
	p.Cursor.Update(dt)
	return p.Evaluate()
}

// Evaluate samples the spline at the current cursor value without
// advancing time.
func (p *Player) Evaluate() bool {
	p.spline.Evaluate(p.Cursor.Value()*p.frameRate, p.result)

	for _, v := range p.result[:6] {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	r := p.result
	p.position = mgl64.Vec3{r[0], r[1], r[2]}
	p.target = mgl64.Vec3{r[3], r[4], r[5]}
	return true
}

// Track returns the track being played
func (p *Player) Track() *Track {
	return p.track
}

// Duration returns the track length in seconds
func (p *Player) Duration() float64 {
	return p.Cursor.Duration
}

// Position returns the current camera position
func (p *Player) Position() mgl64.Vec3 {
	return p.position
}

// Target returns the current look-at target
func (p *Player) Target() mgl64.Vec3 {
	return p.target
}
