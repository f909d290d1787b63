// Package scene describes the viewed content's extent and the camera
// placements derived from it.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/normanking/cortexcam/internal/camera"
)

// BoundingBox is an axis-aligned box given by center and half extents
type BoundingBox struct {
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
}

// NewBoundingBoxMinMax creates a box spanning min to max
func NewBoundingBoxMinMax(min, max mgl64.Vec3) BoundingBox {
	return BoundingBox{
		Center:      min.Add(max).Mul(0.5),
		HalfExtents: max.Sub(min).Mul(0.5),
	}
}

// Min returns the lowest corner
func (b BoundingBox) Min() mgl64.Vec3 {
	return b.Center.Sub(b.HalfExtents)
}

// Max returns the highest corner
func (b BoundingBox) Max() mgl64.Vec3 {
	return b.Center.Add(b.HalfExtents)
}

// Size returns the length of the half-extent diagonal
func (b BoundingBox) Size() float64 {
	return b.HalfExtents.Len()
}

// ContainsPoint reports whether p lies inside or on the box
func (b BoundingBox) ContainsPoint(p mgl64.Vec3) bool {
	lo, hi := b.Min(), b.Max()
	for i := 0; i < 3; i++ {
		if p[i] < lo[i] || p[i] > hi[i] {
			return false
		}
	}
	return true
}

// Union returns the smallest box holding both b and o
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	bl, bh := b.Min(), b.Max()
	ol, oh := o.Min(), o.Max()
	lo := mgl64.Vec3{math.Min(bl[0], ol[0]), math.Min(bl[1], ol[1]), math.Min(bl[2], ol[2])}
	hi := mgl64.Vec3{math.Max(bh[0], oh[0]), math.Max(bh[1], oh[1]), math.Max(bh[2], oh[2])}
	return NewBoundingBoxMinMax(lo, hi)
}

// FramePose returns a pose that fits the whole box in view, looking at
// its center from above and to the side.
func (b BoundingBox) FramePose(fov float64) camera.Pose {
	distance := b.Size() / math.Sin(mgl64.DegToRad(fov)*0.5)
	if distance <= 0 || math.IsNaN(distance) || math.IsInf(distance, 0) {
		distance = 1
	}
	from := mgl64.Vec3{2, 1, 2}.Normalize().Mul(distance).Add(b.Center)
	return camera.NewPose(from, b.Center, fov)
}
