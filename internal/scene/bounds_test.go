package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/normanking/cortexcam/internal/camera"
	"github.com/stretchr/testify/assert"
)

func TestBoundingBox_MinMax(t *testing.T) {
	b := NewBoundingBoxMinMax(mgl64.Vec3{-1, 0, 2}, mgl64.Vec3{3, 4, 6})

	assert.Equal(t, mgl64.Vec3{1, 2, 4}, b.Center)
	assert.Equal(t, mgl64.Vec3{2, 2, 2}, b.HalfExtents)
	assert.Equal(t, mgl64.Vec3{-1, 0, 2}, b.Min())
	assert.Equal(t, mgl64.Vec3{3, 4, 6}, b.Max())
	assert.InDelta(t, math.Sqrt(12), b.Size(), 1e-12)
}

func TestBoundingBox_ContainsPoint(t *testing.T) {
	b := BoundingBox{HalfExtents: mgl64.Vec3{1, 1, 1}}

	tests := []struct {
		p    mgl64.Vec3
		want bool
	}{
		{mgl64.Vec3{0, 0, 0}, true},
		{mgl64.Vec3{1, 1, 1}, true},
		{mgl64.Vec3{-1, 0.5, 0}, true},
		{mgl64.Vec3{1.01, 0, 0}, false},
		{mgl64.Vec3{0, -2, 0}, false},
		{mgl64.Vec3{2, 1, 2}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.ContainsPoint(tt.p), "point %v", tt.p)
	}
}

func TestBoundingBox_Union(t *testing.T) {
	a := NewBoundingBoxMinMax(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1})
	b := NewBoundingBoxMinMax(mgl64.Vec3{-2, 0.5, 0.5}, mgl64.Vec3{0, 3, 0.75})

	u := a.Union(b)
	assert.Equal(t, mgl64.Vec3{-2, 0, 0}, u.Min())
	assert.Equal(t, mgl64.Vec3{1, 3, 1}, u.Max())
}

func TestBoundingBox_FramePose(t *testing.T) {
	b := BoundingBox{Center: mgl64.Vec3{1, 2, 3}, HalfExtents: mgl64.Vec3{1, 1, 1}}
	pose := b.FramePose(60)

	// sin(30deg) = 0.5
	wantDist := math.Sqrt(3) / 0.5
	assert.InDelta(t, wantDist, pose.Distance, 1e-9)
	assert.Equal(t, 60.0, pose.FOV)
	assertVecNear(t, b.Center, pose.FocalPoint(), 1e-9)

	dir := pose.Position.Sub(b.Center).Normalize()
	assertVecNear(t, mgl64.Vec3{2, 1, 2}.Normalize(), dir, 1e-9)
	assert.False(t, b.ContainsPoint(pose.Position))
}

func TestBoundingBox_FramePoseDegenerate(t *testing.T) {
	b := BoundingBox{Center: mgl64.Vec3{0, 1, 0}}
	pose := b.FramePose(camera.DefaultFOV)

	assert.InDelta(t, 1.0, pose.Distance, 1e-12)
	assert.True(t, camera.IsFinite(pose.Position))
}
