package scene

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitCubeDoc builds a document with one mesh spanning [-1,1]^3 and no nodes
func unitCubeDoc() *gltf.Document {
	doc := gltf.NewDocument()
	positions := [][3]float32{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	pos := modeler.WritePosition(doc, positions)
	doc.Meshes = []*gltf.Mesh{{
		Name: "cube",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{gltf.POSITION: pos},
		}},
	}}
	return doc
}

func TestBoundsFromDocument_TranslatedNode(t *testing.T) {
	doc := unitCubeDoc()
	doc.Nodes = []*gltf.Node{{
		Name:        "moved",
		Mesh:        gltf.Index(0),
		Translation: [3]float64{10, 0, 0},
		Scale:       [3]float64{2, 2, 2},
		Rotation:    [4]float64{0, 0, 0, 1},
	}}
	doc.Scenes[0].Nodes = []int{0}

	b, err := BoundsFromDocument(doc)
	require.NoError(t, err)
	assertVecNear(t, mgl64.Vec3{10, 0, 0}, b.Center, 1e-6, "center %v", b.Center)
	assertVecNear(t, mgl64.Vec3{2, 2, 2}, b.HalfExtents, 1e-6, "half %v", b.HalfExtents)
}

func TestBoundsFromDocument_NestedRotation(t *testing.T) {
	doc := unitCubeDoc()

	// child mesh offset along X, parent turns it a quarter about Y
	s := 0.7071067811865476
	doc.Nodes = []*gltf.Node{
		{Name: "parent", Children: []int{1}, Rotation: [4]float64{0, s, 0, s}, Scale: [3]float64{1, 1, 1}},
		{Name: "child", Mesh: gltf.Index(0), Translation: [3]float64{5, 0, 0}, Rotation: [4]float64{0, 0, 0, 1}, Scale: [3]float64{1, 1, 1}},
	}
	doc.Scenes[0].Nodes = []int{0}

	b, err := BoundsFromDocument(doc)
	require.NoError(t, err)
	assertVecNear(t, mgl64.Vec3{0, 0, -5}, b.Center, 1e-6, "center %v", b.Center)
	assertVecNear(t, mgl64.Vec3{1, 1, 1}, b.HalfExtents, 1e-6, "half %v", b.HalfExtents)
}

func TestBoundsFromDocument_ReadsPositionsWithoutMinMax(t *testing.T) {
	doc := unitCubeDoc()
	acr := doc.Accessors[doc.Meshes[0].Primitives[0].Attributes[gltf.POSITION]]
	acr.Min = nil
	acr.Max = nil
	doc.Scenes = nil
	doc.Scene = nil

	b, err := BoundsFromDocument(doc)
	require.NoError(t, err)
	assertVecNear(t, mgl64.Vec3{}, b.Center, 1e-6)
	assertVecNear(t, mgl64.Vec3{1, 1, 1}, b.HalfExtents, 1e-6)
}

func TestBoundsFromDocument_Empty(t *testing.T) {
	doc := gltf.NewDocument()
	_, err := BoundsFromDocument(doc)
	assert.True(t, errors.Is(err, ErrEmptyScene))
}

func TestBoundsFromDocument_BadNodeIndex(t *testing.T) {
	doc := unitCubeDoc()
	doc.Scenes[0].Nodes = []int{3}
	_, err := BoundsFromDocument(doc)
	assert.Error(t, err)
}

func TestLoadGLTFBounds_RoundTrip(t *testing.T) {
	doc := unitCubeDoc()
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0), Translation: [3]float64{0, 3, 0}, Rotation: [4]float64{0, 0, 0, 1}, Scale: [3]float64{1, 1, 1}}}
	doc.Scenes[0].Nodes = []int{0}

	path := filepath.Join(t.TempDir(), "cube.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	b, err := LoadGLTFBounds(path)
	require.NoError(t, err)
	assertVecNear(t, mgl64.Vec3{0, 3, 0}, b.Center, 1e-6)
}

func TestLoadGLTFBounds_MissingFile(t *testing.T) {
	_, err := LoadGLTFBounds(filepath.Join(t.TempDir(), "nope.gltf"))
	assert.Error(t, err)
}

// assertVecNear compares component-wise with an absolute tolerance.
func assertVecNear(t *testing.T, want, got mgl64.Vec3, eps float64, msgAndArgs ...interface{}) bool {
	t.Helper()
	return assert.InDeltaSlice(t, want[:], got[:], eps, msgAndArgs...)
}
