package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ErrEmptyScene is returned when a document has no mesh geometry
var ErrEmptyScene = errors.New("scene has no geometry")

// LoadGLTFBounds opens a .gltf or .glb file and returns the world-space
// bounds of its default scene.
func LoadGLTFBounds(path string) (BoundingBox, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return BoundingBox{}, fmt.Errorf("open gltf: %w", err)
	}
	return BoundsFromDocument(doc)
}

// BoundsFromDocument unions the transformed POSITION extents of every
// mesh primitive reachable from the document's default scene.
func BoundsFromDocument(doc *gltf.Document) (BoundingBox, error) {
	w := boundsWalker{doc: doc}

	switch {
	case len(doc.Scenes) > 0:
		idx := 0
		if doc.Scene != nil {
			idx = *doc.Scene
		}
		if idx < 0 || idx >= len(doc.Scenes) {
			return BoundingBox{}, fmt.Errorf("default scene %d out of range", idx)
		}
		for _, n := range doc.Scenes[idx].Nodes {
			if err := w.visit(n, mgl64.Ident4()); err != nil {
				return BoundingBox{}, err
			}
		}
	default:
		// no scene graph: take meshes untransformed
		for i := range doc.Meshes {
			if err := w.addMesh(i, mgl64.Ident4()); err != nil {
				return BoundingBox{}, err
			}
		}
	}

	if !w.found {
		return BoundingBox{}, ErrEmptyScene
	}
	return NewBoundingBoxMinMax(w.min, w.max), nil
}

type boundsWalker struct {
	doc      *gltf.Document
	found    bool
	min, max mgl64.Vec3
}

func (w *boundsWalker) visit(nodeIdx int, parent mgl64.Mat4) error {
	if nodeIdx < 0 || nodeIdx >= len(w.doc.Nodes) {
		return fmt.Errorf("node %d out of range", nodeIdx)
	}
	node := w.doc.Nodes[nodeIdx]
	world := parent.Mul4(localTransform(node))

	if node.Mesh != nil {
		if err := w.addMesh(*node.Mesh, world); err != nil {
			return err
		}
	}
	for _, child := range node.Children {
		if err := w.visit(child, world); err != nil {
			return err
		}
	}
	return nil
}

func (w *boundsWalker) addMesh(meshIdx int, world mgl64.Mat4) error {
	if meshIdx < 0 || meshIdx >= len(w.doc.Meshes) {
		return fmt.Errorf("mesh %d out of range", meshIdx)
	}
	for _, prim := range w.doc.Meshes[meshIdx].Primitives {
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		lo, hi, err := w.accessorExtents(posIdx)
		if err != nil {
			return err
		}
		w.addBox(lo, hi, world)
	}
	return nil
}

// accessorExtents prefers the accessor's declared min/max and reads the
// vertex data only when they are missing.
func (w *boundsWalker) accessorExtents(accessorIdx int) (mgl64.Vec3, mgl64.Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(w.doc.Accessors) {
		return mgl64.Vec3{}, mgl64.Vec3{}, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	acr := w.doc.Accessors[accessorIdx]
	if len(acr.Min) >= 3 && len(acr.Max) >= 3 {
		return mgl64.Vec3{acr.Min[0], acr.Min[1], acr.Min[2]},
			mgl64.Vec3{acr.Max[0], acr.Max[1], acr.Max[2]}, nil
	}

	positions, err := modeler.ReadPosition(w.doc, acr, nil)
	if err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, fmt.Errorf("read positions: %w", err)
	}
	if len(positions) == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}, fmt.Errorf("accessor %d has no positions", accessorIdx)
	}

	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range positions {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], float64(p[i]))
			hi[i] = math.Max(hi[i], float64(p[i]))
		}
	}
	return lo, hi, nil
}

// addBox grows the running extents by the eight transformed corners of a local box
func (w *boundsWalker) addBox(lo, hi mgl64.Vec3, world mgl64.Mat4) {
	for i := 0; i < 8; i++ {
		corner := mgl64.Vec3{lo[0], lo[1], lo[2]}
		if i&1 != 0 {
			corner[0] = hi[0]
		}
		if i&2 != 0 {
			corner[1] = hi[1]
		}
		if i&4 != 0 {
			corner[2] = hi[2]
		}
		p := mgl64.TransformCoordinate(corner, world)

		if !w.found {
			w.min, w.max = p, p
			w.found = true
			continue
		}
		for k := 0; k < 3; k++ {
			w.min[k] = math.Min(w.min[k], p[k])
			w.max[k] = math.Max(w.max[k], p[k])
		}
	}
}

func localTransform(node *gltf.Node) mgl64.Mat4 {
	if m := node.MatrixOrDefault(); m != gltf.DefaultMatrix {
		return mgl64.Mat4(m)
	}

	t := node.TranslationOrDefault()
	r := node.RotationOrDefault()
	s := node.ScaleOrDefault()

	rot := mgl64.Quat{W: r[3], V: mgl64.Vec3{r[0], r[1], r[2]}}
	return mgl64.Translate3D(t[0], t[1], t[2]).
		Mul4(rot.Mat4()).
		Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
}
