package importer

import (
	"errors"
	"strings"

	"github.com/g3n/engine/loader/obj"
	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/scene"
)

// parseOBJ builds one mesh node per named object that has faces. Material libraries are
// not followed.
func parseOBJ(name, text string) (*scene.Node, error) {
	dec, err := obj.DecodeReader(strings.NewReader(text), strings.NewReader(""))
	if err != nil {
		return nil, err
	}
	root := scene.NewNode(name, scene.KindEmpty)
	for i := range dec.Objects {
		o := dec.Objects[i]
		if len(o.Faces) == 0 {
			continue
		}
		b := scene.EmptyAABB()
		for _, f := range o.Faces {
			for _, vi := range f.Vertices {
				if p, ok := objVertex(dec.Vertices, vi); ok {
					b = b.Extend(p)
				}
			}
		}
		root.Add(importedMesh(o.Name, b))
	}
	if root.ChildCount() == 0 && len(dec.Vertices) > 0 {
		return nil, errors.New("obj: no faces")
	}
	return root, nil
}

func objVertex(verts []float32, i int) (mgl32.Vec3, bool) {
	if i < 0 || i*3+2 >= len(verts) {
		return mgl32.Vec3{}, false
	}
	return mgl32.Vec3{verts[i*3], verts[i*3+1], verts[i*3+2]}, true
}
