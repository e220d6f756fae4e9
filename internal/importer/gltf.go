package importer

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/g3n/engine/loader/gltf"
	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/scene"
)

// maxGLTFDepth bounds node recursion so a cyclic children list cannot loop forever.
const maxGLTFDepth = 64

// parseGLTF decodes JSON glTF or binary GLB (sniffed by its "glTF" magic) and mirrors the
// default scene's node tree. Nodes referencing a mesh become mesh nodes whose bounds come
// from the POSITION accessor min/max of every primitive.
func parseGLTF(name string, data []byte) (*scene.Node, error) {
	var (
		doc *gltf.GLTF
		err error
	)
	if bytes.HasPrefix(data, []byte("glTF")) {
		doc, err = gltf.ParseBinReader(bytes.NewReader(data), "")
	} else {
		doc, err = gltf.ParseJSONReader(bytes.NewReader(data), "")
	}
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("gltf: empty document")
	}
	root := scene.NewNode(name, scene.KindEmpty)
	for _, idx := range gltfRoots(doc) {
		n, err := gltfNode(doc, idx, 0)
		if err != nil {
			return nil, err
		}
		root.Add(n)
	}
	return root, nil
}

// gltfRoots returns the top-level node indices of the default scene, falling back to the
// first scene and then to every node that is nobody's child.
func gltfRoots(doc *gltf.GLTF) []int {
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		return doc.Scenes[0].Nodes
	}
	child := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(child) {
				child[c] = true
			}
		}
	}
	var out []int
	for i, isChild := range child {
		if !isChild {
			out = append(out, i)
		}
	}
	return out
}

func gltfNode(doc *gltf.GLTF, idx, depth int) (*scene.Node, error) {
	if idx < 0 || idx >= len(doc.Nodes) {
		return nil, fmt.Errorf("gltf: node index %d out of range", idx)
	}
	if depth > maxGLTFDepth {
		return nil, errors.New("gltf: node hierarchy too deep or cyclic")
	}
	nd := doc.Nodes[idx]

	var n *scene.Node
	if nd.Mesh != nil && *nd.Mesh >= 0 && *nd.Mesh < len(doc.Meshes) {
		m := doc.Meshes[*nd.Mesh]
		nodeName := nd.Name
		if nodeName == "" {
			nodeName = m.Name
		}
		b := scene.EmptyAABB()
		for _, prim := range m.Primitives {
			ai, ok := prim.Attributes["POSITION"]
			if !ok || ai < 0 || ai >= len(doc.Accessors) {
				continue
			}
			acc := doc.Accessors[ai]
			if len(acc.Min) >= 3 && len(acc.Max) >= 3 {
				b = b.Extend(mgl32.Vec3{acc.Min[0], acc.Min[1], acc.Min[2]})
				b = b.Extend(mgl32.Vec3{acc.Max[0], acc.Max[1], acc.Max[2]})
			}
		}
		n = importedMesh(nodeName, b)
	} else {
		n = scene.NewNode(nd.Name, scene.KindEmpty)
	}
	n.Transform = gltfTransform(nd)

	for _, c := range nd.Children {
		child, err := gltfNode(doc, c, depth+1)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

// gltfTransform reads either the TRS properties or, when present, the column-major matrix.
func gltfTransform(nd gltf.Node) scene.Transform {
	t := scene.IdentityTransform()
	if nd.Matrix != nil {
		m := mgl32.Mat4(*nd.Matrix)
		t.Position = m.Col(3).Vec3()
		sx, sy, sz := m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()
		if sx > 0 && sy > 0 && sz > 0 {
			t.Scale = mgl32.Vec3{sx, sy, sz}
			rot := mgl32.Mat3FromCols(
				m.Col(0).Vec3().Mul(1/sx),
				m.Col(1).Vec3().Mul(1/sy),
				m.Col(2).Vec3().Mul(1/sz),
			)
			t.Rotation = mgl32.Mat4ToQuat(rot.Mat4()).Normalize()
		}
		return t
	}
	if nd.Translation != nil {
		t.Position = mgl32.Vec3{nd.Translation[0], nd.Translation[1], nd.Translation[2]}
	}
	if nd.Rotation != nil {
		q := mgl32.Quat{W: nd.Rotation[3], V: mgl32.Vec3{nd.Rotation[0], nd.Rotation[1], nd.Rotation[2]}}
		if q.Len() > 0 {
			t.Rotation = q.Normalize()
		}
	}
	if nd.Scale != nil {
		t.Scale = mgl32.Vec3{nd.Scale[0], nd.Scale[1], nd.Scale[2]}
	}
	return t
}
