package importer

import (
	"errors"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/importer/fbx"
	"scene-editor/internal/scene"
)

// parseFBX builds the model hierarchy of a binary FBX file. Model records become nodes
// (class "Mesh" makes a mesh node), object-object connections give the parenting, and
// geometry vertices connected to a model give its bounds.
func parseFBX(name string, data []byte) (*scene.Node, error) {
	doc, err := fbx.Parse(data)
	if err != nil {
		return nil, err
	}
	objects := doc.Root.Child("Objects")
	if objects == nil {
		return nil, errors.New("fbx: no Objects section")
	}

	models := make(map[int64]*scene.Node)
	var order []int64
	bounds := make(map[int64]scene.AABB)
	for _, rec := range objects.Children {
		id, ok := propInt(rec, 0)
		if !ok {
			continue
		}
		switch rec.Name {
		case "Model":
			n := fbxModel(rec)
			models[id] = n
			order = append(order, id)
		case "Geometry":
			if b, ok := geometryBounds(rec); ok {
				bounds[id] = b
			}
		}
	}

	root := scene.NewNode(name, scene.KindEmpty)
	if conns := doc.Root.Child("Connections"); conns != nil {
		for _, c := range conns.ChildrenNamed("C") {
			if kind, _ := propString(c, 0); kind != "OO" {
				continue
			}
			child, ok1 := propInt(c, 1)
			parent, ok2 := propInt(c, 2)
			if !ok1 || !ok2 {
				continue
			}
			target, ok := models[parent]
			if !ok {
				continue
			}
			if b, ok := bounds[child]; ok && target.IsMesh() {
				target.Mesh.Bounds = b
				continue
			}
			if n, ok := models[child]; ok && n != target && !isAncestor(n, target) {
				target.Add(n)
			}
		}
	}
	for _, id := range order {
		if n := models[id]; n.Parent() == nil {
			root.Add(n)
		}
	}
	return root, nil
}

func isAncestor(a, n *scene.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p == a {
			return true
		}
	}
	return false
}

func fbxModel(rec *fbx.Record) *scene.Node {
	full, _ := propString(rec, 1)
	name := objectName(full)
	class, _ := propString(rec, 2)

	var n *scene.Node
	if class == "Mesh" {
		n = importedMesh(name, scene.UnitBounds)
	} else {
		n = scene.NewNode(name, scene.KindEmpty)
	}
	if props := rec.Child("Properties70"); props != nil {
		for _, p := range props.ChildrenNamed("P") {
			key, _ := propString(p, 0)
			v, ok := propVec3(p, 4)
			if !ok {
				continue
			}
			switch key {
			case "Lcl Translation":
				n.Transform.Position = v
			case "Lcl Rotation":
				n.Transform.Rotation = fbxRotation(v)
			case "Lcl Scaling":
				n.Transform.Scale = v
			}
		}
	}
	return n
}

// fbxRotation converts Lcl Rotation degrees in the default eEulerXYZ order, which
// applies X first: R = Rz·Ry·Rx.
func fbxRotation(deg mgl32.Vec3) mgl32.Quat {
	x := mgl32.QuatRotate(mgl32.DegToRad(deg.X()), mgl32.Vec3{1, 0, 0})
	y := mgl32.QuatRotate(mgl32.DegToRad(deg.Y()), mgl32.Vec3{0, 1, 0})
	z := mgl32.QuatRotate(mgl32.DegToRad(deg.Z()), mgl32.Vec3{0, 0, 1})
	return z.Mul(y).Mul(x)
}

// objectName strips the class suffix from a binary name ("Wheel\x00\x01Model") or the
// class prefix from a text-style one ("Model::Wheel").
func objectName(s string) string {
	if before, _, ok := strings.Cut(s, "\x00\x01"); ok {
		return before
	}
	if _, after, ok := strings.Cut(s, "::"); ok {
		return after
	}
	return s
}

func geometryBounds(rec *fbx.Record) (scene.AABB, bool) {
	verts := rec.Child("Vertices")
	if verts == nil || len(verts.Properties) == 0 {
		return scene.AABB{}, false
	}
	var flat []float32
	switch v := verts.Properties[0].(type) {
	case []float64:
		flat = make([]float32, len(v))
		for i, f := range v {
			flat[i] = float32(f)
		}
	case []float32:
		flat = v
	default:
		return scene.AABB{}, false
	}
	b := scene.EmptyAABB()
	for i := 0; i+2 < len(flat); i += 3 {
		b = b.Extend(mgl32.Vec3{flat[i], flat[i+1], flat[i+2]})
	}
	return b, b.Valid()
}

func propInt(rec *fbx.Record, i int) (int64, bool) {
	if i >= len(rec.Properties) {
		return 0, false
	}
	switch v := rec.Properties[i].(type) {
	case int64:
		return v, true
	case int32:
		return int64(v), true
	}
	return 0, false
}

func propString(rec *fbx.Record, i int) (string, bool) {
	if i >= len(rec.Properties) {
		return "", false
	}
	s, ok := rec.Properties[i].(string)
	return s, ok
}

func propFloat(v any) (float32, bool) {
	switch x := v.(type) {
	case float64:
		return float32(x), true
	case float32:
		return x, true
	case int32:
		return float32(x), true
	case int64:
		return float32(x), true
	}
	return 0, false
}

func propVec3(rec *fbx.Record, from int) (mgl32.Vec3, bool) {
	if from+3 > len(rec.Properties) {
		return mgl32.Vec3{}, false
	}
	var out mgl32.Vec3
	for i := range 3 {
		f, ok := propFloat(rec.Properties[from+i])
		if !ok {
			return mgl32.Vec3{}, false
		}
		out[i] = f
	}
	return out, true
}
