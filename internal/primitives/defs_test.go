package primitives

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/internal/scene"
)

func TestDefaultSceneSpawn(t *testing.T) {
	g := scene.New()
	require.NoError(t, Spawn(g, DefaultScene()))

	kids := g.Root.Children()
	require.Len(t, kids, 5)
	assert.Equal(t, scene.GridName, kids[0].Name)
	assert.Equal(t, scene.KindHelper, kids[0].Kind)
	assert.Equal(t, "", kids[4].Name)
	assert.Equal(t, scene.KindLight, kids[4].Kind)

	plane := g.FindMesh(scene.PlaneName)
	require.NotNil(t, plane)
	assert.Equal(t, mgl32.Vec3{100, 1, 100}, plane.Transform.Scale)

	cube := g.FindMesh("MyCube")
	require.NotNil(t, cube)
	assert.Equal(t, mgl32.Vec3{-2, 0.5, 0}, cube.Transform.Position)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, cube.Transform.Scale)
	assert.Equal(t, [4]uint8{128, 128, 128, 255}, cube.Mesh.Color)
	assert.NotNil(t, g.FindMesh("MyCube1"))
}

func TestLoadScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	src := `objects:
  - name: Ball
    type: sphere
    position: [0, 1, 0]
    size: [2, 2, 2]
    color: "#ff0000"
  - name: Crate
    type: box
    rotation: [0, 90, 0]
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	def, err := LoadScene(path)
	require.NoError(t, err)
	require.Len(t, def.Objects, 2)

	ball, err := Build(def.Objects[0])
	require.NoError(t, err)
	assert.Equal(t, scene.ShapeSphere, ball.Mesh.Shape)
	assert.Equal(t, [4]uint8{255, 0, 0, 255}, ball.Mesh.Color)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, ball.Transform.Scale)

	crate, err := Build(def.Objects[1])
	require.NoError(t, err)
	assert.Equal(t, scene.ShapeCube, crate.Mesh.Shape)
	x := crate.Transform.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, -1, x.Z(), 1e-5)

	_, err = LoadScene(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	_, err = ParseScene([]byte("objects: {"))
	assert.Error(t, err)
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(PrimitiveDef{Name: "X", Type: "torus"})
	assert.Error(t, err)
	_, err = Build(PrimitiveDef{Name: "X", Type: "cube", Color: "#zz"})
	assert.Error(t, err)

	g := scene.New()
	err = Spawn(g, SceneDef{Objects: []PrimitiveDef{{Name: "ok", Type: "cube"}, {Name: "bad", Type: "torus"}}})
	assert.Error(t, err)
	assert.NotNil(t, g.FindMesh("ok"), "valid objects are still added")
}

func TestBuildColor(t *testing.T) {
	n, err := Build(PrimitiveDef{Name: "a", Type: "cube", Color: "#abc"})
	require.NoError(t, err)
	assert.Equal(t, [4]uint8{0xaa, 0xbb, 0xcc, 0xff}, n.Mesh.Color)

	n, err = Build(PrimitiveDef{Name: "b", Type: "cube", Color: "#11223344"})
	require.NoError(t, err)
	assert.Equal(t, [4]uint8{0x11, 0x22, 0x33, 0x44}, n.Mesh.Color)

	n, err = Build(PrimitiveDef{Name: "c", Type: "cube"})
	require.NoError(t, err)
	assert.Equal(t, DefaultColor, n.Mesh.Color)

	_, err = Build(PrimitiveDef{Name: "d", Type: "cube", Color: "#12345"})
	assert.Error(t, err)
	_, err = Build(PrimitiveDef{Name: "e", Type: "cube", Color: "11223344"})
	assert.Error(t, err, "hex colors need a leading #")
}

func TestShapeMatrix(t *testing.T) {
	box := scene.Mesh{Shape: scene.ShapeBox, Bounds: scene.AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{2, 4, 6}}}
	m := ShapeMatrix(box, mgl32.Translate3D(10, 0, 0))
	corner := m.Mul4x1(mgl32.Vec4{0.5, 0.5, 0.5, 1}).Vec3()
	assert.InDelta(t, 12, corner.X(), 1e-5)
	assert.InDelta(t, 4, corner.Y(), 1e-5)
	assert.InDelta(t, 6, corner.Z(), 1e-5)

	cyl := ShapeMatrix(scene.Mesh{Shape: scene.ShapeCylinder}, mgl32.Ident4())
	assert.InDelta(t, -0.5, cyl.Col(3).Y(), 1e-6)

	cube := ShapeMatrix(scene.Mesh{Shape: scene.ShapeCube}, mgl32.Ident4())
	assert.Equal(t, mgl32.Ident4(), cube)
}

func TestShippedScene(t *testing.T) {
	def, err := LoadScene(filepath.Join("..", "..", "assets", "scenes", "default.yaml"))
	require.NoError(t, err)
	g := scene.New()
	require.NoError(t, Spawn(g, def))
	for _, name := range []string{scene.PlaneName, "MyCube", "MyCube1", "Pillar", "Ball"} {
		assert.NotNil(t, g.FindMesh(name), name)
	}
}
