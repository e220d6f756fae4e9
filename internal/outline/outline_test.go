package outline

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/internal/scene"
)

func cube(name string, x float32) *scene.Node {
	n := scene.NewMesh(name, &scene.Mesh{Shape: scene.ShapeCube, Bounds: scene.UnitBounds, Color: [4]uint8{128, 128, 128, 255}})
	n.Transform.Position = mgl32.Vec3{x, 0.5, 0}
	return n
}

func TestSharedModeFollowsFirstSelected(t *testing.T) {
	o := New()
	assert.False(t, o.Visible())

	a, b := cube("A", -2), cube("B", 2)
	o.Refresh([]*scene.Node{a, b})
	require.True(t, o.Visible())
	hs := o.Highlights()
	require.Len(t, hs, 1)
	assert.Same(t, a, hs[0].Target)
	assert.Equal(t, a.Transform.Position, hs[0].Transform.Position)
	assert.InDelta(t, 1.05, hs[0].Transform.Scale.X(), 1e-6)

	o.Refresh(nil)
	assert.False(t, o.Visible())
}

func TestPerObjectMode(t *testing.T) {
	o := New()
	o.Mode = ModePerObject
	o.Refresh([]*scene.Node{cube("A", -2), cube("B", 2)})
	assert.Len(t, o.Highlights(), 2)
}

func TestHighlightMeshIsACopy(t *testing.T) {
	o := New()
	a := cube("A", 0)
	o.Refresh([]*scene.Node{a})
	a.Mesh.Color = [4]uint8{255, 0, 0, 255}
	assert.Equal(t, [4]uint8{128, 128, 128, 255}, o.Highlights()[0].Mesh.Color)
	assert.Equal(t, scene.ShapeCube, o.Highlights()[0].Mesh.Shape)
}

func TestSnapToAndHide(t *testing.T) {
	o := New()
	a := cube("A", 0)
	o.SnapTo(a)
	require.True(t, o.Visible())

	a.Transform.Position = mgl32.Vec3{5, 0.5, 0}
	o.SnapTo(a)
	assert.Equal(t, mgl32.Vec3{5, 0.5, 0}, o.Highlights()[0].Transform.Position)

	o.Hide()
	assert.False(t, o.Visible())

	o.SnapTo(scene.NewNode("empty", scene.KindEmpty))
	assert.False(t, o.Visible(), "non-mesh nodes get no outline")
}

func TestWorldMatrixUsesParent(t *testing.T) {
	group := scene.NewNode("Group1", scene.KindGroup)
	group.Transform.Position = mgl32.Vec3{10, 0, 0}
	a := cube("A", 1)
	group.Add(a)

	o := New()
	o.Refresh([]*scene.Node{a})
	pos := o.Highlights()[0].WorldMatrix().Col(3).Vec3()
	assert.InDelta(t, 11, pos.X(), 1e-5)
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("per-object")
	assert.True(t, ok)
	assert.Equal(t, ModePerObject, m)
	assert.Equal(t, "per-object", m.String())
	_, ok = ParseMode("rainbow")
	assert.False(t, ok)
}
