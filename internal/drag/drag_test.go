package drag

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/internal/logger"
	"scene-editor/internal/outline"
	"scene-editor/internal/picking"
	"scene-editor/internal/scene"
)

type fakeOrbit struct {
	enabled bool
	calls   []bool
}

func (o *fakeOrbit) SetEnabled(enabled bool) {
	o.enabled = enabled
	o.calls = append(o.calls, enabled)
}

// down returns a ray pointing straight down through (x, 10, z).
func down(x, z float32) picking.Ray {
	return picking.Ray{Origin: mgl32.Vec3{x, 10, z}, Dir: mgl32.Vec3{0, -1, 0}}
}

var viewDown = mgl32.Vec3{0, -1, 0}

func setup() (*Controller, *fakeOrbit, *outline.Outline, *scene.Node) {
	orbit := &fakeOrbit{enabled: true}
	o := outline.New()
	cube := scene.NewMesh("MyCube", &scene.Mesh{Shape: scene.ShapeCube, Bounds: scene.UnitBounds})
	cube.Transform.Position = mgl32.Vec3{0, 0.5, 0}
	return New(orbit, o, logger.New("")), orbit, o, cube
}

func TestDragLifecycle(t *testing.T) {
	c, orbit, o, cube := setup()
	assert.Equal(t, Idle, c.State())

	require.True(t, c.DragStart(cube, down(0, 0), viewDown))
	assert.Equal(t, Dragging, c.State())
	assert.False(t, orbit.enabled)
	assert.True(t, o.Visible())
	assert.Same(t, cube, c.Node())

	c.Drag(down(3, -1))
	assert.InDelta(t, 3, cube.Transform.Position.X(), 1e-5)
	assert.InDelta(t, 0.5, cube.Transform.Position.Y(), 1e-5)
	assert.InDelta(t, -1, cube.Transform.Position.Z(), 1e-5)
	require.True(t, o.Visible())
	assert.Equal(t, cube.Transform.Position, o.Highlights()[0].Transform.Position)

	var ended *scene.Node
	c.OnEnd = func(n *scene.Node) { ended = n }
	c.DragEnd()
	assert.Equal(t, Idle, c.State())
	assert.True(t, orbit.enabled)
	assert.False(t, o.Visible())
	assert.Same(t, cube, ended)
	assert.Nil(t, c.Node())
	assert.Equal(t, []bool{false, true}, orbit.calls)
}

func TestDragKeepsGrabOffset(t *testing.T) {
	c, _, _, cube := setup()
	require.True(t, c.DragStart(cube, down(0.25, 0.25), viewDown))
	c.Drag(down(1.25, 0.25))
	assert.InDelta(t, 1, cube.Transform.Position.X(), 1e-5)
	assert.InDelta(t, 0, cube.Transform.Position.Z(), 1e-5)
}

func TestDragConvertsToParentSpace(t *testing.T) {
	c, _, _, cube := setup()
	group := scene.NewNode("Group1", scene.KindGroup)
	group.Transform.Position = mgl32.Vec3{10, 0, 0}
	group.Add(cube)

	require.True(t, c.DragStart(cube, down(10, 0), viewDown))
	c.Drag(down(12, 0))
	assert.InDelta(t, 2, cube.Transform.Position.X(), 1e-4)
	assert.InDelta(t, 12, cube.WorldPosition().X(), 1e-4)
}

func TestOnlyMeshesAreDraggable(t *testing.T) {
	c, orbit, o, _ := setup()
	assert.False(t, c.DragStart(nil, down(0, 0), viewDown))
	assert.False(t, c.DragStart(scene.NewNode(scene.GridName, scene.KindHelper), down(0, 0), viewDown))
	assert.Equal(t, Idle, c.State())
	assert.True(t, orbit.enabled)
	assert.False(t, o.Visible())

	plane := scene.NewMesh(scene.PlaneName, &scene.Mesh{Shape: scene.ShapePlane, Bounds: scene.PlaneBounds})
	require.True(t, c.DragStart(plane, down(0, 0), viewDown))
	c.Drag(down(3, 0))
	c.DragEnd()
	assert.InDelta(t, 3, plane.Transform.Position.X(), 1e-4)
}

func TestEventsOutsideADragAreIgnored(t *testing.T) {
	c, orbit, _, cube := setup()
	c.Drag(down(5, 5))
	c.DragEnd()
	assert.Empty(t, orbit.calls)
	assert.Equal(t, mgl32.Vec3{0, 0.5, 0}, cube.Transform.Position)

	require.True(t, c.DragStart(cube, down(0, 0), viewDown))
	other := scene.NewMesh("Other", &scene.Mesh{Shape: scene.ShapeCube, Bounds: scene.UnitBounds})
	assert.False(t, c.DragStart(other, down(0, 0), viewDown), "one drag at a time")
}
