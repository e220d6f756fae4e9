package selection

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/internal/hierarchy"
	"scene-editor/internal/logger"
	"scene-editor/internal/outline"
	"scene-editor/internal/scene"
)

// stubPicker returns a fixed node for any point.
type stubPicker struct {
	node *scene.Node
}

func (p *stubPicker) Pick(mgl32.Vec2) (*scene.Node, bool) {
	return p.node, p.node != nil
}

type fixture struct {
	graph   *scene.Graph
	plane   *scene.Node
	a, b, c *scene.Node
	picker  *stubPicker
	ctrl    *Controller
	outline *outline.Outline
	markup  string
	calls   int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{graph: scene.New(), picker: &stubPicker{}}
	f.graph.Add(scene.NewNode(scene.GridName, scene.KindHelper))
	f.plane = scene.NewMesh(scene.PlaneName, &scene.Mesh{Shape: scene.ShapePlane, Bounds: scene.PlaneBounds})
	f.graph.Add(f.plane)
	f.a = scene.NewMesh("MyCube", &scene.Mesh{Shape: scene.ShapeCube, Bounds: scene.UnitBounds})
	f.b = scene.NewMesh("MyCube1", &scene.Mesh{Shape: scene.ShapeCube, Bounds: scene.UnitBounds})
	f.c = scene.NewMesh("Wheel", &scene.Mesh{Shape: scene.ShapeBox, Bounds: scene.UnitBounds})
	f.graph.Add(f.a)
	f.graph.Add(f.b)
	f.graph.Add(f.c)

	f.ctrl = New(f.graph, f.picker, logger.New(""))
	f.outline = outline.New()
	f.ctrl.OnChange(func(c *Controller) {
		f.calls++
		f.markup = hierarchy.Render(f.graph.Root, hierarchy.Names(c.SelectedNames()))
		f.outline.Refresh(c.Selected())
	})
	return f
}

// checkOutline asserts the outline is visible exactly when something is selected.
func (f *fixture) checkOutline(t *testing.T) {
	t.Helper()
	assert.Equal(t, f.ctrl.Len() > 0, f.outline.Visible())
}

func TestPlainClickSelectsAtMostOne(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SelectByName("MyCube", false)
	f.ctrl.SelectByName("MyCube1", false)
	assert.Equal(t, []string{"MyCube1"}, f.ctrl.SelectedNames())

	f.ctrl.SelectByName("MyCube1", false)
	assert.Equal(t, 1, f.ctrl.Len(), "plain click on the selected node keeps it")
	f.checkOutline(t)
}

func TestShiftClickRemovesExactlyThatNode(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SelectByName("MyCube", true)
	f.ctrl.SelectByName("MyCube1", true)
	f.ctrl.SelectByName("Wheel", true)
	require.Equal(t, 3, f.ctrl.Len())

	f.ctrl.SelectByName("MyCube1", true)
	assert.Equal(t, []string{"MyCube", "Wheel"}, f.ctrl.SelectedNames())
	f.checkOutline(t)
}

func TestSelectBySearch(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SelectByName("Wheel", true)

	assert.True(t, f.ctrl.SelectBySearch("MyCube"))
	assert.Equal(t, []string{"MyCube"}, f.ctrl.SelectedNames())
	f.checkOutline(t)

	assert.True(t, f.ctrl.SelectBySearch("mycube1"), "match ignores case")
	assert.Equal(t, []string{"MyCube1"}, f.ctrl.SelectedNames())

	assert.False(t, f.ctrl.SelectBySearch("nonexistent"))
	assert.Empty(t, f.ctrl.Selected())
	f.checkOutline(t)

	assert.False(t, f.ctrl.SelectBySearch("MyCu"), "no substring match")
}

func TestSelectByRaycast(t *testing.T) {
	f := newFixture(t)
	f.picker.node = f.a
	f.ctrl.SelectByRaycast(mgl32.Vec2{}, false)
	assert.Equal(t, []string{"MyCube"}, f.ctrl.SelectedNames())

	f.picker.node = f.b
	f.ctrl.SelectByRaycast(mgl32.Vec2{}, true)
	assert.Equal(t, []string{"MyCube", "MyCube1"}, f.ctrl.SelectedNames())

	f.picker.node = f.plane
	f.ctrl.SelectByRaycast(mgl32.Vec2{}, false)
	assert.Equal(t, 2, f.ctrl.Len(), "ground plane hits are ignored")

	f.picker.node = nil
	f.ctrl.SelectByRaycast(mgl32.Vec2{}, false)
	assert.Equal(t, 2, f.ctrl.Len(), "misses are ignored")
	f.checkOutline(t)
}

func TestSelectByNameMatchesAnyMesh(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.ctrl.SelectByName("ghost", false))
	assert.Zero(t, f.ctrl.Len())

	require.True(t, f.ctrl.SelectByName(scene.PlaneName, false), "the ground plane is listed in the hierarchy")
	assert.Equal(t, []string{scene.PlaneName}, f.ctrl.SelectedNames())
	require.True(t, f.ctrl.SelectBySearch("PLANE"))
	assert.Equal(t, []string{scene.PlaneName}, f.ctrl.SelectedNames())
	f.checkOutline(t)
}

func TestListenersRunOnEveryMutation(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SelectByName("MyCube", false)
	assert.Equal(t, 1, f.calls)
	assert.Contains(t, f.markup, `class="selected hierarchy-item" data-name="MyCube"`)

	f.ctrl.Clear()
	assert.Equal(t, 2, f.calls)
	assert.NotContains(t, f.markup, "selected hierarchy-item")
	f.checkOutline(t)
}

func TestCreateGroup(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SelectByName("MyCube", true)
	f.ctrl.SelectByName("MyCube1", true)

	g := f.ctrl.CreateGroup()
	require.NotNil(t, g)
	assert.Equal(t, "Group1", g.Name)
	assert.Equal(t, scene.KindGroup, g.Kind)
	assert.ElementsMatch(t, []*scene.Node{f.a, f.b}, g.Children())
	assert.Same(t, f.graph.Root, g.Parent())
	assert.Empty(t, f.ctrl.Selected())
	require.Len(t, f.ctrl.Groups(), 1)
	f.checkOutline(t)
	assert.Contains(t, f.markup, `data-name="Group1"`)
}

func TestCreateGroupWithEmptySelection(t *testing.T) {
	f := newFixture(t)
	assert.Nil(t, f.ctrl.CreateGroup())
	assert.Empty(t, f.ctrl.Groups())
	assert.Zero(t, f.calls)
}

func TestGroupNamesAreNeverReused(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SelectByName("MyCube", false)
	assert.Equal(t, "Group1", f.ctrl.CreateGroup().Name)
	f.ctrl.ClearGroups()

	f.ctrl.SelectByName("MyCube", false)
	assert.Equal(t, "Group2", f.ctrl.CreateGroup().Name)
}

func TestClearGroups(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SelectByName("MyCube", true)
	f.ctrl.SelectByName("Wheel", true)
	g := f.ctrl.CreateGroup()
	f.ctrl.SelectByName("MyCube1", false)

	assert.Equal(t, 1, f.ctrl.ClearGroups())
	assert.Empty(t, f.ctrl.Groups())
	assert.Empty(t, f.ctrl.Selected())
	assert.Nil(t, g.Parent())
	assert.Zero(t, g.ChildCount())
	assert.Same(t, f.graph.Root, f.a.Parent())
	assert.Same(t, f.graph.Root, f.c.Parent())
	assert.NotContains(t, f.markup, "Group1")
}

func TestGroupingDoesNotCompensateTransforms(t *testing.T) {
	f := newFixture(t)
	f.a.Transform.Position = mgl32.Vec3{2, 0, 0}
	before := f.a.WorldPosition()

	f.ctrl.SelectByName("MyCube", false)
	g := f.ctrl.CreateGroup()
	g.Transform.Position = mgl32.Vec3{5, 0, 0}
	assert.Equal(t, mgl32.Vec3{2, 0, 0}, f.a.Transform.Position, "local transform kept")
	assert.NotEqual(t, before, f.a.WorldPosition(), "world position follows the new parent")
}

func TestSelectGroup(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SelectByName("MyCube", true)
	f.ctrl.SelectByName("Wheel", true)
	g := f.ctrl.CreateGroup()
	g.Add(scene.NewNode("marker", scene.KindHelper))

	assert.True(t, f.ctrl.SelectGroup("Group1"))
	assert.ElementsMatch(t, []*scene.Node{f.a, f.c}, f.ctrl.Selected())
	f.checkOutline(t)

	assert.False(t, f.ctrl.SelectGroup("Group9"))
}

func TestOutlineVisibilityAcrossSequences(t *testing.T) {
	f := newFixture(t)
	steps := []func(){
		func() { f.ctrl.SelectByName("MyCube", false) },
		func() { f.ctrl.SelectByName("MyCube", true) },
		func() { f.ctrl.SelectBySearch("wheel") },
		func() { f.ctrl.SelectByName("MyCube1", true) },
		func() { f.ctrl.CreateGroup() },
		func() { f.ctrl.SelectGroup("Group1") },
		func() { f.ctrl.ClearGroups() },
		func() { f.ctrl.SelectBySearch("nope") },
	}
	for _, step := range steps {
		step()
		f.checkOutline(t)
	}
}
