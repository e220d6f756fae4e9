// Package selection owns the editor's Selection Set and its groups.
//
// Controller is the single owner of which mesh nodes are selected, which group nodes exist
// and the group name counter. Every mutation runs the registered listeners before
// returning, so the hierarchy panel and the outline never lag behind the selection.
package selection

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/text/cases"

	"scene-editor/internal/logger"
	"scene-editor/internal/scene"
)

// Picker finds the nearest mesh under a point in normalized device coordinates.
type Picker interface {
	Pick(ndc mgl32.Vec2) (*scene.Node, bool)
}

// Listener is called after every selection or group change.
type Listener func(c *Controller)

// Controller holds the Selection Set (ordered, no duplicates) and the groups.
type Controller struct {
	graph  *scene.Graph
	picker Picker
	log    *logger.Logger

	selected  []*scene.Node
	groups    []*scene.Node
	groupSeq  int
	listeners []Listener
}

// New returns a controller with an empty selection. picker may be nil when ray selection
// is not needed.
func New(graph *scene.Graph, picker Picker, log *logger.Logger) *Controller {
	return &Controller{graph: graph, picker: picker, log: log}
}

// OnChange registers fn to run after every mutation.
func (c *Controller) OnChange(fn Listener) {
	c.listeners = append(c.listeners, fn)
}

// Refresh runs the listeners without changing anything, e.g. after an import changed the graph.
func (c *Controller) Refresh() {
	for _, fn := range c.listeners {
		fn(c)
	}
}

// Selected returns the selection in insertion order.
func (c *Controller) Selected() []*scene.Node {
	out := make([]*scene.Node, len(c.selected))
	copy(out, c.selected)
	return out
}

// SelectedNames returns the names of the selected nodes in insertion order.
func (c *Controller) SelectedNames() []string {
	out := make([]string, len(c.selected))
	for i, n := range c.selected {
		out[i] = n.Name
	}
	return out
}

// First returns the first selected node or nil.
func (c *Controller) First() *scene.Node {
	if len(c.selected) == 0 {
		return nil
	}
	return c.selected[0]
}

// Len returns the size of the selection.
func (c *Controller) Len() int {
	return len(c.selected)
}

// IsSelected reports whether n is in the selection.
func (c *Controller) IsSelected(n *scene.Node) bool {
	return c.index(n) >= 0
}

func (c *Controller) index(n *scene.Node) int {
	for i, s := range c.selected {
		if s == n {
			return i
		}
	}
	return -1
}

// Toggle clears the selection unless additive, then adds n if absent or removes it if
// present. A plain toggle therefore always leaves exactly n selected.
func (c *Controller) Toggle(n *scene.Node, additive bool) {
	if n == nil {
		return
	}
	if !additive {
		c.selected = c.selected[:0]
	}
	if i := c.index(n); i >= 0 {
		c.selected = append(c.selected[:i], c.selected[i+1:]...)
	} else {
		c.selected = append(c.selected, n)
	}
	c.Refresh()
}

// Set replaces the selection with nodes, dropping duplicates.
func (c *Controller) Set(nodes []*scene.Node) {
	c.selected = c.selected[:0]
	for _, n := range nodes {
		if n != nil && c.index(n) < 0 {
			c.selected = append(c.selected, n)
		}
	}
	c.Refresh()
}

// Clear empties the selection.
func (c *Controller) Clear() {
	c.selected = c.selected[:0]
	c.Refresh()
}

// SelectByRaycast toggles the nearest mesh under ndc. Misses and hits on the ground plane
// or grid change nothing.
func (c *Controller) SelectByRaycast(ndc mgl32.Vec2, additive bool) {
	if c.picker == nil {
		return
	}
	n, ok := c.picker.Pick(ndc)
	if !ok {
		c.log.Info("pick: nothing under cursor")
		return
	}
	if scene.IsReserved(n.Name) {
		c.log.Info("pick: %s is not selectable", n.Name)
		return
	}
	c.Toggle(n, additive)
	c.log.Info("pick: %s (selected: %d)", n.Name, len(c.selected))
}

// SelectByName toggles the first mesh named exactly name. It returns false when there is
// no such mesh.
func (c *Controller) SelectByName(name string, additive bool) bool {
	n := c.graph.FindMesh(name)
	if n == nil {
		c.log.Info("select: no mesh named %q", name)
		return false
	}
	c.Toggle(n, additive)
	return true
}

// SelectBySearch selects the first mesh whose name equals term ignoring case, or clears
// the selection when none does. It is never additive.
func (c *Controller) SelectBySearch(term string) bool {
	fold := cases.Fold()
	want := fold.String(term)
	for _, n := range c.graph.Meshes() {
		if fold.String(n.Name) == want {
			c.Set([]*scene.Node{n})
			c.log.Info("search: found %s", n.Name)
			return true
		}
	}
	c.Clear()
	c.log.Info("search: no mesh named %q", term)
	return false
}

// Groups returns the existing group nodes in creation order.
func (c *Controller) Groups() []*scene.Node {
	out := make([]*scene.Node, len(c.groups))
	copy(out, c.groups)
	return out
}

// CreateGroup moves every selected node under a new group named Group1, Group2, ... and
// adds the group to the scene root. Names are never reused. Local transforms are kept as
// they are, so members of a transformed parent can shift on screen. The selection is
// cleared. With nothing selected it logs a notice and returns nil.
func (c *Controller) CreateGroup() *scene.Node {
	if len(c.selected) == 0 {
		c.log.Warn("group: nothing selected")
		return nil
	}
	c.groupSeq++
	g := scene.NewNode(fmt.Sprintf("Group%d", c.groupSeq), scene.KindGroup)
	for _, n := range c.selected {
		g.Add(n)
	}
	c.graph.Add(g)
	c.groups = append(c.groups, g)
	c.log.Info("group: created %s with %d members", g.Name, g.ChildCount())
	c.selected = c.selected[:0]
	c.Refresh()
	return g
}

// ClearGroups moves every group's children to the scene root and removes the group nodes.
// Members of nested groups also go straight to the root. The selection is cleared.
func (c *Controller) ClearGroups() int {
	n := len(c.groups)
	for _, g := range c.groups {
		for _, child := range g.Children() {
			c.graph.Add(child)
		}
		if p := g.Parent(); p != nil {
			p.Remove(g)
		}
	}
	c.groups = nil
	c.selected = c.selected[:0]
	if n > 0 {
		c.log.Info("group: cleared %d groups", n)
	}
	c.Refresh()
	return n
}

// SelectGroup selects exactly the mesh children of the named group.
func (c *Controller) SelectGroup(name string) bool {
	for _, g := range c.groups {
		if g.Name != name {
			continue
		}
		var members []*scene.Node
		for _, child := range g.Children() {
			if child.IsMesh() {
				members = append(members, child)
			}
		}
		c.Set(members)
		return true
	}
	c.log.Info("group: no group named %q", name)
	return false
}
