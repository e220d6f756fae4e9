// Package drag moves mesh nodes with the pointer.
//
// A drag runs Idle -> Dragging -> Idle. Starting one turns camera orbiting off and snaps
// the outline onto the dragged node; every move re-snaps it; ending turns orbiting back on
// and hides the outline. Releasing the pointer always ends the drag.
package drag

import (
	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/logger"
	"scene-editor/internal/picking"
	"scene-editor/internal/scene"
)

// State of the drag state machine.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Orbit is the camera control that must not react while dragging.
type Orbit interface {
	SetEnabled(enabled bool)
}

// Highlighter is the outline the drag keeps on the moving node.
type Highlighter interface {
	SnapTo(n *scene.Node)
	Hide()
}

// Controller runs one drag at a time.
type Controller struct {
	// OnEnd, if set, runs after a drag ends with the node that was dragged.
	OnEnd func(n *scene.Node)

	orbit   Orbit
	outline Highlighter
	log     *logger.Logger

	state  State
	node   *scene.Node
	point  mgl32.Vec3 // plane origin, world space
	normal mgl32.Vec3 // plane normal, facing the camera
	offset mgl32.Vec3 // node origin minus grab point
}

// New returns an idle controller.
func New(orbit Orbit, outline Highlighter, log *logger.Logger) *Controller {
	return &Controller{orbit: orbit, outline: outline, log: log}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Node returns the node being dragged, or nil when idle.
func (c *Controller) Node() *scene.Node {
	return c.node
}

// Draggable reports whether n can be dragged: any interactable mesh, the ground plane
// included.
func Draggable(n *scene.Node) bool {
	return n != nil && n.IsMesh()
}

// DragStart begins dragging n, grabbed where ray r hits the plane through n's origin
// perpendicular to viewDir. It returns false when already dragging or n is not draggable.
func (c *Controller) DragStart(n *scene.Node, r picking.Ray, viewDir mgl32.Vec3) bool {
	if c.state == Dragging || !Draggable(n) {
		return false
	}
	c.state = Dragging
	c.node = n
	c.point = n.WorldPosition()
	c.normal = viewDir.Normalize().Mul(-1)
	c.offset = mgl32.Vec3{}
	if t, ok := picking.IntersectPlane(r, c.point, c.normal); ok {
		c.offset = c.point.Sub(r.At(t))
	}
	c.orbit.SetEnabled(false)
	c.outline.SnapTo(n)
	c.log.Info("drag: start %s", n.Name)
	return true
}

// Drag moves the node to where r meets the drag plane, keeping the grab offset.
func (c *Controller) Drag(r picking.Ray) {
	if c.state != Dragging {
		return
	}
	t, ok := picking.IntersectPlane(r, c.point, c.normal)
	if !ok {
		return
	}
	world := r.At(t).Add(c.offset)
	local := c.node.ParentWorldMatrix().Inv().Mul4x1(world.Vec4(1))
	c.node.Transform.Position = local.Vec3()
	c.outline.SnapTo(c.node)
}

// DragEnd finishes the drag. It does nothing when idle.
func (c *Controller) DragEnd() {
	if c.state != Dragging {
		return
	}
	n := c.node
	c.state = Idle
	c.node = nil
	c.orbit.SetEnabled(true)
	c.outline.Hide()
	p := n.Transform.Position
	c.log.Info("drag: end %s at (%.2f, %.2f, %.2f)", n.Name, p.X(), p.Y(), p.Z())
	if c.OnEnd != nil {
		c.OnEnd(n)
	}
}
