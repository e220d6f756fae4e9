// Package viewport draws the 3D view: the orbit camera, the grid, every mesh node and the
// selection outline. It also turns screen points into picking rays.
package viewport

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/outline"
	"scene-editor/internal/picking"
	"scene-editor/internal/primitives"
	"scene-editor/internal/scene"
)

const (
	gridSize      = 100
	gridDivisions = 10
	gridLineAlpha = 110
	axisLineAlpha = 220
	cameraFovY    = 45
	cameraNear    = 0.05
	cameraFar     = 1000
	outlineAlpha  = 255
	hoverLighten  = 40
)

// View holds the camera rig and draws the scene. Update applies mouse input; Draw renders
// between BeginMode3D and EndMode3D.
type View struct {
	Orbit        *Orbit
	Camera       rl.Camera3D
	GridVisible  bool
	OutlineColor rl.Color

	prims *primitives.Registry
}

// New returns a view whose camera starts at position looking at the origin. The grid is
// visible by default.
func New(position [3]float32) *View {
	v := &View{
		Orbit:        NewOrbit(mgl32.Vec3(position), mgl32.Vec3{}),
		GridVisible:  true,
		OutlineColor: rl.NewColor(255, 170, 0, outlineAlpha),
		prims:        primitives.NewRegistry(),
	}
	v.Camera.Up = rl.NewVector3(0, 1, 0)
	v.Camera.Fovy = cameraFovY
	v.Camera.Projection = rl.CameraPerspective
	v.syncCamera()
	return v
}

// SetEnabled turns camera orbiting on or off; it makes View a drag.Orbit.
func (v *View) SetEnabled(enabled bool) {
	v.Orbit.SetEnabled(enabled)
}

// SetGridVisible sets whether the editor grid is drawn.
func (v *View) SetGridVisible(visible bool) {
	v.GridVisible = visible
}

// Update runs once per frame. rotate is true while the user drags on empty space; a right
// button drag also orbits. The wheel zooms unless the pointer is over a panel (overUI).
func (v *View) Update(rotate, overUI bool) {
	if !overUI && rl.IsMouseButtonDown(rl.MouseRightButton) {
		rotate = true
	}
	if rotate {
		d := rl.GetMouseDelta()
		v.Orbit.Rotate(d.X, d.Y)
	}
	if !overUI {
		v.Orbit.Zoom(rl.GetMouseWheelMove())
	}
	v.syncCamera()
}

func (v *View) syncCamera() {
	p := v.Orbit.Position()
	v.Camera.Position = rl.NewVector3(p.X(), p.Y(), p.Z())
	t := v.Orbit.Target
	v.Camera.Target = rl.NewVector3(t.X(), t.Y(), t.Z())
}

// PickingCamera describes the current camera for ray casting.
func (v *View) PickingCamera() picking.Camera {
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	aspect := float32(1)
	if h > 0 {
		aspect = w / h
	}
	return picking.Camera{
		Position: v.Orbit.Position(),
		Target:   v.Orbit.Target,
		Up:       mgl32.Vec3{0, 1, 0},
		FovY:     cameraFovY,
		Aspect:   aspect,
		Near:     cameraNear,
		Far:      cameraFar,
	}
}

// NDC converts a screen point to normalized device coordinates.
func (v *View) NDC(x, y float32) mgl32.Vec2 {
	return picking.NDC(x, y, float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
}

// ScreenRay returns the picking ray through a screen point.
func (v *View) ScreenRay(x, y float32) picking.Ray {
	return picking.RayFromNDC(v.PickingCamera(), v.NDC(x, y))
}

// ViewDir returns the unit direction the camera looks in.
func (v *View) ViewDir() mgl32.Vec3 {
	return v.PickingCamera().Forward()
}

// Draw renders the scene. The grid is drawn while GridVisible is set and the graph holds
// the grid helper; hovered, if not nil, is drawn slightly lighter.
func (v *View) Draw(g *scene.Graph, o *outline.Outline, hovered *scene.Node) {
	p := v.Orbit.Position()
	v.prims.SetView([3]float32{p.X(), p.Y(), p.Z()}, [3]float32(primitives.LightPosition.Normalize()))

	rl.BeginMode3D(v.Camera)
	if v.GridVisible && g.Root.Find(scene.GridName) != nil {
		drawEditorGrid()
	}
	for _, n := range g.Meshes() {
		v.prims.Draw(*n.Mesh, n.WorldMatrix(), tint(n, hovered))
	}
	if o != nil {
		for _, h := range o.Highlights() {
			v.prims.DrawOutline(h.Mesh, h.WorldMatrix(), v.OutlineColor)
		}
	}
	rl.EndMode3D()
}

// Unload frees GPU meshes.
func (v *View) Unload() {
	v.prims.Unload()
}

func tint(n, hovered *scene.Node) rl.Color {
	c := n.Mesh.Color
	if c == ([4]uint8{}) {
		c = primitives.DefaultColor
	}
	if n == hovered && !scene.IsReserved(n.Name) {
		for i := 0; i < 3; i++ {
			c[i] = uint8(min(int(c[i])+hoverLighten, 255))
		}
	}
	return rl.NewColor(c[0], c[1], c[2], c[3])
}

// drawEditorGrid draws the XZ grid (gridSize units, gridDivisions cells) and the axis lines.
func drawEditorGrid() {
	line := rl.NewColor(150, 150, 150, gridLineAlpha)
	axisX := rl.NewColor(220, 80, 80, axisLineAlpha)
	axisZ := rl.NewColor(80, 80, 220, axisLineAlpha)

	half := float32(gridSize) / 2
	step := float32(gridSize) / gridDivisions
	var start, end rl.Vector3
	for i := 0; i <= gridDivisions; i++ {
		c := -half + float32(i)*step
		start.X, start.Y, start.Z = c, 0, -half
		end.X, end.Y, end.Z = c, 0, half
		rl.DrawLine3D(start, end, line)
		start.X, start.Y, start.Z = -half, 0, c
		end.X, end.Y, end.Z = half, 0, c
		rl.DrawLine3D(start, end, line)
	}
	rl.DrawLine3D(rl.NewVector3(-half, 0.001, 0), rl.NewVector3(half, 0.001, 0), axisX)
	rl.DrawLine3D(rl.NewVector3(0, 0.001, -half), rl.NewVector3(0, 0.001, half), axisZ)
}
