package editor

import (
	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/drag"
	"scene-editor/internal/scene"
)

// clickSlop is how far, in pixels, the pointer may move between press and release and
// still count as a click.
const clickSlop = 4

// Action is what a pointer event means for the viewport.
type Action int

const (
	ActionNone Action = iota
	ActionClick
	ActionOrbit
	ActionDragStart
	ActionDrag
	ActionDragEnd
)

func (a Action) String() string {
	switch a {
	case ActionClick:
		return "click"
	case ActionOrbit:
		return "orbit"
	case ActionDragStart:
		return "drag-start"
	case ActionDrag:
		return "drag"
	case ActionDragEnd:
		return "drag-end"
	}
	return "none"
}

type gestureState int

const (
	gestureIdle gestureState = iota
	gesturePending
	gestureOrbiting
	gestureDragging
)

// Gesture tells clicks from drags for one pointer button. A press that is released within
// clickSlop is a click; a press that moves further drags the mesh it started on when that
// mesh is draggable, and orbits the camera otherwise.
type Gesture struct {
	state  gestureState
	start  mgl32.Vec2
	target *scene.Node
}

// Press starts a gesture at pos over target (nil for empty space).
func (g *Gesture) Press(pos mgl32.Vec2, target *scene.Node) {
	g.state = gesturePending
	g.start = pos
	g.target = target
}

// Move reports what the held pointer at pos does this frame.
func (g *Gesture) Move(pos mgl32.Vec2) Action {
	switch g.state {
	case gesturePending:
		if pos.Sub(g.start).Len() <= clickSlop {
			return ActionNone
		}
		if drag.Draggable(g.target) {
			g.state = gestureDragging
			return ActionDragStart
		}
		g.state = gestureOrbiting
		return ActionOrbit
	case gestureOrbiting:
		return ActionOrbit
	case gestureDragging:
		return ActionDrag
	}
	return ActionNone
}

// Release ends the gesture.
func (g *Gesture) Release() Action {
	state := g.state
	g.state = gestureIdle
	g.target = nil
	switch state {
	case gesturePending:
		return ActionClick
	case gestureDragging:
		return ActionDragEnd
	}
	return ActionNone
}

// Active reports whether a press is in progress.
func (g *Gesture) Active() bool {
	return g.state != gestureIdle
}

// Start returns where the current gesture was pressed.
func (g *Gesture) Start() mgl32.Vec2 {
	return g.start
}

// Target returns the node under the press, or nil.
func (g *Gesture) Target() *scene.Node {
	return g.target
}
