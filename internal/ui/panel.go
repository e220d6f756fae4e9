package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// TitleBarHeight is the height of a floating panel's drag handle.
const TitleBarHeight = 26

// FloatingPanel is a movable window: dragging its title bar moves it, and it stays inside
// the screen. The editor has three of them (hierarchy, search, groups).
type FloatingPanel struct {
	Title  string
	Bounds rl.Rectangle

	dragging bool
	grab     rl.Vector2 // pointer offset from the top-left corner while dragging
}

// NewFloatingPanel returns a panel at (x, y) of size w×h, title bar included.
func NewFloatingPanel(title string, x, y, w, h float32) *FloatingPanel {
	return &FloatingPanel{Title: title, Bounds: rl.NewRectangle(x, y, w, h)}
}

// TitleBar returns the drag handle rectangle.
func (p *FloatingPanel) TitleBar() rl.Rectangle {
	return rl.NewRectangle(p.Bounds.X, p.Bounds.Y, p.Bounds.Width, TitleBarHeight)
}

// Content returns the area below the title bar.
func (p *FloatingPanel) Content() rl.Rectangle {
	return rl.NewRectangle(p.Bounds.X, p.Bounds.Y+TitleBarHeight, p.Bounds.Width, p.Bounds.Height-TitleBarHeight)
}

// Contains reports whether pt lies inside the panel.
func (p *FloatingPanel) Contains(pt rl.Vector2) bool {
	return inRect(pt, p.Bounds)
}

// Dragging reports whether the title bar is being dragged.
func (p *FloatingPanel) Dragging() bool {
	return p.dragging
}

// HandleMouse moves the panel with the pointer. pressed is true on the frame the button
// went down, down while it is held. It returns true while the panel owns the pointer.
func (p *FloatingPanel) HandleMouse(pt rl.Vector2, pressed, down bool, screenW, screenH float32) bool {
	if pressed && inRect(pt, p.TitleBar()) {
		p.dragging = true
		p.grab = rl.NewVector2(pt.X-p.Bounds.X, pt.Y-p.Bounds.Y)
	}
	if !down {
		p.dragging = false
	}
	if p.dragging {
		p.Bounds.X = clamp(pt.X-p.grab.X, 0, screenW-p.Bounds.Width)
		p.Bounds.Y = clamp(pt.Y-p.grab.Y, 0, screenH-TitleBarHeight)
		return true
	}
	return false
}

// Draw draws the frame and title. Content is drawn by the caller inside Content().
func (p *FloatingPanel) Draw(e *Engine) {
	body := e.Style("panel", "panel", "")
	title := e.Style("panel", "panel-title", "")
	DrawBox(p.Bounds, body)
	bar := p.TitleBar()
	if p.dragging {
		title.Background = title.Accent
	}
	DrawBox(bar, title)
	DrawText(p.Title, int32(bar.X)+title.Padding, int32(bar.Y)+title.Padding, title.FontSize, title.Color)
}

func inRect(pt rl.Vector2, r rl.Rectangle) bool {
	return pt.X >= r.X && pt.X < r.X+r.Width && pt.Y >= r.Y && pt.Y < r.Y+r.Height
}

func clamp(v, lo, hi float32) float32 {
	if hi < lo {
		hi = lo
	}
	return max(lo, min(v, hi))
}
