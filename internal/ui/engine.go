package ui

import (
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DefaultCSS styles the editor when no stylesheet file is found.
const DefaultCSS = `
.panel { background: #1e2128e6; border: #3a3f4b; color: #d8dce4; padding: 6; font-size: 16; line-height: 20 }
.panel-title { background: #2b303b; color: #ffffff; accent: #ffaa00; padding: 5; font-size: 16 }
.hierarchy-item { color: #d8dce4 }
.selected { color: #ffaa00 }
.inspector { background: #1e2128e6; border: #3a3f4b; width: 260; height: 130; left: 100%; top: 96% }
.inspector-title { color: #ffaa00; font-size: 16 }
.inspector-row { color: #d8dce4; font-size: 14 }
.console { background: #101216f0; color: #c8ccd4; font-size: 16; line-height: 20; height: 240 }
.console-input { background: #1a1d23; color: #ffffff; accent: #ffaa00 }
.stats { color: #7fd07f; font-size: 16; left: 8; top: 8 }
`

// Engine holds the current stylesheet and free-standing nodes, and draws them with raylib.
// Draw order is node order. Resolved styles are cached and recomputed only when the sheet
// changes.
type Engine struct {
	sheet  *Stylesheet
	nodes  []*Node
	styles map[string]ComputedStyle
}

// New creates an engine using DefaultCSS.
func New() *Engine {
	e := &Engine{}
	sheet, err := ParseCSS(DefaultCSS)
	if err == nil {
		e.SetStylesheet(sheet)
	}
	return e
}

// LoadCSS loads and parses a CSS file from path. Replaces the current stylesheet; on error
// the previous one stays.
func (e *Engine) LoadCSS(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	sheet, err := ParseCSS(string(data))
	if err != nil {
		return err
	}
	e.SetStylesheet(sheet)
	return nil
}

// SetStylesheet sets the stylesheet directly.
func (e *Engine) SetStylesheet(sheet *Stylesheet) {
	e.sheet = sheet
	e.styles = make(map[string]ComputedStyle)
}

// Stylesheet returns the current stylesheet (may be nil).
func (e *Engine) Stylesheet() *Stylesheet {
	return e.sheet
}

// Style returns the computed style for an element of the given type, classes and id.
func (e *Engine) Style(typ, class, id string) ComputedStyle {
	key := typ + "|" + class + "|" + id
	if s, ok := e.styles[key]; ok {
		return s
	}
	s := ResolveProps(e.sheet.Match(typ, class, id))
	if e.styles == nil {
		e.styles = make(map[string]ComputedStyle)
	}
	e.styles[key] = s
	return s
}

// SetNodes replaces all free-standing nodes.
func (e *Engine) SetNodes(nodes []*Node) {
	e.nodes = nodes
}

// Draw draws the free-standing nodes: background, border, then text.
func (e *Engine) Draw() {
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())
	for _, n := range e.nodes {
		style := e.Style(n.Type, n.Class, n.ID)
		w, h := style.Width, style.Height
		if w == 0 {
			w = int32(n.Bounds.Width)
		}
		if h == 0 {
			h = int32(n.Bounds.Height)
		}
		x, y := int32(n.Bounds.X)+style.Left, int32(n.Bounds.Y)+style.Top
		if style.LeftPct >= 0 {
			x = (screenW - w) * style.LeftPct / 100
		}
		if style.TopPct >= 0 {
			y = (screenH - h) * style.TopPct / 100
		}
		n.Bounds = rl.NewRectangle(float32(x), float32(y), float32(w), float32(h))
		DrawBox(n.Bounds, style)
		if n.Text != "" {
			DrawText(n.Text, x+style.Padding, y+style.Padding, style.FontSize, style.Color)
		}
	}
}

// DrawBox fills r with the style's background and outlines it when a border is set.
func DrawBox(r rl.Rectangle, style ComputedStyle) {
	x, y, w, h := int32(r.X), int32(r.Y), int32(r.Width), int32(r.Height)
	if style.Background.A > 0 {
		rl.DrawRectangle(x, y, w, h, style.Background)
	}
	if style.HasBorder && w > 0 && h > 0 {
		rl.DrawRectangleLines(x, y, w, h, style.Border)
	}
}

// font is used by DrawText when loaded; the zero value means raylib's default font.
var font rl.Font

// SetFont sets the font for all UI text. Pass the zero Font to go back to the default.
func SetFont(f rl.Font) {
	font = f
}

// DrawText draws text with the UI font.
func DrawText(text string, x, y, size int32, color rl.Color) {
	if font.Texture.ID != 0 {
		rl.DrawTextEx(font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
		return
	}
	rl.DrawText(text, x, y, size, color)
}
