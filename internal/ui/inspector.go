package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Inspector is a corner panel describing the first selected node.
type Inspector struct {
	panel    *Node
	title    *Node
	name     *Node
	position *Node
	rotation *Node
	scale    *Node
}

// NewInspector creates an Inspector whose nodes are styled by .inspector, .inspector-title
// and .inspector-row rules.
func NewInspector() *Inspector {
	return &Inspector{
		panel:    NewNode("panel", "inspector", "", ""),
		title:    NewNode("label", "inspector-title", "", ""),
		name:     NewNode("label", "inspector-row", "", ""),
		position: NewNode("label", "inspector-row", "", ""),
		rotation: NewNode("label", "inspector-row", "", ""),
		scale:    NewNode("label", "inspector-row", "", ""),
	}
}

// Selection holds what the inspector shows. The editor fills it from the scene so ui does
// not depend on scene.
type Selection struct {
	Name     string
	Kind     string
	Parent   string
	Count    int // size of the selection
	Position [3]float32
	Rotation [3]float32 // Euler degrees
	Scale    [3]float32
}

// Lines returns the text rows for sel, title first.
func (in *Inspector) Lines(sel Selection) []string {
	title := "Inspector"
	if sel.Count > 1 {
		title = fmt.Sprintf("Inspector (1 of %d)", sel.Count)
	}
	parent := sel.Parent
	if parent == "" {
		parent = "scene"
	}
	return []string{
		title,
		fmt.Sprintf("%s (%s) in %s", sel.Name, sel.Kind, parent),
		fmt.Sprintf("Position: %.2f, %.2f, %.2f", sel.Position[0], sel.Position[1], sel.Position[2]),
		fmt.Sprintf("Rotation: %.1f, %.1f, %.1f", sel.Rotation[0], sel.Rotation[1], sel.Rotation[2]),
		fmt.Sprintf("Scale: %.2f, %.2f, %.2f", sel.Scale[0], sel.Scale[1], sel.Scale[2]),
	}
}

// AppendNodes appends the inspector nodes to dst when visible is true, after updating
// their text from sel. Call every frame so visibility and content stay in sync.
func (in *Inspector) AppendNodes(dst []*Node, visible bool, sel Selection) []*Node {
	if !visible {
		return dst
	}
	rows := []*Node{in.title, in.name, in.position, in.rotation, in.scale}
	for i, line := range in.Lines(sel) {
		rows[i].Text = line
	}
	return append(dst, in.panel)
}

// DrawRows draws the row nodes inside the panel drawn by the engine.
func (in *Inspector) DrawRows(e *Engine) {
	x, y := int32(in.panel.Bounds.X), int32(in.panel.Bounds.Y)
	pad := e.Style(in.panel.Type, in.panel.Class, "").Padding
	y += pad
	for _, row := range []*Node{in.title, in.name, in.position, in.rotation, in.scale} {
		st := e.Style(row.Type, row.Class, row.ID)
		DrawText(row.Text, x+pad+4, y, st.FontSize, st.Color)
		y += st.FontSize + 6
	}
}

// Bounds returns where the panel was last drawn.
func (in *Inspector) Bounds() rl.Rectangle {
	return in.panel.Bounds
}
