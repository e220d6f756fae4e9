// Package outline keeps the selection highlight: an enlarged copy of the selected mesh
// drawn over it.
//
// In shared mode (the default) there is a single highlight that follows the first selected
// node, even when several are selected. Per-object mode gives every selected node its own
// highlight.
package outline

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"

	"scene-editor/internal/scene"
)

// DefaultScale enlarges the highlight slightly beyond the target.
const DefaultScale = 1.05

// Mode chooses how many highlights a multi-selection gets.
type Mode int

const (
	ModeShared Mode = iota
	ModePerObject
)

func (m Mode) String() string {
	if m == ModePerObject {
		return "per-object"
	}
	return "shared"
}

// ParseMode accepts "shared" and "per-object".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "shared":
		return ModeShared, true
	case "per-object", "perobject":
		return ModePerObject, true
	}
	return ModeShared, false
}

// Highlight is one outline instance. Transform is the target's local transform with its
// scale enlarged; it is drawn under the target parent's world matrix.
type Highlight struct {
	Target    *scene.Node
	Transform scene.Transform
	Mesh      scene.Mesh
}

// WorldMatrix places the highlight where the target is, enlarged.
func (h Highlight) WorldMatrix() mgl32.Mat4 {
	return h.Target.ParentWorldMatrix().Mul4(h.Transform.Matrix())
}

// Outline holds the current highlights. The zero value is not usable; call New.
type Outline struct {
	Scale float32
	Mode  Mode

	highlights []Highlight
}

// New returns a hidden outline in shared mode.
func New() *Outline {
	return &Outline{Scale: DefaultScale, Mode: ModeShared}
}

// Refresh rebuilds the highlights from the selection. It hides the outline when selected
// is empty.
func (o *Outline) Refresh(selected []*scene.Node) {
	o.highlights = o.highlights[:0]
	for _, n := range selected {
		if h, ok := o.copyOf(n); ok {
			o.highlights = append(o.highlights, h)
			if o.Mode == ModeShared {
				break
			}
		}
	}
}

// SnapTo makes n the only highlight and shows it. Used while dragging.
func (o *Outline) SnapTo(n *scene.Node) {
	o.highlights = o.highlights[:0]
	if h, ok := o.copyOf(n); ok {
		o.highlights = append(o.highlights, h)
	}
}

// Hide removes every highlight.
func (o *Outline) Hide() {
	o.highlights = o.highlights[:0]
}

// Visible reports whether anything is highlighted.
func (o *Outline) Visible() bool {
	return len(o.highlights) > 0
}

// Highlights returns a copy of the current highlights.
func (o *Outline) Highlights() []Highlight {
	out := make([]Highlight, len(o.highlights))
	copy(out, o.highlights)
	return out
}

func (o *Outline) copyOf(n *scene.Node) (Highlight, bool) {
	if n == nil || !n.IsMesh() {
		return Highlight{}, false
	}
	h := Highlight{Target: n, Transform: o.enlarge(n.Transform)}
	if err := copier.CopyWithOption(&h.Mesh, n.Mesh, copier.Option{DeepCopy: true}); err != nil {
		h.Mesh = *n.Mesh
	}
	return h, true
}

func (o *Outline) enlarge(t scene.Transform) scene.Transform {
	t.Scale = t.Scale.Mul(o.Scale)
	return t
}
