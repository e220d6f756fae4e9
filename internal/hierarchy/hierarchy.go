// Package hierarchy turns the scene graph into the indented listing shown in the
// hierarchy panel.
//
// Build produces a flat view model; Markup and the editor's panel drawing both consume it.
// Both steps are pure, so re-rendering after every selection, import or group change is
// idempotent for the same graph and selection.
package hierarchy

import (
	"strings"

	"golang.org/x/net/html"

	"scene-editor/internal/scene"
)

// IndentWidth is the number of spaces per depth level.
const IndentWidth = 4

// Entry is one visible line of the listing.
type Entry struct {
	NodeID   uint32
	Name     string
	Depth    int
	Selected bool
}

// Label returns the name indented by IndentWidth spaces per depth level.
func (e Entry) Label() string {
	return strings.Repeat(" ", IndentWidth*e.Depth) + e.Name
}

// Visible reports whether a node with this name gets a line.
func Visible(name string) bool {
	return name != "" && name != scene.GridName
}

// Build walks root in pre-order and returns an entry for every visible node. Hidden nodes
// (empty name, grid helper) are skipped but their children are still listed, and depth
// counts every ancestor, hidden ones included.
func Build(root *scene.Node, selected map[string]bool) []Entry {
	var out []Entry
	if root == nil {
		return out
	}
	root.Traverse(func(n *scene.Node, depth int) bool {
		if Visible(n.Name) {
			out = append(out, Entry{
				NodeID:   n.ID,
				Name:     n.Name,
				Depth:    depth,
				Selected: selected[n.Name],
			})
		}
		return true
	})
	return out
}

// Markup renders entries as clickable spans, one per line.
func Markup(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		class := "hierarchy-item"
		if e.Selected {
			class = "selected hierarchy-item"
		}
		name := html.EscapeString(e.Name)
		b.WriteString(`<span class="`)
		b.WriteString(class)
		b.WriteString(`" data-name="`)
		b.WriteString(name)
		b.WriteString(`">`)
		b.WriteString(strings.Repeat("&nbsp;", IndentWidth*e.Depth))
		b.WriteString(name)
		b.WriteString("</span><br>")
	}
	return b.String()
}

// Render is Markup(Build(root, selected)).
func Render(root *scene.Node, selected map[string]bool) string {
	return Markup(Build(root, selected))
}

// Names builds the selected-name set from a list of names.
func Names(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
