// Package registry keeps the flat list of meshes produced by the most recent import.
// It feeds the search panel; the scene graph remains the source of truth for drawing.
package registry

import (
	"strings"

	"golang.org/x/text/cases"

	"scene-editor/internal/scene"
)

// Descriptor identifies one loaded mesh. Names are not guaranteed unique.
type Descriptor struct {
	ID   uint32
	Name string
	Node *scene.Node
}

// Collect walks root once in pre-order and returns a descriptor for every mesh node.
func Collect(root *scene.Node) []Descriptor {
	var out []Descriptor
	if root == nil {
		return out
	}
	root.Traverse(func(n *scene.Node, _ int) bool {
		if n.IsMesh() {
			out = append(out, Descriptor{ID: n.ID, Name: n.Name, Node: n})
		}
		return true
	})
	return out
}

// Registry holds the descriptors currently loaded.
type Registry struct {
	items []Descriptor
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// Replace swaps in the descriptors of a finished import. Imports do not merge: the last
// one to complete wins.
func (r *Registry) Replace(descs []Descriptor) {
	r.items = make([]Descriptor, len(descs))
	copy(r.items, descs)
}

// All returns a copy of the loaded descriptors in traversal order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the number of loaded descriptors.
func (r *Registry) Len() int {
	return len(r.items)
}

// Filter returns descriptors whose name contains term, ignoring case. An empty term
// returns everything.
func (r *Registry) Filter(term string) []Descriptor {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(term))
	var out []Descriptor
	for _, d := range r.items {
		if needle == "" || strings.Contains(fold.String(d.Name), needle) {
			out = append(out, d)
		}
	}
	return out
}
