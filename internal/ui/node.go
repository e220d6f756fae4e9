package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Node is a free-standing UI element (inspector rows, stats line). Class may list several
// space-separated classes; ID matches #id rules.
type Node struct {
	Type   string // "panel", "label"
	Class  string
	ID     string
	Bounds rl.Rectangle // position offset and fallback size; replaced by the drawn box
	Text   string
}

// NewNode creates a node with type and optional class, id, and text.
func NewNode(typ, class, id, text string) *Node {
	return &Node{Type: typ, Class: class, ID: id, Text: text}
}
