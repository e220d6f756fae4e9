package scene

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// Kind tells what a node represents. Only KindMesh nodes are selectable.
type Kind int

const (
	KindEmpty Kind = iota
	KindMesh
	KindGroup
	KindLight
	KindHelper
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindMesh:
		return "mesh"
	case KindGroup:
		return "group"
	case KindLight:
		return "light"
	case KindHelper:
		return "helper"
	default:
		return "unknown"
	}
}

// Reserved node names. The grid helper never shows in the hierarchy; neither it nor the
// ground plane can be picked or dragged.
const (
	GridName  = "grid"
	PlaneName = "plane"
)

// IsReserved reports whether name belongs to the grid helper or the ground plane.
func IsReserved(name string) bool {
	return name == GridName || name == PlaneName
}

// Mesh shapes understood by the renderer. ShapeBox is used for imported geometry, which is
// drawn and picked through its local bounds.
const (
	ShapeCube     = "cube"
	ShapeSphere   = "sphere"
	ShapeCylinder = "cylinder"
	ShapePlane    = "plane"
	ShapeBox      = "box"
)

// Mesh is the renderable part of a node: a shape, its local bounds and a tint.
type Mesh struct {
	Shape  string
	Bounds AABB
	Color  [4]uint8
}

// UnitBounds is the local box of the built-in unit primitives (cube, sphere, cylinder).
var UnitBounds = AABB{Min: mgl32.Vec3{-0.5, -0.5, -0.5}, Max: mgl32.Vec3{0.5, 0.5, 0.5}}

// PlaneBounds is the local box of the unit ground plane. It is given a sliver of thickness
// so rays hit it.
var PlaneBounds = AABB{Min: mgl32.Vec3{-0.5, -0.001, -0.5}, Max: mgl32.Vec3{0.5, 0.001, 0.5}}

var lastID atomic.Uint32

// nextID hands out node ids. Parsers build nodes on their own goroutines, so the counter is atomic.
func nextID() uint32 {
	return lastID.Add(1)
}

// Node is one element of the scene graph. A node has at most one parent; children keep
// insertion order.
type Node struct {
	ID        uint32
	Name      string
	Kind      Kind
	Transform Transform
	Mesh      *Mesh

	parent   *Node
	children []*Node
}

// NewNode returns a detached node with an identity transform and a fresh id.
func NewNode(name string, kind Kind) *Node {
	return &Node{
		ID:        nextID(),
		Name:      name,
		Kind:      kind,
		Transform: IdentityTransform(),
	}
}

// NewMesh returns a detached mesh node.
func NewMesh(name string, mesh *Mesh) *Node {
	n := NewNode(name, KindMesh)
	n.Mesh = mesh
	return n
}

// IsMesh reports whether the node is renderable and selectable.
func (n *Node) IsMesh() bool {
	return n.Kind == KindMesh && n.Mesh != nil
}

// Parent returns the parent node or nil for a root or detached node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Add appends child, detaching it from its previous parent first. The child's local
// transform is kept as is, so its world placement changes with the new parent's transform.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child. It returns false when child is not a direct child of n.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Traverse walks the subtree depth-first in pre-order. depth is 0 for n itself.
// Returning false from fn skips that node's children.
func (n *Node) Traverse(fn func(node *Node, depth int) bool) {
	n.traverse(fn, 0)
}

func (n *Node) traverse(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		c.traverse(fn, depth+1)
	}
}

// Find returns the first node in pre-order whose name is exactly name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Traverse(func(node *Node, _ int) bool {
		if found != nil {
			return false
		}
		if node.Name == name {
			found = node
			return false
		}
		return true
	})
	return found
}

// WorldMatrix composes the local matrices from the root down to n.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.Transform.Matrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Transform.Matrix().Mul4(m)
	}
	return m
}

// ParentWorldMatrix returns the parent's world matrix, or identity for a root node.
func (n *Node) ParentWorldMatrix() mgl32.Mat4 {
	if n.parent == nil {
		return mgl32.Ident4()
	}
	return n.parent.WorldMatrix()
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// WorldBounds returns the world-space box of the node's mesh. ok is false for nodes without a mesh.
func (n *Node) WorldBounds() (box AABB, ok bool) {
	if !n.IsMesh() || !n.Mesh.Bounds.Valid() {
		return AABB{}, false
	}
	return n.Mesh.Bounds.Transformed(n.WorldMatrix()), true
}
