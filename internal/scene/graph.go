package scene

// Graph is the scene: a single unnamed root that every displayed node hangs from.
type Graph struct {
	Root *Node
}

// New returns a graph with an empty root.
func New() *Graph {
	return &Graph{Root: NewNode("", KindEmpty)}
}

// Add attaches n directly under the root.
func (g *Graph) Add(n *Node) {
	g.Root.Add(n)
}

// Meshes returns every mesh node reachable from the root in pre-order. These are the
// interactable nodes for picking, name selection and search.
func (g *Graph) Meshes() []*Node {
	var out []*Node
	g.Root.Traverse(func(n *Node, _ int) bool {
		if n.IsMesh() {
			out = append(out, n)
		}
		return true
	})
	return out
}

// FindMesh returns the first mesh node named exactly name.
func (g *Graph) FindMesh(name string) *Node {
	for _, n := range g.Meshes() {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Count returns the number of nodes below the root.
func (g *Graph) Count() int {
	total := -1
	g.Root.Traverse(func(*Node, int) bool {
		total++
		return true
	})
	return total
}
