package diagram

import "github.com/squadhub/squadgraph/pkg/schema"

// Shape is the visual form of a node, fixed when the node is built.
type Shape string

const (
	ShapeRectangle Shape = "rectangle"
	ShapeDiamond   Shape = "diamond"
	ShapeHexagon   Shape = "hexagon"
)

// DiagramModel is the intermediate representation shared by all renderers.
// Nodes keep construction order; Edges are already deduplicated.
type DiagramModel struct {
	Title   string
	Dialect schema.Dialect
	Nodes   []*Node
	Edges   []Edge
	Styles  []AgentStyle
}

// Node is one phase or step.
type Node struct {
	ID    string
	Label string
	Agent string
	Shape Shape
}

// Edge is a directed relation between two node ids. Label is empty for
// dependency and sequential edges.
type Edge struct {
	From   string
	To     string
	Label  string
	Dotted bool
}

// NodeIDs returns the node ids in construction order.
func (m *DiagramModel) NodeIDs() []string {
	ids := make([]string, len(m.Nodes))
	for i, n := range m.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// Node returns the last node declared with id, or nil. When ids collide the
// later declaration is the one that shows.
func (m *DiagramModel) Node(id string) *Node {
	for i := len(m.Nodes) - 1; i >= 0; i-- {
		if m.Nodes[i].ID == id {
			return m.Nodes[i]
		}
	}
	return nil
}
