package diagram

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// shapeTag returns a short marker for non-rectangular nodes.
func shapeTag(shape Shape) string {
	switch shape {
	case ShapeDiamond:
		return "<review>"
	case ShapeHexagon:
		return "{elicit}"
	default:
		return ""
	}
}

// RenderASCII renders a DiagramModel as a terminal preview: nodes stacked in
// layers derived from forward edges, followed by the full edge list.
func RenderASCII(model *DiagramModel) string {
	var b strings.Builder

	if model.Title != "" {
		fmt.Fprintf(&b, "=== %s ===\n\n", model.Title)
	}

	levels := Levels(model)
	for i, level := range levels {
		boxes := make([]asciiBox, 0, len(level))
		for _, node := range level {
			boxes = append(boxes, makeBox(node))
		}
		renderBoxRow(&b, boxes)
		if i < len(levels)-1 {
			renderConnector(&b)
		}
	}

	if len(model.Edges) > 0 {
		b.WriteString("\nEdges:\n")
		for _, e := range model.Edges {
			arrow := "-->"
			if e.Dotted {
				arrow = "-.->"
			}
			if e.Label != "" {
				fmt.Fprintf(&b, "  %s %s %s  (%s)\n", e.From, arrow, e.To, e.Label)
			} else {
				fmt.Fprintf(&b, "  %s %s %s\n", e.From, arrow, e.To)
			}
		}
	}

	return b.String()
}

// Levels layers the nodes for top-down layouts. A node sits one level below
// the deepest predecessor declared before it; edges pointing back to earlier
// nodes (retry and veto loops) do not push nodes down. Colliding ids are
// placed once, at their first declaration.
func Levels(model *DiagramModel) [][]*Node {
	pos := make(map[string]int, len(model.Nodes))
	for i, n := range model.Nodes {
		if _, ok := pos[n.ID]; !ok {
			pos[n.ID] = i
		}
	}

	incoming := make(map[string][]string, len(model.Nodes))
	for _, e := range model.Edges {
		incoming[e.To] = append(incoming[e.To], e.From)
	}

	depth := make(map[string]int, len(model.Nodes))
	var levels [][]*Node
	for i, n := range model.Nodes {
		if pos[n.ID] != i {
			continue
		}
		d := 0
		for _, from := range incoming[n.ID] {
			if p, ok := pos[from]; ok && p < i && depth[from]+1 > d {
				d = depth[from] + 1
			}
		}
		depth[n.ID] = d
		for len(levels) <= d {
			levels = append(levels, nil)
		}
		levels[d] = append(levels[d], model.Node(n.ID))
	}
	return levels
}

type asciiBox struct {
	lines []string
	width int
}

func makeBox(node *Node) asciiBox {
	content := []string{node.Label, "@" + node.Agent}
	if tag := shapeTag(node.Shape); tag != "" {
		content = append(content, tag)
	}

	maxLen := 0
	for _, line := range content {
		if n := utf8.RuneCountInString(line); n > maxLen {
			maxLen = n
		}
	}
	width := maxLen + 4

	lines := make([]string, 0, len(content)+2)
	lines = append(lines, "┌"+strings.Repeat("─", width-2)+"┐")
	for _, line := range content {
		pad := maxLen - utf8.RuneCountInString(line)
		lines = append(lines, "│ "+line+strings.Repeat(" ", pad)+" │")
	}
	lines = append(lines, "└"+strings.Repeat("─", width-2)+"┘")

	return asciiBox{lines: lines, width: width}
}

// renderBoxRow writes boxes side by side, top-aligned.
func renderBoxRow(b *strings.Builder, boxes []asciiBox) {
	height := 0
	for _, box := range boxes {
		height = max(height, len(box.lines))
	}
	for row := 0; row < height; row++ {
		for i, box := range boxes {
			if i > 0 {
				b.WriteString("  ")
			}
			if row < len(box.lines) {
				b.WriteString(box.lines[row])
			} else {
				b.WriteString(strings.Repeat(" ", box.width))
			}
		}
		b.WriteByte('\n')
	}
}

func renderConnector(b *strings.Builder) {
	b.WriteString("       │\n")
	b.WriteString("       ▼\n")
}
