package diagram

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Theme holds Mermaid themeVariables overrides. Field order fixes the order
// of keys in the emitted init directive.
type Theme struct {
	PrimaryColor       string `json:"primaryColor"`
	PrimaryTextColor   string `json:"primaryTextColor"`
	PrimaryBorderColor string `json:"primaryBorderColor"`
	LineColor          string `json:"lineColor"`
	SecondaryColor     string `json:"secondaryColor"`
	TertiaryColor      string `json:"tertiaryColor"`
}

// Themes are the named themes accepted by WithTheme.
var Themes = map[string]Theme{
	"github": {
		PrimaryColor:       "#0969da",
		PrimaryTextColor:   "#ffffff",
		PrimaryBorderColor: "#0550ae",
		LineColor:          "#656d76",
		SecondaryColor:     "#ddf4ff",
		TertiaryColor:      "#f6f8fa",
	},
	"ocean": {
		PrimaryColor:       "#0077b6",
		PrimaryTextColor:   "#ffffff",
		PrimaryBorderColor: "#023e8a",
		LineColor:          "#48cae4",
		SecondaryColor:     "#caf0f8",
		TertiaryColor:      "#ade8f4",
	},
	"sunset": {
		PrimaryColor:       "#e85d04",
		PrimaryTextColor:   "#ffffff",
		PrimaryBorderColor: "#dc2f02",
		LineColor:          "#f48c06",
		SecondaryColor:     "#faa307",
		TertiaryColor:      "#ffba08",
	},
}

// ThemeNames returns the known theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MermaidOptions tweaks Mermaid output. The zero value yields the plain
// flowchart.
type MermaidOptions struct {
	// Theme, when set, prepends a %%{init}%% directive.
	Theme *Theme
}

// RenderMermaid renders a DiagramModel as a Mermaid flowchart.
func RenderMermaid(model *DiagramModel) string {
	return RenderMermaidWith(model, MermaidOptions{})
}

// RenderMermaidWith renders a DiagramModel as a Mermaid flowchart. Lines are
// joined with "\n" and there is no trailing newline.
func RenderMermaidWith(model *DiagramModel, opts MermaidOptions) string {
	lines := make([]string, 0, len(model.Nodes)+len(model.Edges)+2*len(model.Styles)+4)

	if opts.Theme != nil {
		lines = append(lines, themeDirective(*opts.Theme))
	}
	lines = append(lines, "flowchart TD")

	for _, node := range model.Nodes {
		lines = append(lines, mermaidNodeDef(node))
	}

	lines = append(lines, "")
	for _, edge := range model.Edges {
		lines = append(lines, mermaidEdgeDef(edge))
	}

	if len(model.Styles) > 0 {
		lines = append(lines, "")
		for _, s := range model.Styles {
			lines = append(lines, fmt.Sprintf("  classDef %s fill:%s,stroke:%s,color:#fff", s.ClassName, s.Color, s.Color))
		}
		for _, s := range model.Styles {
			lines = append(lines, fmt.Sprintf("  class %s %s", strings.Join(s.NodeIDs, ","), s.ClassName))
		}
	}

	return strings.Join(lines, "\n")
}

// mermaidNodeDef returns a node declaration. The label carries a literal
// `\n` (backslash, n) which Mermaid turns into a line break.
func mermaidNodeDef(node *Node) string {
	label := EscapeLabel(node.Label + `\n@` + node.Agent)
	switch node.Shape {
	case ShapeDiamond:
		return fmt.Sprintf("  %s{%s}", node.ID, label)
	case ShapeHexagon:
		return fmt.Sprintf("  %s{{%s}}", node.ID, label)
	default:
		return fmt.Sprintf("  %s[%s]", node.ID, label)
	}
}

func mermaidEdgeDef(edge Edge) string {
	arrow := "-->"
	if edge.Dotted {
		arrow = "-.->"
	}
	if edge.Label != "" {
		return fmt.Sprintf("  %s %s|%s| %s", edge.From, arrow, EscapeLabel(edge.Label), edge.To)
	}
	return fmt.Sprintf("  %s %s %s", edge.From, arrow, edge.To)
}

func themeDirective(t Theme) string {
	init := struct {
		Theme          string `json:"theme"`
		ThemeVariables Theme  `json:"themeVariables"`
	}{Theme: "base", ThemeVariables: t}
	// Marshal cannot fail on a struct of strings.
	b, _ := json.Marshal(init)
	return "%%{init: " + string(b) + "}%%"
}
