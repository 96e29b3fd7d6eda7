package diagram

// Palette is an ordered list of fill colors. Agents take colors in
// first-seen order and wrap around once the palette is exhausted.
type Palette []string

// DefaultPalette is the agent palette used unless WithPalette overrides it.
var DefaultPalette = Palette{
	"#4CAF50",
	"#2196F3",
	"#FF9800",
	"#9C27B0",
	"#F44336",
	"#00BCD4",
	"#795548",
}

// Color returns the color for the i-th distinct agent.
func (p Palette) Color(i int) string {
	if len(p) == 0 {
		return DefaultPalette.Color(i)
	}
	return p[i%len(p)]
}

// AgentStyle groups the nodes owned by one agent under a single color class.
type AgentStyle struct {
	Agent     string
	ClassName string
	Color     string
	NodeIDs   []string
}

// AssignStyles partitions nodes by agent in first-seen order and gives each
// agent the next palette color.
func AssignStyles(nodes []*Node, palette Palette) []AgentStyle {
	index := make(map[string]int)
	var styles []AgentStyle
	for _, n := range nodes {
		i, ok := index[n.Agent]
		if !ok {
			i = len(styles)
			index[n.Agent] = i
			styles = append(styles, AgentStyle{
				Agent:     n.Agent,
				ClassName: ClassName(n.Agent),
				Color:     palette.Color(i),
			})
		}
		styles[i].NodeIDs = append(styles[i].NodeIDs, n.ID)
	}
	return styles
}
