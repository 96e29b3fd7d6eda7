package diagram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelsIgnoreBackEdges(t *testing.T) {
	levels := Levels(sampleModel())
	require.Len(t, levels, 3)
	assert.Equal(t, "intake", levels[0][0].ID)
	assert.Equal(t, "review", levels[1][0].ID)
	assert.Equal(t, "build", levels[2][0].ID)
}

func TestLevelsParallelBranches(t *testing.T) {
	model := &DiagramModel{
		Nodes: nodesFor("root", "left", "right", "join"),
		Edges: []Edge{
			{From: "root", To: "left"},
			{From: "root", To: "right"},
			{From: "left", To: "join"},
			{From: "right", To: "join"},
		},
	}
	levels := Levels(model)
	require.Len(t, levels, 3)
	assert.Len(t, levels[1], 2)
}

func TestLevelsCollidingIDsPlacedOnce(t *testing.T) {
	model := &DiagramModel{
		Nodes: []*Node{
			{ID: "x", Label: "first"},
			{ID: "x", Label: "second"},
		},
		Edges: []Edge{{From: "x", To: "x"}},
	}
	levels := Levels(model)
	require.Len(t, levels, 1)
	require.Len(t, levels[0], 1)
	assert.Equal(t, "second", levels[0][0].Label)
}

func TestRenderASCII(t *testing.T) {
	out := RenderASCII(sampleModel())

	assert.True(t, strings.HasPrefix(out, "=== Sample ===\n"))
	assert.Contains(t, out, "│ Intake   │")
	assert.Contains(t, out, "@pm")
	assert.Contains(t, out, "{elicit}")
	assert.Contains(t, out, "<review>")
	assert.Contains(t, out, "▼")
	assert.Contains(t, out, "  review -.-> intake  (VETO)\n")
	assert.Contains(t, out, "  intake --> review\n")
}

func TestRenderASCIIWideRunes(t *testing.T) {
	model := &DiagramModel{Nodes: []*Node{{ID: "a", Label: "Überprüfung", Agent: "qa"}}}
	out := RenderASCII(model)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, len([]rune(lines[0])), len([]rune(lines[1])))
	assert.NotContains(t, out, "Edges:")
}
