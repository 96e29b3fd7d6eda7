package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadhub/squadgraph/pkg/schema"
)

func TestLoadEmpty(t *testing.T) {
	for _, in := range []string{"", "   \n\n  ", "\t"} {
		_, err := Load(in)
		require.Error(t, err)
		assert.True(t, errors.Is(err, schema.ErrEmptyInput))
		assert.Contains(t, err.Error(), "Empty or null YAML content")
	}
}

func TestLoadParseError(t *testing.T) {
	_, err := Load("phases: [unclosed")
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrParse))
	assert.Contains(t, err.Error(), "Failed to parse YAML")
	assert.NotNil(t, errors.Unwrap(err), "parser diagnostic should be kept as cause")
}

func TestLoadInvalidShape(t *testing.T) {
	for _, in := range []string{"just a string", "- a\n- b\n", "42", "~"} {
		_, err := Load(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, schema.ErrInvalidShape), in)
		assert.Contains(t, err.Error(), "does not contain a valid object")
	}
}

func TestLoadNormalizesNonStringKeys(t *testing.T) {
	doc, err := Load("phases:\n  - id: p1\n    1: one\n")
	require.NoError(t, err)

	src := Detect(doc)
	phases, ok := src.(PhaseList)
	require.True(t, ok)
	require.Len(t, phases.Phases, 1)
	assert.Equal(t, "one", phases.Phases[0]["1"])
}

func TestDetectPrecedence(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want schema.Dialect
	}{
		{"phases", "phases:\n  - id: a\n", schema.DialectPhases},
		{"steps", "steps:\n  - id: a\n", schema.DialectSteps},
		{"workflow steps", "workflow:\n  steps:\n    - id: a\n", schema.DialectWorkflowSteps},
		{"phases beat steps", "phases:\n  - id: a\nsteps:\n  - id: b\n", schema.DialectPhases},
		{"empty phases falls through", "phases: []\nsteps:\n  - id: b\n", schema.DialectSteps},
		{"steps beat workflow", "steps:\n  - id: a\nworkflow:\n  steps:\n    - id: b\n", schema.DialectSteps},
		{"phases not a list", "phases: nope\n", schema.DialectUnrecognized},
		{"nothing", "name: test\nversion: 1.0\n", schema.DialectUnrecognized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := Load(tc.yaml)
			require.NoError(t, err)
			assert.Equal(t, tc.want, Detect(doc).Dialect())
		})
	}
}

func TestEntryAgent(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
		ok    bool
	}{
		{"direct", Entry{"agent": "dan-kennedy"}, "dan-kennedy", true},
		{"strips at", Entry{"agent": "@dan-kennedy"}, "dan-kennedy", true},
		{"primary", Entry{"agents": map[string]any{"primary": "hormozi-offers", "secondary": "x"}}, "hormozi-offers", true},
		{"primary strips at", Entry{"agents": map[string]any{"primary": "@po"}}, "po", true},
		{"direct wins", Entry{"agent": "a", "agents": map[string]any{"primary": "b"}}, "a", true},
		{"non-string agent", Entry{"agent": 7}, "", false},
		{"missing", Entry{}, "", false},
		{"empty agent", Entry{"agent": ""}, "", false},
		{"bare at", Entry{"agent": "@"}, "", false},
		{"empty agent falls back to primary", Entry{"agent": "", "agents": map[string]any{"primary": "po"}}, "po", true},
		{"bare at falls back to primary", Entry{"agent": "@", "agents": map[string]any{"primary": "@qa"}}, "qa", true},
		{"bare at primary", Entry{"agents": map[string]any{"primary": "@"}}, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.entry.Agent()
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEntryShapeFlags(t *testing.T) {
	assert.True(t, Entry{"checkpoint": map[string]any{"human_review": true}}.IsCheckpoint())
	assert.False(t, Entry{"checkpoint": map[string]any{"human_review": false}}.IsCheckpoint())
	assert.False(t, Entry{"checkpoint": map[string]any{"human_review": "true"}}.IsCheckpoint())
	assert.False(t, Entry{"checkpoint": true}.IsCheckpoint())

	assert.True(t, Entry{"type": "elicit"}.IsElicit())
	assert.True(t, Entry{"elicit": map[string]any{"q": "a"}}.IsElicit())
	assert.True(t, Entry{"elicit": []any{map[string]any{"q": "a"}}}.IsElicit())
	assert.False(t, Entry{"elicit": "yes"}.IsElicit())
	assert.False(t, Entry{"type": "agent"}.IsElicit())
}

func TestEntryDependsOn(t *testing.T) {
	assert.Equal(t, []string{"step_0_1"}, Entry{"depends_on": "step_0_1"}.DependsOn())
	assert.Equal(t, []string{"a", "b"}, Entry{"depends_on": []any{"a", "b"}}.DependsOn())
	assert.Equal(t, []string{"step_0_0"},
		Entry{"depends_on": []any{"step_0_0.decision == 'proceed'"}}.DependsOn())
	assert.Equal(t, []string{"a"}, Entry{"depends_on": []any{"a", 3, ""}}.DependsOn())
	assert.Empty(t, Entry{}.DependsOn())
}

func TestEntryScalarIDs(t *testing.T) {
	id, ok := Entry{"id": 3}.RawID()
	assert.True(t, ok)
	assert.Equal(t, "3", id)

	id, ok = Entry{"id": 1.5}.RawID()
	assert.True(t, ok)
	assert.Equal(t, "1.5", id)

	_, ok = Entry{"id": ""}.RawID()
	assert.False(t, ok)
}

func TestNestedStepsKeepPositions(t *testing.T) {
	steps := Entry{"steps": []any{map[string]any{"id": "a"}, "bare", map[string]any{"id": "c"}}}.Steps()
	require.Len(t, steps, 3)
	assert.Empty(t, steps[1])
}

func TestTransitions(t *testing.T) {
	doc, err := Load(`
phases:
  - id: a
transitions:
  - from: a
    to: b
    condition: ready
  - from: b
    to: c
    description: "Domain viable"
  - just-a-string
`)
	require.NoError(t, err)

	tr := doc.Transitions()
	require.Len(t, tr, 2)
	assert.Equal(t, Transition{From: "a", To: "b", Condition: "ready"}, tr[0])
	assert.Equal(t, Transition{From: "b", To: "c", Condition: "Domain viable"}, tr[1])
}

func TestTitle(t *testing.T) {
	doc, err := Load("workflow:\n  name: Brownfield Complete\n  steps: []\n")
	require.NoError(t, err)
	assert.Equal(t, "Brownfield Complete", doc.Title())

	doc, err = Load("name: Top\nworkflow:\n  name: Inner\n")
	require.NoError(t, err)
	assert.Equal(t, "Top", doc.Title())
}
