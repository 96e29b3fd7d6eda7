package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadhub/squadgraph/pkg/schema"
)

const twoSteps = `
steps:
  - id: a
    agent: dev
  - id: b
    agent: qa
`

const twoStepsMermaid = "flowchart TD\n" +
	"  a[a\\n@dev]\n" +
	"  b[b\\n@qa]\n" +
	"\n" +
	"  a --> b\n" +
	"\n" +
	"  classDef agent_dev fill:#4CAF50,stroke:#4CAF50,color:#fff\n" +
	"  classDef agent_qa fill:#2196F3,stroke:#2196F3,color:#fff\n" +
	"  class a agent_dev\n" +
	"  class b agent_qa"

// --- Fakes ---

type compileCall struct {
	dialect string
	outcome string
}

type fakeMetrics struct {
	mu    sync.Mutex
	calls []compileCall
}

func (f *fakeMetrics) ObserveCompile(dialect, outcome string, _ time.Duration, _ int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, compileCall{dialect, outcome})
}

type stubLinter struct {
	result *schema.ValidationResult
	err    error
}

func (l stubLinter) Lint(string) (*schema.ValidationResult, error) {
	return l.result, l.err
}

// --- Helpers ---

func callTool(t *testing.T, s *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}

	var (
		result *mcp.CallToolResult
		err    error
	)
	switch name {
	case "squadgraph.diagram":
		result, err = s.handleDiagram(context.Background(), req)
	case "squadgraph.lint":
		result, err = s.handleLint(context.Background(), req)
	default:
		t.Fatalf("unknown tool %s", name)
	}
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	return mcp.GetTextFromContent(result.Content[0])
}

// --- squadgraph.diagram ---

func TestHandleDiagram_DefaultsToMermaid(t *testing.T) {
	s := newTestServer(t, ServerDeps{})

	result := callTool(t, s, "squadgraph.diagram", map[string]any{"yaml": twoSteps})
	assert.False(t, result.IsError)
	assert.Equal(t, twoStepsMermaid, resultText(t, result))
}

func TestHandleDiagram_MissingYAML(t *testing.T) {
	s := newTestServer(t, ServerDeps{})

	result := callTool(t, s, "squadgraph.diagram", map[string]any{})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "yaml is required")
}

func TestHandleDiagram_BadFormat(t *testing.T) {
	s := newTestServer(t, ServerDeps{})

	result := callTool(t, s, "squadgraph.diagram", map[string]any{"yaml": twoSteps, "format": "pdf"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "format must be")
}

func TestHandleDiagram_CompileErrors(t *testing.T) {
	s := newTestServer(t, ServerDeps{})

	tests := []struct {
		name string
		yaml string
		code string
	}{
		{"empty", "   ", schema.ErrCodeEmptyInput},
		{"parse", "key: [unclosed", schema.ErrCodeParse},
		{"shape", "- a\n- b\n", schema.ErrCodeInvalidShape},
		{"no nodes", "name: nothing\n", schema.ErrCodeNoWorkflowNodes},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := callTool(t, s, "squadgraph.diagram", map[string]any{"yaml": tc.yaml})
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), "["+tc.code+"]")
		})
	}
}

func TestHandleDiagram_Theme(t *testing.T) {
	s := newTestServer(t, ServerDeps{})

	result := callTool(t, s, "squadgraph.diagram", map[string]any{"yaml": twoSteps, "theme": "ocean"})
	require.False(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, `%%{init: {"theme":"base"`)
	assert.Contains(t, text, "\nflowchart TD\n")

	result = callTool(t, s, "squadgraph.diagram", map[string]any{"yaml": twoSteps, "theme": "neon"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), schema.ErrCodeValidation)
}

func TestHandleDiagram_Strict(t *testing.T) {
	s := newTestServer(t, ServerDeps{})
	doc := `
phases:
  - id: a
    agent: dev
    depends_on: [ghost]
`

	result := callTool(t, s, "squadgraph.diagram", map[string]any{"yaml": doc})
	assert.False(t, result.IsError)

	result = callTool(t, s, "squadgraph.diagram", map[string]any{"yaml": doc, "strict": true})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), schema.ErrCodeUnknownReference)
}

func TestHandleDiagram_ASCII(t *testing.T) {
	s := newTestServer(t, ServerDeps{})

	result := callTool(t, s, "squadgraph.diagram", map[string]any{"yaml": twoSteps, "format": "ascii"})
	require.False(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "@dev")
	assert.Contains(t, text, "@qa")
}

func TestHandleDiagram_SVG(t *testing.T) {
	s := newTestServer(t, ServerDeps{})

	result := callTool(t, s, "squadgraph.diagram", map[string]any{"yaml": twoSteps, "format": "svg"})
	require.False(t, result.IsError, resultText(t, result))
	assert.Contains(t, resultText(t, result), "<svg")
}

func TestHandleDiagram_Image(t *testing.T) {
	s := newTestServer(t, ServerDeps{})

	result := callTool(t, s, "squadgraph.diagram", map[string]any{"yaml": twoSteps, "format": "image"})
	require.False(t, result.IsError)

	var img *mcp.ImageContent
	for _, c := range result.Content {
		if ic, ok := c.(mcp.ImageContent); ok {
			img = &ic
		}
	}
	require.NotNil(t, img, "expected image content")
	assert.Equal(t, "image/png", img.MIMEType)

	png, err := base64.StdEncoding.DecodeString(img.Data)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}

func TestHandleDiagram_RecordsCacheHits(t *testing.T) {
	m := &fakeMetrics{}
	s := newTestServer(t, ServerDeps{Metrics: m})

	for i := 0; i < 3; i++ {
		result := callTool(t, s, "squadgraph.diagram", map[string]any{"yaml": twoSteps})
		require.False(t, result.IsError)
	}
	callTool(t, s, "squadgraph.diagram", map[string]any{"yaml": ""})

	// Repeat requests are served from the cache; failures never are.
	assert.Equal(t, []compileCall{
		{"steps", "ok"},
		{"steps", "cache_hit"},
		{"steps", "cache_hit"},
		{"", schema.ErrCodeEmptyInput},
	}, m.calls)
}

// --- squadgraph.lint ---

func TestHandleLint_Report(t *testing.T) {
	s := newTestServer(t, ServerDeps{})
	doc := `
phases:
  - id: a
    agent: dev
  - id: b
    depends_on: [ghost]
`

	result := callTool(t, s, "squadgraph.lint", map[string]any{"yaml": doc})
	require.False(t, result.IsError)

	var resp lintResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Errors)

	codes := make([]string, len(resp.Warnings))
	for i, w := range resp.Warnings {
		codes[i] = w.Code
	}
	assert.Equal(t, []string{schema.LintCodeMissingAgent, schema.LintCodeDanglingDependency}, codes)
}

func TestHandleLint_SchemaErrors(t *testing.T) {
	s := newTestServer(t, ServerDeps{})

	result := callTool(t, s, "squadgraph.lint", map[string]any{"yaml": "steps:\n  - id: a\n    agent: 7\n"})
	require.False(t, result.IsError)

	var resp lintResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &resp))
	assert.False(t, resp.Valid)
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "/steps/0/agent", resp.Errors[0].Path)
}

func TestHandleLint_CompileError(t *testing.T) {
	s := newTestServer(t, ServerDeps{})

	result := callTool(t, s, "squadgraph.lint", map[string]any{"yaml": "name: nothing\n"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), schema.ErrCodeNoWorkflowNodes)
}

func TestHandleLint_EmptyListsAreArrays(t *testing.T) {
	s := newTestServer(t, ServerDeps{Linter: stubLinter{result: &schema.ValidationResult{}}})

	result := callTool(t, s, "squadgraph.lint", map[string]any{"yaml": "anything"})
	require.False(t, result.IsError)
	assert.JSONEq(t, `{"valid":true,"errors":[],"warnings":[]}`, resultText(t, result))
}

func TestHandleLint_MissingYAML(t *testing.T) {
	s := newTestServer(t, ServerDeps{})

	result := callTool(t, s, "squadgraph.lint", map[string]any{})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "yaml is required")
}
