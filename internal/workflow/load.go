package workflow

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/squadhub/squadgraph/pkg/schema"
)

// Document is a decoded workflow file: a generic key-value tree with string keys.
type Document map[string]any

// Load parses raw workflow text into a Document.
// It fails with EMPTY_INPUT for blank text, PARSE_ERROR when the YAML is
// malformed and INVALID_SHAPE when the top-level value is not a mapping.
func Load(text string) (Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, schema.NewError(schema.ErrCodeEmptyInput, schema.MsgEmptyInput)
	}

	var raw any
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		return nil, schema.NewParseError(err)
	}

	m, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, schema.NewError(schema.ErrCodeInvalidShape, schema.MsgInvalidShape)
	}
	return Document(m), nil
}

// normalize rewrites map[any]any (produced by yaml.v3 for non-string keys)
// into map[string]any, recursively, so callers only ever see one map type.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = normalize(child)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[fmt.Sprint(k)] = normalize(child)
		}
		return out
	case []any:
		for i, child := range t {
			t[i] = normalize(child)
		}
		return t
	default:
		return v
	}
}

// Transitions returns the document's explicit transition list. Entries that
// are not mappings are skipped.
func (d Document) Transitions() []Transition {
	items, ok := d[schema.FieldTransitions].([]any)
	if !ok {
		return nil
	}
	out := make([]Transition, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		from, _ := scalarString(m[schema.FieldFrom])
		to, _ := scalarString(m[schema.FieldTo])
		cond, ok := scalarString(m[schema.FieldCondition])
		if !ok {
			cond, _ = scalarString(m[schema.FieldDescription])
		}
		out = append(out, Transition{From: from, To: to, Condition: cond})
	}
	return out
}

// Title returns the workflow's display name, looked up at the top level and
// then under `workflow`.
func (d Document) Title() string {
	if name, ok := scalarString(d[schema.FieldName]); ok {
		return name
	}
	if wf, ok := d[schema.FieldWorkflow].(map[string]any); ok {
		if name, ok := scalarString(wf[schema.FieldName]); ok {
			return name
		}
	}
	return ""
}

// Transition is one entry of the `transitions` block. Condition falls back
// to the entry's description when no condition is given.
type Transition struct {
	From      string
	To        string
	Condition string
}
