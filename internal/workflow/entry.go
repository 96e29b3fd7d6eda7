package workflow

import (
	"strconv"
	"strings"

	"github.com/squadhub/squadgraph/pkg/schema"
)

// Entry is a node-like record: a phase, a top-level step or a step nested
// inside a phase. All accessors tolerate missing or mistyped fields.
type Entry map[string]any

// RawID returns the entry's explicit id.
func (e Entry) RawID() (string, bool) {
	return scalarString(e[schema.FieldID])
}

// Name returns the entry's display name.
func (e Entry) Name() (string, bool) {
	return scalarString(e[schema.FieldName])
}

// Agent returns the responsible agent with any leading "@" removed. A direct
// `agent` string wins over `agents.primary`.
func (e Entry) Agent() (string, bool) {
	if a, ok := e[schema.FieldAgent].(string); ok {
		if a = strings.TrimPrefix(a, "@"); a != "" {
			return a, true
		}
	}
	if agents, ok := e[schema.FieldAgents].(map[string]any); ok {
		if a, ok := agents[schema.FieldPrimary].(string); ok {
			if a = strings.TrimPrefix(a, "@"); a != "" {
				return a, true
			}
		}
	}
	return "", false
}

// IsCheckpoint reports whether the entry has checkpoint.human_review set to true.
func (e Entry) IsCheckpoint() bool {
	cp, ok := e[schema.FieldCheckpoint].(map[string]any)
	if !ok {
		return false
	}
	review, ok := cp[schema.FieldHumanReview].(bool)
	return ok && review
}

// IsElicit reports whether the entry is typed `elicit` or carries an
// `elicit` block (mapping or list).
func (e Entry) IsElicit() bool {
	if t, ok := e[schema.FieldType].(string); ok && t == schema.TypeElicit {
		return true
	}
	switch e[schema.FieldElicit].(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

// DependsOn returns the referenced ids from `depends_on`, which may be a
// single string or a list. Conditional references such as
// "step_x.decision == 'proceed'" are cut at the first ".".
func (e Entry) DependsOn() []string {
	var raw []string
	switch v := e[schema.FieldDependsOn].(type) {
	case string:
		raw = []string{v}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	}

	deps := make([]string, 0, len(raw))
	for _, dep := range raw {
		if i := strings.Index(dep, "."); i >= 0 {
			dep = dep[:i]
		}
		if dep != "" {
			deps = append(deps, dep)
		}
	}
	return deps
}

// Steps returns the entry's nested `steps` list.
func (e Entry) Steps() []Entry {
	return entryList(e[schema.FieldSteps])
}

// entryList converts a decoded YAML list into entries. Non-mapping items keep
// their position as empty entries so positional fallbacks stay stable.
func entryList(v any) []Entry {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Entry, len(items))
	for i, item := range items {
		if m, ok := item.(map[string]any); ok {
			out[i] = Entry(m)
		} else {
			out[i] = Entry{}
		}
	}
	return out
}

// scalarString renders a non-empty scalar as text. Numbers and booleans are
// accepted because YAML authors write ids like `1` or `2.0` unquoted.
func scalarString(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case uint64:
		s = strconv.FormatUint(t, 10)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	}
	return s, s != ""
}
