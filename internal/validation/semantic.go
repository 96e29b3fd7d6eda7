package validation

import (
	"fmt"

	"github.com/squadhub/squadgraph/internal/diagram"
	"github.com/squadhub/squadgraph/internal/workflow"
	"github.com/squadhub/squadgraph/pkg/schema"
)

// locatedEntry is a phase or step together with its JSON pointer.
// hasDeps is false for flat step lists, where depends_on draws no edge.
type locatedEntry struct {
	path    string
	entry   workflow.Entry
	hasDeps bool
}

// dependsOn returns the references that become edges for this entry.
func (le locatedEntry) dependsOn() []string {
	if !le.hasDeps {
		return nil
	}
	return le.entry.DependsOn()
}

// walkEntries lists entries in the order the diagram builder visits them,
// so the i-th entry produced the i-th model node.
func walkEntries(src workflow.Source) []locatedEntry {
	var out []locatedEntry
	switch s := src.(type) {
	case workflow.PhaseList:
		for i, phase := range s.Phases {
			path := fmt.Sprintf("/phases/%d", i)
			out = append(out, locatedEntry{path, phase, true})
			for j, step := range phase.Steps() {
				out = append(out, locatedEntry{fmt.Sprintf("%s/steps/%d", path, j), step, true})
			}
		}
	case workflow.StepList:
		prefix := "/steps"
		if s.Nested {
			prefix = "/workflow/steps"
		}
		for i, step := range s.Steps {
			out = append(out, locatedEntry{fmt.Sprintf("%s/%d", prefix, i), step, false})
		}
	}
	return out
}

// validateSemantic flags what the compiler accepts silently: positional ids,
// unknown agents, ids that collapse onto one node, and references that lead
// nowhere.
func validateSemantic(doc workflow.Document, model *diagram.DiagramModel) *schema.ValidationResult {
	result := &schema.ValidationResult{}
	entries := walkEntries(workflow.Detect(doc))

	ids := make(map[string]bool, len(model.Nodes))
	for _, n := range model.Nodes {
		ids[n.ID] = true
	}

	firstSeen := make(map[string]string, len(model.Nodes))
	for i, le := range entries {
		if i >= len(model.Nodes) {
			break
		}
		node := model.Nodes[i]

		_, hasID := le.entry.RawID()
		_, hasName := le.entry.Name()
		if !hasID && !hasName {
			result.AddWarning(le.path, schema.LintCodeMissingID,
				fmt.Sprintf("no id or name; rendered with positional id %q", node.ID))
		}

		if node.Agent == schema.UnknownAgent {
			result.AddWarning(le.path, schema.LintCodeMissingAgent,
				fmt.Sprintf("no agent; %q is rendered as @%s", node.ID, schema.UnknownAgent))
		}

		if prev, dup := firstSeen[node.ID]; dup {
			result.AddWarning(le.path, schema.LintCodeDuplicateID,
				fmt.Sprintf("id %q is also declared at %s; both share one diagram node", node.ID, prev))
		} else {
			firstSeen[node.ID] = le.path
		}

		for _, dep := range le.dependsOn() {
			if !ids[diagram.SanitizeID(dep)] {
				result.AddWarning(le.path+"/"+schema.FieldDependsOn, schema.LintCodeDanglingDependency,
					fmt.Sprintf("depends_on %q names no node; the edge is dropped", dep))
			}
		}
	}

	for _, t := range doc.Transitions() {
		from, to := diagram.SanitizeID(t.From), diagram.SanitizeID(t.To)
		if ids[from] && ids[to] {
			continue
		}
		missing := t.To
		if !ids[from] {
			missing = t.From
		}
		result.AddWarning("/"+schema.FieldTransitions, schema.LintCodeDanglingTransition,
			fmt.Sprintf("transition %q -> %q references unknown node %q; it is dropped", t.From, t.To, missing))
	}

	result.Merge(validateDependencyCycles(entries, model))
	return result
}
