package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/squadhub/squadgraph/internal/diagram"
	"github.com/squadhub/squadgraph/pkg/schema"
)

// validateDependencyCycles runs Kahn's algorithm over depends_on edges only.
// Transitions are excluded: veto and retry loops are expected to point back.
func validateDependencyCycles(entries []locatedEntry, model *diagram.DiagramModel) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	inDegree := make(map[string]int, len(model.Nodes))
	for _, n := range model.Nodes {
		inDegree[n.ID] = 0
	}

	// dependents[id] lists the nodes that depend on id.
	dependents := make(map[string][]string, len(model.Nodes))
	seen := make(map[[2]string]bool)
	for i, le := range entries {
		if i >= len(model.Nodes) {
			break
		}
		to := model.Nodes[i].ID
		for _, dep := range le.dependsOn() {
			from := diagram.SanitizeID(dep)
			if _, ok := inDegree[from]; !ok || seen[[2]string{from, to}] {
				continue
			}
			seen[[2]string{from, to}] = true
			dependents[from] = append(dependents[from], to)
			inDegree[to]++
		}
	}

	queue := make([]string, 0, len(inDegree))
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, next := range dependents[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if visited == len(inDegree) {
		return result
	}

	var stuck []string
	for id, deg := range inDegree {
		if deg > 0 {
			stuck = append(stuck, id)
		}
	}
	sort.Strings(stuck)
	result.AddWarning("/", schema.LintCodeDependencyCycle,
		fmt.Sprintf("depends_on cycle; no dependency order exists for %s", strings.Join(stuck, ", ")))
	return result
}
