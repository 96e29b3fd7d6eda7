package diagram

import (
	"strings"

	"github.com/squadhub/squadgraph/internal/workflow"
)

// danglingRef is a depends_on or transition endpoint that names no node.
type danglingRef struct {
	Kind string // "depends_on" or "transition"
	From string
	To   string
}

// nodeSet indexes the sanitized ids produced by the builder.
type nodeSet map[string]struct{}

func newNodeSet(nodes []*Node) nodeSet {
	set := make(nodeSet, len(nodes))
	for _, n := range nodes {
		set[n.ID] = struct{}{}
	}
	return set
}

func (s nodeSet) has(id string) bool {
	_, ok := s[id]
	return ok
}

// resolveDependencies keeps dependency edges whose source exists and reports
// the rest. Targets are always built nodes.
func resolveDependencies(deps []Edge, ids nodeSet) ([]Edge, []danglingRef) {
	var kept []Edge
	var dropped []danglingRef
	for _, e := range deps {
		if !ids.has(e.From) {
			dropped = append(dropped, danglingRef{Kind: "depends_on", From: e.From, To: e.To})
			continue
		}
		kept = append(kept, e)
	}
	return kept, dropped
}

// resolveTransitions turns explicit transitions into edges between known
// nodes. Endpoints are sanitized the same way node ids are.
func resolveTransitions(transitions []workflow.Transition, ids nodeSet) ([]Edge, []danglingRef) {
	var kept []Edge
	var dropped []danglingRef
	for _, t := range transitions {
		from, to := SanitizeID(t.From), SanitizeID(t.To)
		if !ids.has(from) || !ids.has(to) {
			dropped = append(dropped, danglingRef{Kind: "transition", From: from, To: to})
			continue
		}
		kept = append(kept, Edge{
			From:   from,
			To:     to,
			Label:  t.Condition,
			Dotted: isVeto(t.Condition),
		})
	}
	return kept, dropped
}

// isVeto reports whether a condition describes a rejection path.
func isVeto(condition string) bool {
	upper := strings.ToUpper(condition)
	return strings.Contains(upper, "VETO") ||
		strings.Contains(upper, "NO-GO") ||
		strings.Contains(upper, "NO_GO")
}

// sequentialFallback links every node after the first that has no incoming
// edge to its predecessor in construction order.
func sequentialFallback(nodes []*Node, edges []Edge) []Edge {
	incoming := make(map[string]bool, len(nodes))
	for _, e := range edges {
		incoming[e.To] = true
	}

	var out []Edge
	for i := 1; i < len(nodes); i++ {
		id := nodes[i].ID
		if incoming[id] {
			continue
		}
		out = append(out, Edge{From: nodes[i-1].ID, To: id})
		incoming[id] = true
	}
	return out
}

// dedupeEdges drops repeats of the same (from, to, label, dotted) tuple,
// keeping the first occurrence.
func dedupeEdges(edges []Edge) []Edge {
	seen := make(map[Edge]struct{}, len(edges))
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
