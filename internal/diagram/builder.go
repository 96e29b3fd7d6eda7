package diagram

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/squadhub/squadgraph/internal/workflow"
	"github.com/squadhub/squadgraph/pkg/schema"
)

// buildConfig carries the Compiler options that affect model construction.
type buildConfig struct {
	palette Palette
	strict  bool
	logger  *slog.Logger
}

func defaultBuildConfig() buildConfig {
	return buildConfig{
		palette: DefaultPalette,
		logger:  slog.New(slog.DiscardHandler),
	}
}

// Build constructs a DiagramModel from a loaded workflow document with the
// default palette and lenient reference handling.
func Build(doc workflow.Document) (*DiagramModel, error) {
	return buildModel(doc, defaultBuildConfig())
}

func buildModel(doc workflow.Document, cfg buildConfig) (*DiagramModel, error) {
	src := workflow.Detect(doc)

	var g graphBuilder
	switch s := src.(type) {
	case workflow.PhaseList:
		for _, phase := range s.Phases {
			g.addPhase(phase)
		}
	case workflow.StepList:
		// Flat step lists ignore depends_on; only transitions and the
		// sequential fallback connect them.
		for _, step := range s.Steps {
			g.addNode(step, rawIDOr(step, fmt.Sprintf("step_%d", len(g.nodes))), schema.UnknownAgent)
		}
	default:
		return nil, schema.NewError(schema.ErrCodeNoWorkflowNodes, schema.MsgNoWorkflowNodes)
	}

	if len(g.nodes) == 0 {
		return nil, schema.NewError(schema.ErrCodeEmptyGraph, schema.MsgEmptyGraph)
	}

	ids := newNodeSet(g.nodes)
	deps, droppedDeps := resolveDependencies(g.deps, ids)
	trans, droppedTrans := resolveTransitions(doc.Transitions(), ids)
	dangling := append(droppedDeps, droppedTrans...)

	if cfg.strict && len(dangling) > 0 {
		return nil, unknownReferenceError(dangling)
	}
	for _, ref := range dangling {
		cfg.logger.Debug("dropped edge to unknown node",
			slog.String("kind", ref.Kind),
			slog.String("from", ref.From),
			slog.String("to", ref.To),
		)
	}

	edges := append(deps, trans...)
	edges = append(edges, sequentialFallback(g.nodes, edges)...)
	edges = dedupeEdges(edges)

	model := &DiagramModel{
		Title:   doc.Title(),
		Dialect: src.Dialect(),
		Nodes:   g.nodes,
		Edges:   edges,
		Styles:  AssignStyles(g.nodes, cfg.palette),
	}

	cfg.logger.Debug("diagram model built",
		slog.String("dialect", string(model.Dialect)),
		slog.Int("nodes", len(model.Nodes)),
		slog.Int("edges", len(model.Edges)),
		slog.Int("agents", len(model.Styles)),
	)
	return model, nil
}

// graphBuilder accumulates nodes and raw dependency edges in construction order.
type graphBuilder struct {
	nodes []*Node
	deps  []Edge
}

// addPhase adds a phase node followed by its nested steps.
func (g *graphBuilder) addPhase(phase workflow.Entry) {
	rawID := rawIDOr(phase, fmt.Sprintf("phase_%d", len(g.nodes)))
	node := g.addNode(phase, rawID, schema.UnknownAgent)
	g.addDependencies(phase, node.ID)

	// Nested steps without an agent of their own take the phase's.
	for i, step := range phase.Steps() {
		child := g.addNode(step, rawIDOr(step, fmt.Sprintf("%s_step_%d", rawID, i)), node.Agent)
		g.addDependencies(step, child.ID)
	}
}

// addDependencies records an edge from every depends_on reference to id.
func (g *graphBuilder) addDependencies(e workflow.Entry, id string) {
	for _, dep := range e.DependsOn() {
		g.deps = append(g.deps, Edge{From: SanitizeID(dep), To: id})
	}
}

func (g *graphBuilder) addNode(e workflow.Entry, rawID, inheritedAgent string) *Node {
	label, ok := e.Name()
	if !ok {
		label = rawID
	}
	agent, ok := e.Agent()
	if !ok {
		agent = inheritedAgent
	}

	node := &Node{
		ID:    SanitizeID(rawID),
		Label: label,
		Agent: agent,
		Shape: shapeOf(e),
	}
	g.nodes = append(g.nodes, node)
	return node
}

// rawIDOr returns the entry's id, else its name, else fallback.
func rawIDOr(e workflow.Entry, fallback string) string {
	if id, ok := e.RawID(); ok {
		return id
	}
	if name, ok := e.Name(); ok {
		return name
	}
	return fallback
}

// shapeOf derives a node's shape. Checkpoints win over elicitation.
func shapeOf(e workflow.Entry) Shape {
	switch {
	case e.IsCheckpoint():
		return ShapeDiamond
	case e.IsElicit():
		return ShapeHexagon
	default:
		return ShapeRectangle
	}
}

func unknownReferenceError(refs []danglingRef) error {
	parts := make([]string, len(refs))
	details := make([]map[string]any, len(refs))
	for i, ref := range refs {
		parts[i] = fmt.Sprintf("%s %s -> %s", ref.Kind, ref.From, ref.To)
		details[i] = map[string]any{"kind": ref.Kind, "from": ref.From, "to": ref.To}
	}
	return schema.NewErrorf(schema.ErrCodeUnknownReference,
		"%d unknown node reference(s): %s", len(refs), strings.Join(parts, "; ")).
		WithDetails(map[string]any{"references": details})
}
