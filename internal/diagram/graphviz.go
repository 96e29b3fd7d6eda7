package diagram

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/squadhub/squadgraph/pkg/schema"
)

// ImageFormat selects the Graphviz output encoding.
type ImageFormat string

const (
	ImagePNG ImageFormat = "png"
	ImageSVG ImageFormat = "svg"
)

// RenderImage lays out a DiagramModel with Graphviz dot and returns the
// encoded image. Nodes are filled with their agent's color.
func RenderImage(ctx context.Context, model *DiagramModel, format ImageFormat) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case ImagePNG:
		gvFormat = graphviz.PNG
	case ImageSVG:
		gvFormat = graphviz.SVG
	default:
		return nil, schema.NewErrorf(schema.ErrCodeRender, "unsupported image format %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, renderError("create graphviz", err)
	}
	defer gv.Close()

	gv.SetLayout(graphviz.DOT)

	graph, err := gv.Graph()
	if err != nil {
		return nil, renderError("create graph", err)
	}
	defer graph.Close()

	graph.SetRankDir(cgraph.TBRank)
	if model.Title != "" {
		graph.SetLabel(model.Title)
	}

	colors := make(map[string]string, len(model.Styles))
	for _, s := range model.Styles {
		colors[s.Agent] = s.Color
	}

	// Colliding ids share one Graphviz node; the last declaration styles it.
	gvNodes := make(map[string]*cgraph.Node, len(model.Nodes))
	for _, node := range model.Nodes {
		gvNode, ok := gvNodes[node.ID]
		if !ok {
			gvNode, err = graph.CreateNodeByName(node.ID)
			if err != nil {
				return nil, renderError("create node "+node.ID, err)
			}
			gvNodes[node.ID] = gvNode
		}
		gvNode.SetLabel(node.Label + "\n@" + node.Agent)
		applyNodeStyle(gvNode, node, colors[node.Agent])
	}

	for _, edge := range model.Edges {
		fromGV, toGV := gvNodes[edge.From], gvNodes[edge.To]
		if fromGV == nil || toGV == nil {
			continue
		}
		e, err := graph.CreateEdgeByName("", fromGV, toGV)
		if err != nil {
			return nil, renderError(fmt.Sprintf("create edge %s->%s", edge.From, edge.To), err)
		}
		if edge.Label != "" {
			e.SetLabel(edge.Label)
		}
		if edge.Dotted {
			e.SetStyle(cgraph.DottedEdgeStyle)
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, gvFormat, &buf); err != nil {
		return nil, renderError("render "+string(format), err)
	}
	return buf.Bytes(), nil
}

func applyNodeStyle(gvNode *cgraph.Node, node *Node, color string) {
	switch node.Shape {
	case ShapeDiamond:
		gvNode.SetShape(cgraph.DiamondShape)
	case ShapeHexagon:
		gvNode.SetShape(cgraph.HexagonShape)
	default:
		gvNode.SetShape(cgraph.BoxShape)
	}
	if color != "" {
		gvNode.SetStyle(cgraph.FilledNodeStyle)
		gvNode.SetFillColor(color)
		gvNode.SetColor(color)
		gvNode.SetFontColor("white")
	}
}

func renderError(op string, err error) error {
	return schema.NewErrorf(schema.ErrCodeRender, "graphviz: %s: %v", op, err).WithCause(err)
}
