package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/squadhub/squadgraph/internal/diagram"
	"github.com/squadhub/squadgraph/internal/logging"
	"github.com/squadhub/squadgraph/pkg/schema"
)

// lintResponse is the JSON body returned by squadgraph.lint.
type lintResponse struct {
	Valid    bool                     `json:"valid"`
	Errors   []schema.ValidationIssue `json:"errors"`
	Warnings []schema.ValidationIssue `json:"warnings"`
}

// withCall tags ctx with a fresh request id and the tool name.
func withCall(ctx context.Context, tool string) context.Context {
	ctx = logging.WithRequestID(ctx, uuid.New().String())
	return logging.WithTool(ctx, tool)
}

// handleDiagram compiles the workflow and renders it in the requested format.
func (s *Server) handleDiagram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = withCall(ctx, req.Params.Name)
	log := logging.LogWith(ctx, s.logger)
	start := time.Now()

	text, err := req.RequireString("yaml")
	if err != nil {
		return mcp.NewToolResultError("yaml is required"), nil
	}

	format := req.GetString("format", "mermaid")
	switch format {
	case "mermaid", "ascii", "image", "svg":
	default:
		return mcp.NewToolResultError("format must be mermaid, ascii, image, or svg"), nil
	}

	themeName := req.GetString("theme", "")
	theme, err := diagram.LookupTheme(themeName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	strict := req.GetBool("strict", false)

	cache, err := s.cacheFor(themeName, theme, strict)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("compiler setup failed: %v", err)), nil
	}

	res, err := cache.Compile(text)
	if err != nil {
		log.Info("diagram rejected", slog.String("code", schema.CodeOf(err)))
		return mcp.NewToolResultError(err.Error()), nil
	}

	defer func() {
		log.Info("diagram rendered",
			slog.String("format", format),
			slog.String("dialect", string(res.Dialect)),
			slog.Int("nodes", len(res.Model.Nodes)),
			slog.Duration("elapsed", time.Since(start)),
		)
	}()

	switch format {
	case "ascii":
		return mcp.NewToolResultText(diagram.RenderASCIIAuto(ctx, res.Model, s.asciiBinDir)), nil
	case "svg":
		svg, imgErr := diagram.RenderImage(ctx, res.Model, diagram.ImageSVG)
		if imgErr != nil {
			return mcp.NewToolResultError(imgErr.Error()), nil
		}
		return mcp.NewToolResultText(string(svg)), nil
	case "image":
		png, imgErr := diagram.RenderImage(ctx, res.Model, diagram.ImagePNG)
		if imgErr != nil {
			return mcp.NewToolResultError(imgErr.Error()), nil
		}
		return mcp.NewToolResultImage("workflow diagram", base64.StdEncoding.EncodeToString(png), "image/png"), nil
	default:
		return mcp.NewToolResultText(res.Mermaid), nil
	}
}

// handleLint runs the linter. Documents that cannot be compiled at all are
// reported as tool errors; everything else comes back as a lint report.
func (s *Server) handleLint(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = withCall(ctx, req.Params.Name)
	log := logging.LogWith(ctx, s.logger)

	text, err := req.RequireString("yaml")
	if err != nil {
		return mcp.NewToolResultError("yaml is required"), nil
	}

	result, err := s.linter.Lint(text)
	if err != nil {
		log.Info("lint rejected", slog.String("code", schema.CodeOf(err)))
		return mcp.NewToolResultError(err.Error()), nil
	}

	log.Info("lint finished",
		slog.Int("errors", len(result.Errors)),
		slog.Int("warnings", len(result.Warnings)),
	)

	resp := lintResponse{
		Valid:    result.Valid(),
		Errors:   result.Errors,
		Warnings: result.Warnings,
	}
	if resp.Errors == nil {
		resp.Errors = []schema.ValidationIssue{}
	}
	if resp.Warnings == nil {
		resp.Warnings = []schema.ValidationIssue{}
	}
	return marshalResult(resp)
}

// marshalResult converts a value to a JSON text tool result.
func marshalResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultJSON(json.RawMessage(data))
}
