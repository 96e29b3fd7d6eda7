package mcp

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/squadhub/squadgraph/internal/diagram"
	"github.com/squadhub/squadgraph/internal/validation"
	"github.com/squadhub/squadgraph/pkg/schema"
)

// Linter checks workflow text without rendering it.
type Linter interface {
	Lint(text string) (*schema.ValidationResult, error)
}

// ServerDeps holds the dependencies for creating a Server.
type ServerDeps struct {
	Linter    Linter
	Metrics   diagram.MetricsRecorder
	Logger    *slog.Logger
	Palette   diagram.Palette
	CacheSize int
	// ASCIIBinDir is searched for a mermaid-ascii binary. Empty means the
	// built-in ASCII renderer is always used.
	ASCIIBinDir string
	Version     string
}

// cacheKey selects one compiler configuration.
type cacheKey struct {
	theme  string
	strict bool
}

// Server wraps an MCP server exposing the diagram and lint tools.
type Server struct {
	linter      Linter
	metrics     diagram.MetricsRecorder
	logger      *slog.Logger
	palette     diagram.Palette
	cacheSize   int
	asciiBinDir string
	mcpServer   *server.MCPServer

	mu     sync.Mutex
	caches map[cacheKey]*diagram.Cache
}

// NewServer creates a Server with both tools registered.
func NewServer(deps ServerDeps) (*Server, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	linter := deps.Linter
	if linter == nil {
		l, err := validation.NewLinter()
		if err != nil {
			return nil, err
		}
		linter = l
	}

	version := deps.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		linter:      linter,
		metrics:     deps.Metrics,
		logger:      logger,
		palette:     deps.Palette,
		cacheSize:   deps.CacheSize,
		asciiBinDir: deps.ASCIIBinDir,
		caches:      make(map[cacheKey]*diagram.Cache),
	}

	mcpSrv := server.NewMCPServer(
		"squadgraph",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("squadgraph turns multi-agent workflow YAML into diagrams. Use squadgraph.diagram to render a workflow as Mermaid, ASCII, PNG or SVG, and squadgraph.lint to list schema errors and warnings about references the renderer would drop."),
	)

	mcpSrv.AddTools(s.tools()...)
	s.mcpServer = mcpSrv
	return s, nil
}

// Serve starts the stdio transport and blocks until ctx is cancelled or stdin closes.
func (s *Server) Serve(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcpServer)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// MCPServer returns the underlying MCPServer for testing or custom transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: diagramTool(), Handler: s.handleDiagram},
		{Tool: lintTool(), Handler: s.handleLint},
	}
}

// cacheFor returns the compile cache for one theme/strict combination,
// creating it on first use. theme must already be known to diagram.LookupTheme.
func (s *Server) cacheFor(themeName string, theme *diagram.Theme, strict bool) (*diagram.Cache, error) {
	key := cacheKey{theme: themeName, strict: strict}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.caches[key]; ok {
		return c, nil
	}

	compiler := diagram.NewCompiler(
		diagram.WithLogger(s.logger),
		diagram.WithMetrics(s.metrics),
		diagram.WithPalette(s.palette),
		diagram.WithTheme(theme),
		diagram.WithStrictReferences(strict),
	)
	c, err := diagram.NewCache(compiler, s.cacheSize)
	if err != nil {
		return nil, err
	}
	s.caches[key] = c
	return c, nil
}

// --- Tool definitions ---

func diagramTool() mcp.Tool {
	return mcp.NewTool("squadgraph.diagram",
		mcp.WithDescription("Render a workflow YAML document as a diagram"),
		mcp.WithString("yaml", mcp.Required(), mcp.Description("Workflow YAML text (phases, steps or workflow.steps)")),
		mcp.WithString("format",
			mcp.Enum("mermaid", "ascii", "image", "svg"),
			mcp.Description("Output format (default: mermaid). image returns a PNG."),
		),
		mcp.WithString("theme",
			mcp.Enum(diagram.ThemeNames()...),
			mcp.Description("Mermaid theme preset (default: none)"),
		),
		mcp.WithBoolean("strict", mcp.Description("Fail on references to unknown nodes instead of dropping them")),
	)
}

func lintTool() mcp.Tool {
	return mcp.NewTool("squadgraph.lint",
		mcp.WithDescription("Check a workflow YAML document for schema errors and references the diagram would drop"),
		mcp.WithString("yaml", mcp.Required(), mcp.Description("Workflow YAML text")),
	)
}
