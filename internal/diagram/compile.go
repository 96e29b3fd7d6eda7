package diagram

import (
	"log/slog"
	"time"

	"github.com/squadhub/squadgraph/internal/workflow"
	"github.com/squadhub/squadgraph/pkg/schema"
)

// Outcome labels reported to a MetricsRecorder.
const (
	OutcomeOK = "ok"
	// OutcomeCacheHit marks a result served by a Cache without compiling.
	OutcomeCacheHit = "cache_hit"
)

// MetricsRecorder receives one observation per Compile call, including calls
// a Cache answers from memory. outcome is OutcomeOK, OutcomeCacheHit or the
// DiagramError code; dialect is empty for failures.
type MetricsRecorder interface {
	ObserveCompile(dialect, outcome string, elapsed time.Duration, nodes int)
}

// Result is a successful compilation.
type Result struct {
	Dialect schema.Dialect
	Model   *DiagramModel
	Mermaid string
}

// Compiler turns workflow YAML into diagrams. A Compiler is immutable after
// construction and safe for concurrent use.
type Compiler struct {
	build   buildConfig
	theme   *Theme
	metrics MetricsRecorder
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used for debug traces. Nil keeps the default,
// which discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.build.logger = l
		}
	}
}

// WithMetrics reports every compilation to m.
func WithMetrics(m MetricsRecorder) Option {
	return func(c *Compiler) { c.metrics = m }
}

// WithStrictReferences makes depends_on and transition entries that name
// unknown nodes fail with UNKNOWN_REFERENCE instead of being dropped.
func WithStrictReferences(strict bool) Option {
	return func(c *Compiler) { c.build.strict = strict }
}

// WithTheme prepends a Mermaid init directive for t. Nil means no directive.
func WithTheme(t *Theme) Option {
	return func(c *Compiler) { c.theme = t }
}

// WithPalette replaces the agent palette. An empty palette keeps the default.
func WithPalette(p Palette) Option {
	return func(c *Compiler) {
		if len(p) > 0 {
			c.build.palette = p
		}
	}
}

// NewCompiler creates a Compiler.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{build: defaultBuildConfig()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LookupTheme resolves a theme name. The empty name means no theme.
func LookupTheme(name string) (*Theme, error) {
	if name == "" {
		return nil, nil
	}
	t, ok := Themes[name]
	if !ok {
		return nil, schema.NewErrorf(schema.ErrCodeValidation, "unknown theme %q (want one of %v)", name, ThemeNames())
	}
	return &t, nil
}

// Compile runs the full pipeline on text.
func (c *Compiler) Compile(text string) (*Result, error) {
	start := time.Now()

	res, err := c.compile(text)

	if c.metrics != nil {
		var dialect string
		outcome := OutcomeOK
		nodes := 0
		if err != nil {
			outcome = schema.CodeOf(err)
		} else {
			dialect = string(res.Dialect)
			nodes = len(res.Model.Nodes)
		}
		c.metrics.ObserveCompile(dialect, outcome, time.Since(start), nodes)
	}
	return res, err
}

func (c *Compiler) compile(text string) (*Result, error) {
	doc, err := workflow.Load(text)
	if err != nil {
		c.build.logger.Debug("load failed", slog.String("code", schema.CodeOf(err)))
		return nil, err
	}

	model, err := buildModel(doc, c.build)
	if err != nil {
		return nil, err
	}

	return &Result{
		Dialect: model.Dialect,
		Model:   model,
		Mermaid: RenderMermaidWith(model, MermaidOptions{Theme: c.theme}),
	}, nil
}

var defaultCompiler = NewCompiler()

// ToMermaid compiles workflow YAML into a Mermaid flowchart with default options.
func ToMermaid(text string) (string, error) {
	res, err := defaultCompiler.Compile(text)
	if err != nil {
		return "", err
	}
	return res.Mermaid, nil
}
