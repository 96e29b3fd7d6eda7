// Package validation lints workflow documents beyond what the compiler
// enforces: a JSON Schema pass for field types, then semantic checks for
// anything the compiler would silently drop or merge.
package validation

import (
	"sync"

	"github.com/squadhub/squadgraph/internal/diagram"
	"github.com/squadhub/squadgraph/internal/workflow"
	"github.com/squadhub/squadgraph/pkg/schema"
)

// Linter runs the lint pipeline. It is safe for concurrent use.
type Linter struct {
	schema *SchemaValidator
}

// NewLinter compiles the workflow schema and returns a Linter.
func NewLinter() (*Linter, error) {
	sv, err := NewSchemaValidator()
	if err != nil {
		return nil, err
	}
	return &Linter{schema: sv}, nil
}

// Lint checks text in two stages:
//  1. Structural: schema violations become errors.
//  2. Semantic: dangling references, collisions, positional ids and missing
//     agents become warnings.
//
// Failures that stop compilation (empty input, bad YAML, no phases or steps)
// are returned as the error, not as issues. Semantic checks run even when the
// schema stage reports errors, as long as the document still compiles.
func (l *Linter) Lint(text string) (*schema.ValidationResult, error) {
	doc, err := workflow.Load(text)
	if err != nil {
		return nil, err
	}

	result := l.schema.Validate(doc)

	model, err := diagram.Build(doc)
	if err != nil {
		return nil, err
	}
	result.Merge(validateSemantic(doc, model))
	return result, nil
}

var defaultLinter = sync.OnceValues(NewLinter)

// Lint runs a shared default Linter over text.
func Lint(text string) (*schema.ValidationResult, error) {
	l, err := defaultLinter()
	if err != nil {
		return nil, err
	}
	return l.Lint(text)
}
