package schema

import "fmt"

// ValidationSeverity indicates whether a lint issue blocks rendering.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// Lint issue codes. Errors come from the document schema; warnings flag
// things the compiler tolerates but silently drops or merges.
const (
	LintCodeSchema             = "SCHEMA"
	LintCodeDanglingDependency = "DANGLING_DEPENDENCY"
	LintCodeDanglingTransition = "DANGLING_TRANSITION"
	LintCodeDependencyCycle    = "DEPENDENCY_CYCLE"
	LintCodeDuplicateID        = "DUPLICATE_ID"
	LintCodeMissingAgent       = "MISSING_AGENT"
	LintCodeMissingID          = "MISSING_ID"
)

// ValidationIssue is one lint finding, located by a JSON-pointer-like path
// into the workflow document.
type ValidationIssue struct {
	Path     string             `json:"path"`
	Code     string             `json:"code"`
	Message  string             `json:"message"`
	Severity ValidationSeverity `json:"severity"`
}

func (i ValidationIssue) String() string {
	return fmt.Sprintf("%s %s %s: %s", i.Severity, i.Code, i.Path, i.Message)
}

// ValidationResult collects the findings of a lint run.
type ValidationResult struct {
	Errors   []ValidationIssue `json:"errors,omitempty"`
	Warnings []ValidationIssue `json:"warnings,omitempty"`
}

// Valid reports whether there are no errors. Warnings are allowed.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) AddError(path, code, message string) {
	r.Errors = append(r.Errors, ValidationIssue{
		Path: path, Code: code, Message: message, Severity: SeverityError,
	})
}

func (r *ValidationResult) AddWarning(path, code, message string) {
	r.Warnings = append(r.Warnings, ValidationIssue{
		Path: path, Code: code, Message: message, Severity: SeverityWarning,
	})
}

// Merge appends other's findings. A nil other is a no-op.
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Issues returns errors followed by warnings.
func (r *ValidationResult) Issues() []ValidationIssue {
	out := make([]ValidationIssue, 0, len(r.Errors)+len(r.Warnings))
	out = append(out, r.Errors...)
	return append(out, r.Warnings...)
}

// ToError converts an invalid result into a VALIDATION_ERROR DiagramError.
// It returns nil when the result is valid.
func (r *ValidationResult) ToError() error {
	if r.Valid() {
		return nil
	}

	msg := r.Errors[0].Message
	if len(r.Errors) > 1 {
		msg = fmt.Sprintf("lint failed with %d errors", len(r.Errors))
	}

	return NewError(ErrCodeValidation, msg).
		WithDetails(map[string]any{
			"error_count":   len(r.Errors),
			"warning_count": len(r.Warnings),
			"errors":        r.Errors,
			"warnings":      r.Warnings,
		})
}
