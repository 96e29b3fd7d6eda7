package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationResult_EmptyIsValid(t *testing.T) {
	r := &ValidationResult{}
	assert.True(t, r.Valid())
	assert.Empty(t, r.Issues())
}

func TestValidationResult_WarningsStayValid(t *testing.T) {
	r := &ValidationResult{}
	r.AddWarning("/phases/1/depends_on/0", LintCodeDanglingDependency, "unknown node \"ghost\"")

	assert.True(t, r.Valid())
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, SeverityWarning, r.Warnings[0].Severity)
	assert.Nil(t, r.ToError())
}

func TestValidationResult_IssuesOrder(t *testing.T) {
	r := &ValidationResult{}
	r.AddWarning("/phases/0", LintCodeMissingAgent, "no agent")
	r.AddError("/phases", LintCodeSchema, "expected array")

	other := &ValidationResult{}
	other.AddWarning("/transitions/0/to", LintCodeDanglingTransition, "unknown node")
	r.Merge(other)
	r.Merge(nil)

	issues := r.Issues()
	require.Len(t, issues, 3)
	assert.Equal(t, LintCodeSchema, issues[0].Code)
	assert.Equal(t, LintCodeMissingAgent, issues[1].Code)
	assert.Equal(t, LintCodeDanglingTransition, issues[2].Code)
	assert.Equal(t, "error SCHEMA /phases: expected array", issues[0].String())
}

func TestValidationResult_ToError(t *testing.T) {
	r := &ValidationResult{}
	r.AddError("/steps", LintCodeSchema, "expected array")

	err := r.ToError()
	require.Error(t, err)
	de, ok := err.(*DiagramError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeValidation, de.Code)
	assert.Equal(t, "expected array", de.Message)
	assert.Equal(t, 1, de.Details["error_count"])

	r.AddError("/phases", LintCodeSchema, "expected array")
	r.AddWarning("/", LintCodeMissingID, "x")
	de = r.ToError().(*DiagramError)
	assert.Contains(t, de.Message, "2 errors")
	assert.Equal(t, 1, de.Details["warning_count"])
}
