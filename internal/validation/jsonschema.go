package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/squadhub/squadgraph/internal/workflow"
	"github.com/squadhub/squadgraph/pkg/schema"
)

const workflowSchemaURL = "https://squadgraph.dev/schemas/workflow.json"

// workflowSchemaJSON describes the fields the compiler reads. Unknown keys
// are allowed everywhere: squad workflows carry plenty of metadata the
// diagram ignores.
const workflowSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://squadgraph.dev/schemas/workflow.json",
  "type": "object",
  "properties": {
    "name": { "type": "string" },
    "phases": {
      "type": "array",
      "items": { "$ref": "#/$defs/entry" }
    },
    "steps": {
      "type": "array",
      "items": { "$ref": "#/$defs/entry" }
    },
    "workflow": {
      "type": "object",
      "properties": {
        "name": { "type": "string" },
        "steps": {
          "type": "array",
          "items": { "$ref": "#/$defs/entry" }
        }
      }
    },
    "transitions": {
      "type": "array",
      "items": { "$ref": "#/$defs/transition" }
    }
  },
  "$defs": {
    "ref": {
      "type": ["string", "number"]
    },
    "entry": {
      "type": "object",
      "properties": {
        "id": { "$ref": "#/$defs/ref" },
        "name": { "type": "string" },
        "agent": { "type": "string" },
        "agents": {
          "type": "object",
          "properties": {
            "primary": { "type": "string" }
          }
        },
        "type": { "type": "string" },
        "depends_on": {
          "oneOf": [
            { "type": "string" },
            { "type": "array", "items": { "type": "string" } }
          ]
        },
        "checkpoint": {
          "type": "object",
          "properties": {
            "human_review": { "type": "boolean" }
          }
        },
        "elicit": { "type": ["object", "array", "boolean", "null"] },
        "steps": {
          "type": "array",
          "items": { "$ref": "#/$defs/entry" }
        }
      }
    },
    "transition": {
      "type": "object",
      "required": ["from", "to"],
      "properties": {
        "from": { "$ref": "#/$defs/ref" },
        "to": { "$ref": "#/$defs/ref" },
        "condition": { "type": "string" },
        "description": { "type": "string" }
      }
    }
  }
}`

// SchemaValidator checks a workflow document against the workflow JSON
// Schema (Draft 2020-12). It is safe for concurrent use.
type SchemaValidator struct {
	workflowSchema *jsonschema.Schema
}

// NewSchemaValidator compiles the embedded workflow schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	c := jsonschema.NewCompiler()
	c.AssertFormat()

	schemaDoc, err := jsonschema.UnmarshalJSON(strings.NewReader(workflowSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal workflow schema: %w", err)
	}
	if err := c.AddResource(workflowSchemaURL, schemaDoc); err != nil {
		return nil, fmt.Errorf("add workflow schema resource: %w", err)
	}

	compiled, err := c.Compile(workflowSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile workflow schema: %w", err)
	}
	return &SchemaValidator{workflowSchema: compiled}, nil
}

// Validate reports every schema violation in doc as an error-severity issue.
func (v *SchemaValidator) Validate(doc workflow.Document) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	value, err := toJSONValue(doc)
	if err != nil {
		result.AddError("/", schema.LintCodeSchema, fmt.Sprintf("document is not representable as JSON: %v", err))
		return result
	}

	err = v.workflowSchema.Validate(value)
	if err == nil {
		return result
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.AddError("/", schema.LintCodeSchema, err.Error())
		return result
	}
	for _, viol := range collectViolations(verr) {
		result.AddError(viol.path, schema.LintCodeSchema, viol.message)
	}
	return result
}

// toJSONValue round-trips a decoded YAML tree through JSON so numbers become
// json.Number, which is what the jsonschema library expects.
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(strings.NewReader(string(b)))
}

// printer renders violation messages. jsonschema localizes through x/text.
var printer = message.NewPrinter(language.English)

type violation struct {
	path    string
	message string
}

// collectViolations flattens a ValidationError tree into its leaves, each
// located by a JSON pointer into the document.
func collectViolations(verr *jsonschema.ValidationError) []violation {
	if len(verr.Causes) == 0 {
		return []violation{{
			path:    "/" + strings.Join(verr.InstanceLocation, "/"),
			message: verr.ErrorKind.LocalizedString(printer),
		}}
	}

	var out []violation
	for _, cause := range verr.Causes {
		out = append(out, collectViolations(cause)...)
	}
	return out
}
