package schema

// Dialect identifies which top-level shape a workflow document uses.
type Dialect string

const (
	// DialectPhases is a top-level `phases` list whose entries may nest `steps`.
	DialectPhases Dialect = "phases"
	// DialectSteps is a flat top-level `steps` list.
	DialectSteps Dialect = "steps"
	// DialectWorkflowSteps is a `steps` list nested under a `workflow` object.
	DialectWorkflowSteps Dialect = "workflow.steps"
	// DialectUnrecognized means none of the above matched.
	DialectUnrecognized Dialect = "unrecognized"
)

// Document field names recognised by the compiler.
const (
	FieldPhases      = "phases"
	FieldSteps       = "steps"
	FieldWorkflow    = "workflow"
	FieldTransitions = "transitions"

	FieldID          = "id"
	FieldName        = "name"
	FieldAgent       = "agent"
	FieldAgents      = "agents"
	FieldPrimary     = "primary"
	FieldDependsOn   = "depends_on"
	FieldCheckpoint  = "checkpoint"
	FieldHumanReview = "human_review"
	FieldType        = "type"
	FieldElicit      = "elicit"

	FieldFrom        = "from"
	FieldTo          = "to"
	FieldCondition   = "condition"
	FieldDescription = "description"
)

// TypeElicit is the `type` value that marks an elicitation node.
const TypeElicit = "elicit"

// UnknownAgent is the agent recorded for entries that name none.
const UnknownAgent = "unknown"
