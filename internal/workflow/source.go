package workflow

import "github.com/squadhub/squadgraph/pkg/schema"

// Source is the detected shape of a workflow document. It is one of
// PhaseList, StepList or Unrecognized.
type Source interface {
	Dialect() schema.Dialect
	isSource()
}

// PhaseList is a top-level `phases` list. Phases may nest their own steps.
type PhaseList struct {
	Phases []Entry
}

// StepList is a flat step list, either at the top level or under `workflow`.
type StepList struct {
	Steps  []Entry
	Nested bool
}

// Unrecognized is returned when no supported dialect matches.
type Unrecognized struct{}

func (PhaseList) Dialect() schema.Dialect { return schema.DialectPhases }

func (s StepList) Dialect() schema.Dialect {
	if s.Nested {
		return schema.DialectWorkflowSteps
	}
	return schema.DialectSteps
}

func (Unrecognized) Dialect() schema.Dialect { return schema.DialectUnrecognized }

func (PhaseList) isSource()    {}
func (StepList) isSource()     {}
func (Unrecognized) isSource() {}

// matchers are tried in order; the first match wins, so a document carrying
// both `phases` and `steps` is a PhaseList.
var matchers = []func(Document) (Source, bool){
	matchPhases,
	matchSteps,
	matchWorkflowSteps,
}

// Detect picks the dialect of doc. It never fails; callers decide what to do
// with Unrecognized.
func Detect(doc Document) Source {
	for _, match := range matchers {
		if src, ok := match(doc); ok {
			return src
		}
	}
	return Unrecognized{}
}

func matchPhases(doc Document) (Source, bool) {
	phases := entryList(doc[schema.FieldPhases])
	if len(phases) == 0 {
		return nil, false
	}
	return PhaseList{Phases: phases}, true
}

func matchSteps(doc Document) (Source, bool) {
	steps := entryList(doc[schema.FieldSteps])
	if len(steps) == 0 {
		return nil, false
	}
	return StepList{Steps: steps}, true
}

func matchWorkflowSteps(doc Document) (Source, bool) {
	wf, ok := doc[schema.FieldWorkflow].(map[string]any)
	if !ok {
		return nil, false
	}
	steps := entryList(wf[schema.FieldSteps])
	if len(steps) == 0 {
		return nil, false
	}
	return StepList{Steps: steps, Nested: true}, true
}
