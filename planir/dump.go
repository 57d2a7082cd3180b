package planir

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/tessera-rules/tessera/expr"
)

// describePlan is the YAML layout of a plan dump. Descriptors are
// rendered through their String form: dumps are for humans, the
// canonical encoding is for machines.
type describePlan struct {
	Stages []describeStage `yaml:"stages"`
}

type describeStage struct {
	Kind       string        `yaml:"kind"`
	Alias      string        `yaml:"alias,omitempty"`
	FactType   string        `yaml:"fact_type,omitempty"`
	Conditions []string      `yaml:"conditions,omitempty"`
	Selector   string        `yaml:"selector,omitempty"`
	Key        string        `yaml:"key,omitempty"`
	Element    string        `yaml:"element,omitempty"`
	Source     string        `yaml:"source,omitempty"`
	Subquery   *describePlan `yaml:"subquery,omitempty"`
}

// Describe renders a plan as human-readable YAML for diagnostics.
func Describe(plan *Plan) (string, error) {
	if plan == nil {
		return "", fmt.Errorf("describe: nil plan")
	}
	out, err := yaml.Marshal(describe(plan))
	if err != nil {
		return "", fmt.Errorf("describe: %w", err)
	}
	return string(out), nil
}

func describe(plan *Plan) *describePlan {
	doc := &describePlan{Stages: make([]describeStage, 0, len(plan.Stages))}
	for _, s := range plan.Stages {
		switch stage := s.(type) {
		case PatternStage:
			doc.Stages = append(doc.Stages, describeStage{
				Kind:       "pattern",
				Alias:      stage.Alias,
				FactType:   stage.FactType,
				Conditions: renderConds(stage.Conditions),
			})
		case SubqueryStage:
			doc.Stages = append(doc.Stages, describeStage{
				Kind:     "subquery",
				Alias:    stage.Alias,
				Subquery: describe(stage.Plan),
			})
		case SourceStage:
			doc.Stages = append(doc.Stages, describeStage{
				Kind:   "source",
				Source: descr(stage.Source.Descr),
			})
		case FilterStage:
			doc.Stages = append(doc.Stages, describeStage{
				Kind:       "filter",
				Conditions: renderConds(stage.Conditions),
			})
		case ProjectStage:
			doc.Stages = append(doc.Stages, describeStage{
				Kind:     "project",
				Selector: descr(stage.Selector.Descr),
			})
		case FlattenStage:
			doc.Stages = append(doc.Stages, describeStage{
				Kind:     "flatten",
				Selector: descr(stage.Selector.Descr),
			})
		case GroupStage:
			doc.Stages = append(doc.Stages, describeStage{
				Kind:    "group",
				Key:     descr(stage.Key.Descr),
				Element: descr(stage.Element.Descr),
			})
		case CollectStage:
			doc.Stages = append(doc.Stages, describeStage{Kind: "collect"})
		}
	}
	return doc
}

func renderConds(conds []expr.Condition) []string {
	out := make([]string, len(conds))
	for i, c := range conds {
		out[i] = descr(c.Descr)
	}
	return out
}
