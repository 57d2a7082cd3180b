package planir

import "github.com/tessera-rules/tessera/expr"

// Plan is the ordered list of stages accumulated for one query
// definition. Order is meaningful: it is the order the author applied
// the operators, and backends must preserve its semantics even if they
// reorder execution.
type Plan struct {
	Stages []Stage
}

// Stage represents one step of a query plan.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and
// enables exhaustive type switches in backend compilers.
type Stage interface {
	stage() // Marker method - seals interface to this package
}

// PatternStage matches facts of one declared type against a condition
// set. Conditions combine with AND - a fact matches only if every
// condition evaluates true. Alias is empty for anonymous patterns.
type PatternStage struct {
	Alias      string
	FactType   string
	Conditions []expr.Condition
}

func (PatternStage) stage() {}

// SubqueryStage embeds an independently defined query whose result feeds
// the enclosing definition. Plan is the nested definition's plan; it is
// filled in while the sub-query's definition runs and is complete by the
// time the enclosing chain continues.
type SubqueryStage struct {
	Alias string
	Plan  *Plan
}

func (SubqueryStage) stage() {}

// SourceStage materializes a supplied expression instead of matching
// working memory.
type SourceStage struct {
	Source expr.SourceExpr
}

func (SourceStage) stage() {}

// FilterStage narrows the current stage's elements. Conditions combine
// with AND.
type FilterStage struct {
	Conditions []expr.Condition
}

func (FilterStage) stage() {}

// ProjectStage maps each element to exactly one output element.
type ProjectStage struct {
	Selector expr.Mapping
}

func (ProjectStage) stage() {}

// FlattenStage maps each element to zero or more output elements,
// concatenated in input order.
type FlattenStage struct {
	Selector expr.FlatMapping
}

func (FlattenStage) stage() {}

// GroupStage groups elements by key, projecting each grouped element
// through Element. GroupBy without an explicit element selector records
// the identity mapping here, so both spellings produce the same stage.
type GroupStage struct {
	Key     expr.Mapping
	Element expr.Mapping
}

func (GroupStage) stage() {}

// CollectStage aggregates all elements of the current stage into a
// single collection value per enclosing binding context.
type CollectStage struct{}

func (CollectStage) stage() {}
