package dsl

import "github.com/tessera-rules/tessera/expr"

// PlanBuilder accumulates query-plan steps on behalf of the operator
// surface. The operators validate nothing themselves: each call encodes
// one step, and the builder is the sole authority on structural and
// ordering rules. Errors returned here surface unchanged through the
// chain's Err.
//
// A builder is mutated in place by every operator in a chain and is not
// safe for concurrent use. planir.Builder is the in-tree implementation;
// tests may substitute recorders.
type PlanBuilder interface {
	// RegisterPattern registers a fact pattern of the named type.
	// alias may be empty (anonymous pattern). conds combine with AND.
	RegisterPattern(alias, factType string, conds []expr.Condition) error

	// BeginSubquery registers a sub-query and returns the nested builder
	// scope its definition is composed against. alias may be empty.
	BeginSubquery(alias string) (PlanBuilder, error)

	// RegisterSource registers a root source stage that materializes the
	// supplied expression instead of matching working memory.
	RegisterSource(src expr.SourceExpr) error

	// AppendFilter appends filter predicates, ANDed, to the current stage.
	AppendFilter(conds []expr.Condition) error

	// AppendProjection appends a one-to-one projection stage.
	AppendProjection(sel expr.Mapping) error

	// AppendFlatten appends a flattening projection stage.
	AppendFlatten(sel expr.FlatMapping) error

	// AppendGroup appends a grouping stage with key and element selectors.
	AppendGroup(key, elem expr.Mapping) error

	// AppendCollect appends an aggregation of the current stage's elements
	// into a single collection value.
	AppendCollect() error

	// Version reports how many steps have been applied to this builder
	// scope. Handles record it to detect stale reuse.
	Version() int
}
