package planir

import (
	"fmt"

	"github.com/tessera-rules/tessera/expr"
)

// ValidationResult contains introspectability analysis of a plan.
//
// A plan is introspectable when every predicate and selector carries a
// structural descriptor the compiling engine can inspect (field paths,
// comparisons, CEL source). Opaque host-function closures still evaluate
// correctly, but the compiler must treat them as black boxes - it cannot
// index them or reason about what they test.
type ValidationResult struct {
	// IsIntrospectable indicates every descriptor in the plan is
	// structurally analyzable.
	IsIntrospectable bool

	// Warnings lists the opaque or missing descriptors found.
	// Empty when IsIntrospectable is true.
	Warnings []string
}

// Validate analyzes how much of a plan the compiling engine can inspect.
//
// Opaque steps are allowed and execute correctly; warnings exist so rule
// authors can see which parts of a definition resist analysis and, where
// it matters, rewrite them with structured constructors (FieldEq,
// FieldCmp, FieldOf, CEL).
//
// Validate is a pure function with no side effects.
func Validate(plan *Plan) ValidationResult {
	v := &validator{warnings: []string{}}
	v.validatePlan(plan, "")

	return ValidationResult{
		IsIntrospectable: len(v.warnings) == 0,
		Warnings:         v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

// addWarning appends a warning message.
func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

// validatePlan walks a plan's stages. prefix locates nested plans in
// warning messages ("" for the root, "subquery q1 " for nested scopes).
func (v *validator) validatePlan(plan *Plan, prefix string) {
	if plan == nil {
		v.addWarning("%snil plan", prefix)
		return
	}
	if len(plan.Stages) == 0 {
		v.addWarning("%sempty plan - no stages registered", prefix)
		return
	}

	for i, s := range plan.Stages {
		at := fmt.Sprintf("%sstage %d", prefix, i)
		switch stage := s.(type) {
		case PatternStage:
			for j, c := range stage.Conditions {
				v.validateNode(c.Descr, fmt.Sprintf("%s condition %d", at, j))
			}
		case SubqueryStage:
			inner := prefix + "subquery "
			if stage.Alias != "" {
				inner = fmt.Sprintf("%ssubquery %s ", prefix, stage.Alias)
			}
			v.validatePlan(stage.Plan, inner)
		case SourceStage:
			v.validateNode(stage.Source.Descr, at+" source")
		case FilterStage:
			for j, c := range stage.Conditions {
				v.validateNode(c.Descr, fmt.Sprintf("%s condition %d", at, j))
			}
		case ProjectStage:
			v.validateNode(stage.Selector.Descr, at+" selector")
		case FlattenStage:
			v.validateNode(stage.Selector.Descr, at+" selector")
		case GroupStage:
			v.validateNode(stage.Key.Descr, at+" key")
			v.validateNode(stage.Element.Descr, at+" element")
		case CollectStage:
			// Nothing to inspect.
		default:
			v.addWarning("%s: unknown stage type %T - introspectability cannot be verified", at, s)
		}
	}
}

// validateNode checks one descriptor tree.
func (v *validator) validateNode(n expr.Node, at string) {
	switch node := n.(type) {
	case nil:
		v.addWarning("%s: missing descriptor", at)
	case expr.Call:
		v.addWarning("%s: opaque function %s - compiling engine cannot inspect it", at, node)
	case expr.Cmp:
		v.validateNode(node.Left, at)
		v.validateNode(node.Right, at)
	case expr.Field, expr.Const, expr.Ident, expr.CELNode:
		// Fully structural.
	default:
		v.addWarning("%s: unknown descriptor type %T", at, n)
	}
}
