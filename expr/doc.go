// Package expr captures predicates and selectors for deferred query plans.
//
// A query operator never evaluates anything at authoring time; it records
// intent into a plan that a compiling engine consumes later. That engine
// needs two views of every predicate and selector:
//
//  1. An evaluable closure, so the compiled network can test facts.
//  2. A structural descriptor, so the compiler can inspect what the
//     closure does (field paths, comparison shapes) and index accordingly.
//
// Go has no expression trees, so both views are captured explicitly. Every
// typed capture value (Predicate, Selector, SeqSelector, Source) pairs a
// closure with a descriptor Node.
//
// DESCRIPTOR AST:
//
// Node is a sealed interface using the marker method pattern. Only types
// in this package implement it, which lets backend compilers type-switch
// exhaustively:
//
//	switch n := node.(type) {
//	case expr.Field:
//	    // indexable field access
//	case expr.Cmp:
//	    // binary comparison
//	case expr.Call:
//	    // opaque host function - not introspectable
//	...
//	}
//
// Node variants:
//   - Field: field-access path into a fact (e.g. fact.Address.City)
//   - Cmp: binary comparison of two nodes
//   - Const: literal value
//   - Call: opaque reference to a host-language function
//   - Ident: the identity selector
//   - CELNode: a textual CEL expression (see CEL)
//
// INTROSPECTION CONTRACT:
//
// Structured constructors (FieldEq, FieldCmp, FieldOf, Identity, Value,
// CEL) produce descriptors the compiling engine can inspect. Opaque
// constructors (Func, Map, FlatMap, Compute) produce Call descriptors:
// the closure still evaluates correctly, but the compiler must treat the
// step as a black box. planir.Validate reports opaque descriptors so
// authors can see which parts of a plan resist analysis.
//
// ERASURE:
//
// The plan builder contract is untyped. Each typed capture value erases
// itself to a Condition, Mapping, FlatMapping, or SourceExpr whose closure
// takes `any`. The erased closure asserts the concrete type; feeding it a
// fact of the wrong type is a programming error and panics.
package expr
