package expr

// The erased forms below are what crosses the plan builder contract.
// Type parameters stop at the operator surface; the accumulated plan
// stores closures over `any` plus their descriptors.

// Condition is the untyped form of a Predicate.
type Condition struct {
	// Eval tests one element. The element must have the predicate's
	// original concrete type; anything else panics.
	Eval func(v any) bool

	// Descr is the structural descriptor (never nil for values produced
	// by this package).
	Descr Node
}

// Mapping is the untyped form of a Selector.
type Mapping struct {
	Apply func(v any) any
	Descr Node
}

// FlatMapping is the untyped form of a SeqSelector.
type FlatMapping struct {
	Apply func(v any) []any
	Descr Node
}

// SourceExpr is the untyped form of a Source.
type SourceExpr struct {
	Produce func() any
	Descr   Node
}
