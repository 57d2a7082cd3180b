package dsl

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrStaleHandle reports reuse of a handle after a later operator already
// advanced the shared plan builder. The stale operation is not applied.
var ErrStaleHandle = errors.New("stale query handle: a later operator already advanced the plan")

// chainState is the bookkeeping shared by every handle in one chain.
// It holds only the sticky error; plan state lives in the builder.
type chainState struct {
	err error
}

// fail records the first error of the chain. Later errors are dropped so
// Err always reports the original failure unchanged.
func (c *chainState) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Query is the untyped root handle of a query chain.
//
// A root handle has no element type yet: it accepts pattern and sub-query
// registrations (Match, MatchAs, SubQuery, SubQueryAs, From) that
// establish what the chain produces.
type Query struct {
	b       PlanBuilder
	chain   *chainState
	version int
}

// New creates the root handle for a chain over b.
func New(b PlanBuilder) *Query {
	if b == nil {
		panic("dsl: nil PlanBuilder")
	}
	return &Query{b: b, chain: &chainState{}, version: b.Version()}
}

// Builder exposes the shared plan builder reference.
func (q *Query) Builder() PlanBuilder { return q.b }

// Err returns the first error recorded by the chain, or nil.
func (q *Query) Err() error { return q.chain.err }

// QueryExpr is a typed query handle. The type parameter is the element
// type produced by the most recently applied operator; it exists only at
// compile time and the handle carries no runtime state beyond the shared
// builder reference and chain bookkeeping.
//
// Handles are immutable. Applying an operator returns a new handle and
// supersedes this one; only the builder's mutation is meaningful.
type QueryExpr[T any] struct {
	b       PlanBuilder
	chain   *chainState
	version int
}

// Builder exposes the shared plan builder reference.
func (q *QueryExpr[T]) Builder() PlanBuilder { return q.b }

// Err returns the first error recorded by the chain, or nil.
func (q *QueryExpr[T]) Err() error { return q.chain.err }

// advance gates one operator application. It reports false when the
// chain has already failed or the handle is stale; in the stale case the
// failure is recorded first so Err explains what happened.
func advance(b PlanBuilder, chain *chainState, version int, op string) bool {
	if chain.err != nil {
		return false
	}
	if version != b.Version() {
		chain.fail(fmt.Errorf("%s: %w", op, ErrStaleHandle))
		return false
	}
	return true
}

// Binding is a declared alias: a named variable bound to exactly one
// matched-fact pattern or sub-query result per query definition. Rule
// actions use the name to refer to the matched value later.
//
// The type parameter pins the declared fact type so a binding cannot be
// attached to a pattern of a different type.
type Binding[T any] struct {
	name string
}

// Declare creates a binding for facts of type T.
func Declare[T any](name string) *Binding[T] {
	return &Binding[T]{name: name}
}

// Name returns the declared alias name.
func (b *Binding[T]) Name() string { return b.name }

// factType resolves the registered type name for T.
func factType[T any]() string {
	return reflect.TypeFor[T]().String()
}
