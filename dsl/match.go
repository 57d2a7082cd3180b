package dsl

import (
	"fmt"

	"github.com/tessera-rules/tessera/expr"
)

// Match registers an anonymous fact pattern of type T and returns a
// handle producing T. The conditions combine with AND: a fact matches
// only if every predicate evaluates true against it.
func Match[T any](q *Query, conds ...expr.Predicate[T]) *QueryExpr[T] {
	if advance(q.b, q.chain, q.version, "Match") {
		if err := q.b.RegisterPattern("", factType[T](), eraseConds(conds)); err != nil {
			q.chain.fail(err)
		}
	}
	return &QueryExpr[T]{b: q.b, chain: q.chain, version: q.b.Version()}
}

// MatchAs registers a fact pattern of type T bound to alias and returns
// the root handle for further registrations. The alias refers to the
// matched fact in later rule conditions and actions.
func MatchAs[T any](q *Query, alias *Binding[T], conds ...expr.Predicate[T]) *Query {
	if advance(q.b, q.chain, q.version, "MatchAs") {
		if alias == nil {
			q.chain.fail(fmt.Errorf("MatchAs: nil binding"))
		} else if err := q.b.RegisterPattern(alias.Name(), factType[T](), eraseConds(conds)); err != nil {
			q.chain.fail(err)
		}
	}
	return &Query{b: q.b, chain: q.chain, version: q.b.Version()}
}

// SubQuery registers an anonymous sub-query and returns a handle
// producing the sub-query's result type on the enclosing chain.
//
// The definition runs immediately against a fresh nested builder scope;
// nothing is evaluated. An error inside the definition fails the
// enclosing chain with that error unchanged.
func SubQuery[R any](q *Query, def func(*Query) *QueryExpr[R]) *QueryExpr[R] {
	registerSubquery(q, "", "SubQuery", def)
	return &QueryExpr[R]{b: q.b, chain: q.chain, version: q.b.Version()}
}

// SubQueryAs registers a sub-query bound to alias and returns the root
// handle for further registrations.
func SubQueryAs[R any](q *Query, alias *Binding[R], def func(*Query) *QueryExpr[R]) *Query {
	if alias == nil {
		if advance(q.b, q.chain, q.version, "SubQueryAs") {
			q.chain.fail(fmt.Errorf("SubQueryAs: nil binding"))
		}
	} else {
		registerSubquery(q, alias.Name(), "SubQueryAs", def)
	}
	return &Query{b: q.b, chain: q.chain, version: q.b.Version()}
}

// From registers a root source stage that evaluates the supplied
// expression instead of matching facts against working memory.
func From[T any](q *Query, src expr.Source[T]) *QueryExpr[T] {
	if advance(q.b, q.chain, q.version, "From") {
		if err := q.b.RegisterSource(src.Erase()); err != nil {
			q.chain.fail(err)
		}
	}
	return &QueryExpr[T]{b: q.b, chain: q.chain, version: q.b.Version()}
}

// registerSubquery opens a nested builder scope, runs the definition
// against it, and folds any nested failure into the enclosing chain.
func registerSubquery[R any](q *Query, alias, op string, def func(*Query) *QueryExpr[R]) {
	if !advance(q.b, q.chain, q.version, op) {
		return
	}
	if def == nil {
		q.chain.fail(fmt.Errorf("%s: nil definition", op))
		return
	}

	nested, err := q.b.BeginSubquery(alias)
	if err != nil {
		q.chain.fail(err)
		return
	}

	inner := &Query{b: nested, chain: &chainState{}, version: nested.Version()}
	out := def(inner)
	switch {
	case out == nil:
		q.chain.fail(fmt.Errorf("%s: definition returned no handle", op))
	case out.Err() != nil:
		q.chain.fail(out.Err())
	}
}

// eraseConds converts typed predicates to their plan forms.
func eraseConds[T any](conds []expr.Predicate[T]) []expr.Condition {
	out := make([]expr.Condition, len(conds))
	for i, c := range conds {
		out[i] = c.Erase()
	}
	return out
}
