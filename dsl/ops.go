package dsl

import "github.com/tessera-rules/tessera/expr"

// Group is the element type produced by grouping stages: one group per
// distinct key, holding the projected elements that share it.
type Group[K comparable, V any] struct {
	Key   K
	Items []V
}

// Where appends filter predicates, ANDed, to the current stage. The
// chain must already have an established source or pattern; enforcing
// that ordering is the builder's job.
func (q *QueryExpr[T]) Where(preds ...expr.Predicate[T]) *QueryExpr[T] {
	if advance(q.b, q.chain, q.version, "Where") {
		if err := q.b.AppendFilter(eraseConds(preds)); err != nil {
			q.chain.fail(err)
		}
	}
	return &QueryExpr[T]{b: q.b, chain: q.chain, version: q.b.Version()}
}

// Collect appends an aggregation of all elements produced by the current
// stage into a single collection value per enclosing binding context.
func (q *QueryExpr[T]) Collect() *QueryExpr[[]T] {
	if advance(q.b, q.chain, q.version, "Collect") {
		if err := q.b.AppendCollect(); err != nil {
			q.chain.fail(err)
		}
	}
	return &QueryExpr[[]T]{b: q.b, chain: q.chain, version: q.b.Version()}
}

// Select appends a projection stage: one output element per input
// element, in input order.
func Select[T, R any](q *QueryExpr[T], sel expr.Selector[T, R]) *QueryExpr[R] {
	if advance(q.b, q.chain, q.version, "Select") {
		if err := q.b.AppendProjection(sel.Erase()); err != nil {
			q.chain.fail(err)
		}
	}
	return &QueryExpr[R]{b: q.b, chain: q.chain, version: q.b.Version()}
}

// SelectMany appends a flattening projection: each input element yields
// zero or more output elements, concatenated in input order.
func SelectMany[T, R any](q *QueryExpr[T], sel expr.SeqSelector[T, R]) *QueryExpr[R] {
	if advance(q.b, q.chain, q.version, "SelectMany") {
		if err := q.b.AppendFlatten(sel.Erase()); err != nil {
			q.chain.fail(err)
		}
	}
	return &QueryExpr[R]{b: q.b, chain: q.chain, version: q.b.Version()}
}

// GroupBy appends a grouping stage keyed by key, with the identity
// element selector. The recorded plan fragment is structurally identical
// to GroupByElem(q, key, expr.Identity[T]()).
func GroupBy[T any, K comparable](q *QueryExpr[T], key expr.Selector[T, K]) *QueryExpr[Group[K, T]] {
	if advance(q.b, q.chain, q.version, "GroupBy") {
		if err := q.b.AppendGroup(key.Erase(), expr.Identity[T]().Erase()); err != nil {
			q.chain.fail(err)
		}
	}
	return &QueryExpr[Group[K, T]]{b: q.b, chain: q.chain, version: q.b.Version()}
}

// GroupByElem appends a grouping stage keyed by key, projecting each
// grouped element through elem.
func GroupByElem[T any, K comparable, E any](q *QueryExpr[T], key expr.Selector[T, K], elem expr.Selector[T, E]) *QueryExpr[Group[K, E]] {
	if advance(q.b, q.chain, q.version, "GroupByElem") {
		if err := q.b.AppendGroup(key.Erase(), elem.Erase()); err != nil {
			q.chain.fail(err)
		}
	}
	return &QueryExpr[Group[K, E]]{b: q.b, chain: q.chain, version: q.b.Version()}
}
