// Package dsl is the authoring surface for composing pattern-matching
// queries inside the rule engine.
//
// A query is built by chaining typed operators - match, sub-query, source,
// filter, projection, flattening, grouping, collection - on a query handle.
// No operator evaluates facts. Each one encodes a single step into a shared
// plan builder and returns a new handle typed to the step's output; the
// accumulated plan is compiled and evaluated later by the hosting engine.
//
// ARCHITECTURE:
//
// Handle Types:
// Query is the untyped root handle; QueryExpr[T] carries the element type
// produced by the chain so far. Handles are thin: they hold the shared
// PlanBuilder reference and the chain bookkeeping, nothing else. Every
// handle in one chain shares the same builder instance.
//
// Operator Shape:
// Go methods cannot introduce type parameters, so operators that change
// the element type are package-level generic functions, and operators that
// preserve it are methods:
//
//	q := dsl.New(builder)
//	people := dsl.Match[Person](q, adult)      // element type appears
//	names := dsl.Select(people.Where(local),   // Where keeps the type
//	    expr.FieldOf("Name", func(p Person) string { return p.Name }))
//	all := names.Collect()                     // QueryExpr[[]string]
//
// Mistyped chains - projecting to one type and filtering with a predicate
// over another - fail to compile. That rejection at authoring time is the
// main value of the surface.
//
// Handle Consumption:
// Applying an operator advances the shared builder and supersedes every
// handle created earlier in the chain. A superseded (stale) handle is
// detected by comparing its recorded builder version against the current
// one: operating on it records ErrStaleHandle in the chain instead of
// silently appending to a plan that has moved on.
//
// Error Flow:
// Structural and ordering rules (filter before any source, duplicate
// alias, collect directly after collect) belong to the plan builder. The
// surface forwards builder errors unchanged and makes them sticky: once a
// chain has failed, later operators are no-ops and Err returns the first
// error. The surface never masks, wraps, or retries a builder error.
//
// CONCURRENCY:
//
// Chain construction is single-threaded per rule definition. Handles carry
// no locks and the builder is mutated without synchronization; sharing one
// chain across goroutines is not supported.
package dsl
