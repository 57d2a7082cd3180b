// Package planir holds the accumulated, not-yet-evaluated representation
// of a query: the stage IR, the builder that the dsl operator surface
// mutates, and the tooling around plans (validation, canonical encoding,
// fingerprints, dumps).
//
// ARCHITECTURE:
//
// Plan IR Layer:
// planir sits between the authoring surface and the compiling engine:
//
//	[dsl operators] → [Plan IR] → [matching network compiler]
//
// The dsl surface threads element types and forwards steps; planir owns
// every structural and ordering rule. The compiling engine consumes the
// finished Plan and is free to reorder, index, and share stages - none
// of that is visible here.
//
// SEALED STAGES:
//
// Stage is a sealed interface using the marker method pattern. Only types
// in this package implement it, so a backend compiler can type-switch
// exhaustively:
//
//	switch s := stage.(type) {
//	case planir.PatternStage:
//	    // match facts of s.FactType against s.Conditions
//	case planir.SubqueryStage:
//	    // compile s.Plan into a nested network
//	...
//	}
//
// STRUCTURAL RULES:
//
// The builder is the sole authority on chain structure. It rejects:
//   - appending a filter, projection, flattening, group, or collect
//     before any pattern, sub-query, or source stage exists
//   - a collect stage directly after another collect
//   - reusing an alias within one query definition (alias names are
//     NFC-normalized before comparison, so visually identical names
//     cannot bind twice)
//
// Violations surface as *StructuralError with a machine-readable code.
// Errors are sticky: after the first failure every further step returns
// the same error and the plan cannot be finalized.
//
// DETERMINISM:
//
// MarshalCanonical and Fingerprint give plans a content-addressed
// identity: equal fragments encode to equal bytes regardless of how the
// chain was written. GroupBy with and without an explicit identity
// element selector, for example, fingerprint identically.
package planir
