// Package session defines the boundary contracts between rule evaluation
// code and the hosting engine, plus the ExecutionContext bundle that
// threads them together.
//
// The five collaborators - Session, WorkingMemory, Agenda,
// EventDispatcher, IDGenerator - are implemented by the hosting engine.
// The interfaces here are deliberately narrow: this package stores the
// references and hands them back, it never drives them and never
// inspects their internals. Mutual exclusion over the underlying state
// is each collaborator's own responsibility.
//
// ExecutionContext exists so call sites that need several collaborators
// at once do not thread five parameters individually. One instance is
// constructed per evaluation scope, never mutated afterward, and never
// reused across scopes that might run concurrently.
//
// The package also ships the two IDGenerator implementations the engine
// and its tests need: UUIDv7Generator for production and FixedIDs for
// deterministic tests.
package session
