package session

// Session drives fact changes for one rule session. Rule actions insert,
// update, and retract facts through it; the engine behind it owns
// truth-maintenance and re-evaluation.
type Session interface {
	Insert(fact any) error
	Update(fact any) error
	Retract(fact any) error
}

// WorkingMemory is the engine's store of known facts. Storage, indexing,
// and iteration order are the implementation's business.
type WorkingMemory interface {
	// FactCount reports the number of facts currently held.
	FactCount() int
}

// Agenda is the engine's pending-rule-activation queue.
type Agenda interface {
	// PendingCount reports the number of activations awaiting firing.
	PendingCount() int
}

// EventKind identifies an engine lifecycle event.
type EventKind string

const (
	EventFactInserted  EventKind = "fact_inserted"
	EventFactUpdated   EventKind = "fact_updated"
	EventFactRetracted EventKind = "fact_retracted"
	EventRuleActivated EventKind = "rule_activated"
	EventRuleFired     EventKind = "rule_fired"
)

// Event is one engine lifecycle notification.
type Event struct {
	Kind EventKind

	// Fact is the subject for fact events; nil for rule events.
	Fact any

	// Rule names the subject for rule events; empty for fact events.
	Rule string
}

// EventDispatcher publishes engine lifecycle events to observers.
type EventDispatcher interface {
	Dispatch(evt Event)
}

// IDGenerator allocates identifiers for facts and activations.
// Implemented by UUIDv7Generator (production) and FixedIDs (tests).
type IDGenerator interface {
	NextID() string
}

// ExecutionContext bundles the five collaborator references that rule
// evaluation code needs together.
//
// The bundle is immutable after construction and borrows all five
// references from the longer-lived session scope - it owns none of them
// and must not outlive that scope. It may be shared freely across nested
// evaluation frames on one goroutine; concurrently active evaluations
// must each receive their own instance.
type ExecutionContext struct {
	session Session
	memory  WorkingMemory
	agenda  Agenda
	events  EventDispatcher
	ids     IDGenerator
}

// NewExecutionContext builds the bundle from exactly five references.
//
// Panics if any reference is nil: a missing collaborator is a
// programming error in the hosting engine, not a runtime condition to
// recover from.
func NewExecutionContext(s Session, wm WorkingMemory, a Agenda, d EventDispatcher, ids IDGenerator) *ExecutionContext {
	switch {
	case s == nil:
		panic("session: NewExecutionContext: nil Session")
	case wm == nil:
		panic("session: NewExecutionContext: nil WorkingMemory")
	case a == nil:
		panic("session: NewExecutionContext: nil Agenda")
	case d == nil:
		panic("session: NewExecutionContext: nil EventDispatcher")
	case ids == nil:
		panic("session: NewExecutionContext: nil IDGenerator")
	}
	return &ExecutionContext{session: s, memory: wm, agenda: a, events: d, ids: ids}
}

// Session returns the session reference.
func (c *ExecutionContext) Session() Session { return c.session }

// WorkingMemory returns the working-memory reference.
func (c *ExecutionContext) WorkingMemory() WorkingMemory { return c.memory }

// Agenda returns the agenda reference.
func (c *ExecutionContext) Agenda() Agenda { return c.agenda }

// Events returns the event-dispatcher reference.
func (c *ExecutionContext) Events() EventDispatcher { return c.events }

// IDs returns the id-generator reference.
func (c *ExecutionContext) IDs() IDGenerator { return c.ids }
