package planir

import (
	"log/slog"

	"golang.org/x/text/unicode/norm"

	"github.com/tessera-rules/tessera/dsl"
	"github.com/tessera-rules/tessera/expr"
)

// Builder accumulates plan stages for one query definition. It is the
// in-tree implementation of the dsl.PlanBuilder contract and the sole
// authority on structural and ordering rules.
//
// A builder is driven by a single goroutine during rule authoring and
// carries no locks. Errors are sticky: after the first structural
// failure every further step returns that same error, the version stops
// advancing, and Plan refuses to finalize.
type Builder struct {
	plan    *Plan
	aliases map[string]struct{}
	version int
	err     error
	parent  *Builder
	logger  *slog.Logger
}

var _ dsl.PlanBuilder = (*Builder)(nil)

// Option configures a Builder.
type Option func(*Builder)

// WithLogger makes the builder debug-log every registered stage.
// The logger is inherited by nested sub-query scopes.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates an empty builder for one query definition.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		plan:    &Plan{},
		aliases: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Version reports how many steps this builder scope has accepted.
func (b *Builder) Version() int { return b.version }

// Err returns the first structural error recorded in this scope or any
// nested scope, or nil.
func (b *Builder) Err() error { return b.err }

// Plan finalizes the accumulated plan. Returns the first recorded error
// unchanged if any step was rejected.
func (b *Builder) Plan() (*Plan, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.plan, nil
}

// RegisterPattern implements dsl.PlanBuilder.
func (b *Builder) RegisterPattern(alias, factType string, conds []expr.Condition) error {
	if b.err != nil {
		return b.err
	}
	if factType == "" {
		return b.fail(&StructuralError{
			Code:       ErrCodeMissingFactType,
			Op:         "RegisterPattern",
			Message:    "pattern requires a fact type",
			StageIndex: len(b.plan.Stages),
		})
	}
	if err := b.bindAlias(alias, "RegisterPattern"); err != nil {
		return err
	}
	b.append(PatternStage{Alias: alias, FactType: factType, Conditions: conds})
	b.log("registered pattern", "alias", alias, "fact_type", factType, "conditions", len(conds))
	return nil
}

// BeginSubquery implements dsl.PlanBuilder. The returned nested scope
// writes into the sub-query stage registered here; its structural errors
// propagate to this scope so the enclosing definition cannot finalize
// over a broken sub-query.
func (b *Builder) BeginSubquery(alias string) (dsl.PlanBuilder, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.bindAlias(alias, "BeginSubquery"); err != nil {
		return nil, err
	}
	nested := &Plan{}
	b.append(SubqueryStage{Alias: alias, Plan: nested})
	b.log("registered sub-query", "alias", alias)
	return &Builder{
		plan:    nested,
		aliases: make(map[string]struct{}),
		parent:  b,
		logger:  b.logger,
	}, nil
}

// RegisterSource implements dsl.PlanBuilder.
func (b *Builder) RegisterSource(src expr.SourceExpr) error {
	if b.err != nil {
		return b.err
	}
	b.append(SourceStage{Source: src})
	b.log("registered source", "descriptor", descr(src.Descr))
	return nil
}

// AppendFilter implements dsl.PlanBuilder.
func (b *Builder) AppendFilter(conds []expr.Condition) error {
	if err := b.requireSource("AppendFilter"); err != nil {
		return err
	}
	b.append(FilterStage{Conditions: conds})
	b.log("appended filter", "conditions", len(conds))
	return nil
}

// AppendProjection implements dsl.PlanBuilder.
func (b *Builder) AppendProjection(sel expr.Mapping) error {
	if err := b.requireSource("AppendProjection"); err != nil {
		return err
	}
	b.append(ProjectStage{Selector: sel})
	b.log("appended projection", "descriptor", descr(sel.Descr))
	return nil
}

// AppendFlatten implements dsl.PlanBuilder.
func (b *Builder) AppendFlatten(sel expr.FlatMapping) error {
	if err := b.requireSource("AppendFlatten"); err != nil {
		return err
	}
	b.append(FlattenStage{Selector: sel})
	b.log("appended flatten", "descriptor", descr(sel.Descr))
	return nil
}

// AppendGroup implements dsl.PlanBuilder.
func (b *Builder) AppendGroup(key, elem expr.Mapping) error {
	if err := b.requireSource("AppendGroup"); err != nil {
		return err
	}
	b.append(GroupStage{Key: key, Element: elem})
	b.log("appended group", "key", descr(key.Descr), "element", descr(elem.Descr))
	return nil
}

// AppendCollect implements dsl.PlanBuilder. A collect directly after
// another collect is rejected: the second aggregation has nothing new to
// aggregate and is always an authoring mistake.
func (b *Builder) AppendCollect() error {
	if err := b.requireSource("AppendCollect"); err != nil {
		return err
	}
	if n := len(b.plan.Stages); n > 0 {
		if _, ok := b.plan.Stages[n-1].(CollectStage); ok {
			return b.fail(&StructuralError{
				Code:       ErrCodeDoubleCollect,
				Op:         "AppendCollect",
				Message:    "collect directly after collect",
				StageIndex: n,
			})
		}
	}
	b.append(CollectStage{})
	b.log("appended collect")
	return nil
}

// append accepts one stage and advances the version.
func (b *Builder) append(s Stage) {
	b.plan.Stages = append(b.plan.Stages, s)
	b.version++
}

// requireSource gates stages that consume elements: at least one
// pattern, sub-query, or source stage must already exist in this scope.
func (b *Builder) requireSource(op string) error {
	if b.err != nil {
		return b.err
	}
	for _, s := range b.plan.Stages {
		switch s.(type) {
		case PatternStage, SubqueryStage, SourceStage:
			return nil
		}
	}
	return b.fail(&StructuralError{
		Code:       ErrCodeNoSource,
		Op:         op,
		Message:    "no pattern, sub-query, or source stage established",
		StageIndex: len(b.plan.Stages),
	})
}

// bindAlias records an alias, rejecting duplicates. One alias binds to
// exactly one pattern or sub-query per query definition. Names are
// NFC-normalized before comparison so visually identical names cannot
// bind twice.
func (b *Builder) bindAlias(alias, op string) error {
	if alias == "" {
		return nil
	}
	key := norm.NFC.String(alias)
	if _, dup := b.aliases[key]; dup {
		return b.fail(&StructuralError{
			Code:       ErrCodeDuplicateAlias,
			Op:         op,
			Message:    "alias already bound in this query definition",
			Alias:      alias,
			StageIndex: len(b.plan.Stages),
		})
	}
	b.aliases[key] = struct{}{}
	return nil
}

// fail records the first error in this scope and every enclosing scope,
// then returns it unchanged.
func (b *Builder) fail(err error) error {
	for s := b; s != nil; s = s.parent {
		if s.err == nil {
			s.err = err
		}
	}
	return err
}

// log emits a debug record when a logger is configured.
func (b *Builder) log(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Debug(msg, args...)
	}
}

// descr renders a descriptor for logging; nil descriptors log as "?".
func descr(n expr.Node) string {
	if n == nil {
		return "?"
	}
	return n.String()
}
