package dsl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessera-rules/tessera/dsl"
	"github.com/tessera-rules/tessera/expr"
	"github.com/tessera-rules/tessera/planir"
)

type person struct {
	Name string
	Age  int
}

func adult() expr.Predicate[person] {
	return expr.FieldCmp("Age", func(p person) int { return p.Age }, expr.CmpGt, 18)
}

func named(name string) expr.Predicate[person] {
	return expr.FieldEq("Name", func(p person) string { return p.Name }, name)
}

func nameOf() expr.Selector[person, string] {
	return expr.FieldOf("Name", func(p person) string { return p.Name })
}

func TestNew_NilBuilderPanics(t *testing.T) {
	assert.Panics(t, func() { dsl.New(nil) })
}

func TestChain_SharesOneBuilder(t *testing.T) {
	b := planir.NewBuilder()

	h0 := dsl.New(b)
	h1 := dsl.Match[person](h0, adult())
	h2 := h1.Where(named("ada"))

	assert.Same(t, b, h0.Builder())
	assert.Same(t, b, h1.Builder())
	assert.Same(t, b, h2.Builder())
}

func TestChain_ErrNilOnHealthyChain(t *testing.T) {
	b := planir.NewBuilder()

	h := dsl.Match[person](dsl.New(b), adult()).Collect()
	require.NoError(t, h.Err())
	require.NoError(t, b.Err())
}

func TestChain_StaleHandle(t *testing.T) {
	b := planir.NewBuilder()

	h0 := dsl.New(b)
	h1 := dsl.Match[person](h0)

	// h0 was superseded by h1; reusing it must not touch the plan.
	stale := dsl.Match[person](h0)
	require.ErrorIs(t, stale.Err(), dsl.ErrStaleHandle)

	// The failure is chain-wide, and the plan kept only the first match.
	assert.ErrorIs(t, h1.Err(), dsl.ErrStaleHandle)
	_, err := b.Plan()
	require.NoError(t, err)
}

func TestChain_StaleTypedHandle(t *testing.T) {
	b := planir.NewBuilder()

	h1 := dsl.Match[person](dsl.New(b))
	_ = h1.Collect()

	stale := h1.Where(adult())
	assert.ErrorIs(t, stale.Err(), dsl.ErrStaleHandle)
}

func TestChain_BuilderErrorReturnedUnchanged(t *testing.T) {
	b := planir.NewBuilder()

	h := dsl.Match[person](dsl.New(b)).Collect().Collect()
	require.Error(t, h.Err())

	var se *planir.StructuralError
	require.ErrorAs(t, h.Err(), &se)
	assert.Equal(t, planir.ErrCodeDoubleCollect, se.Code)
	assert.Equal(t, h.Err(), b.Err())
}

func TestChain_FirstErrorSticks(t *testing.T) {
	b := planir.NewBuilder()

	h1 := dsl.Match[person](dsl.New(b))
	bad := h1.Collect().Collect() // DOUBLE_COLLECT
	first := bad.Err()
	require.Error(t, first)

	// Later operators are no-ops and report the original failure.
	later := bad.Where(adult())
	assert.Equal(t, first, later.Err())
}

func TestDeclare(t *testing.T) {
	b := dsl.Declare[person]("applicant")
	assert.Equal(t, "applicant", b.Name())
}
