package planir

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/tessera-rules/tessera/expr"
)

// goldenCanonical compares a plan's canonical encoding against a fixture.
// Run with -update to regenerate fixtures after intentional changes.
func goldenCanonical(t *testing.T, name string, plan *Plan) {
	t.Helper()

	data, err := MarshalCanonical(plan)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}

func TestGolden_PersonPlan(t *testing.T) {
	goldenCanonical(t, "person_plan", buildPersonPlan(t))
}

func TestGolden_SubqueryPlan(t *testing.T) {
	type invoice struct {
		Open   bool
		Amount int
	}
	open := expr.FieldEq("Open", func(v invoice) bool { return v.Open }, true).Erase()
	amount := expr.FieldOf("Amount", func(v invoice) int { return v.Amount }).Erase()

	b := NewBuilder()
	require.NoError(t, b.RegisterPattern("c", "test.Customer", nil))

	nested, err := b.BeginSubquery("total")
	require.NoError(t, err)
	require.NoError(t, nested.RegisterPattern("", "test.Order", []expr.Condition{open}))
	require.NoError(t, nested.AppendProjection(amount))
	require.NoError(t, nested.AppendCollect())

	plan, err := b.Plan()
	require.NoError(t, err)

	goldenCanonical(t, "subquery_plan", plan)
}
