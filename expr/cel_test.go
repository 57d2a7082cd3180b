package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type order struct {
	ID     string `json:"id"`
	Amount int    `json:"amount"`
	Open   bool   `json:"open"`
}

func TestCEL_Eval(t *testing.T) {
	large, err := CEL[order](`fact.amount > 100`)
	require.NoError(t, err)

	assert.True(t, large.Eval(order{ID: "o1", Amount: 250}))
	assert.False(t, large.Eval(order{ID: "o2", Amount: 50}))
}

func TestCEL_MapFact(t *testing.T) {
	active, err := CEL[map[string]any](`fact.status == "active"`)
	require.NoError(t, err)

	assert.True(t, active.Eval(map[string]any{"status": "active"}))
	assert.False(t, active.Eval(map[string]any{"status": "closed"}))
}

func TestCEL_Descriptor(t *testing.T) {
	pred, err := CEL[order](`fact.open && fact.amount > 0`)
	require.NoError(t, err)

	node, ok := pred.Descriptor().(CELNode)
	require.True(t, ok)
	assert.Equal(t, `fact.open && fact.amount > 0`, node.Source)
}

func TestCEL_CompileError(t *testing.T) {
	_, err := CEL[order](`fact.amount >`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile")
}

func TestCEL_NonBooleanRejected(t *testing.T) {
	_, err := CEL[order](`fact.amount + 1`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bool")
}

func TestCEL_MissingFieldEvaluatesFalse(t *testing.T) {
	// A fact the expression cannot judge does not match.
	pred, err := CEL[map[string]any](`fact.age > 18`)
	require.NoError(t, err)

	assert.False(t, pred.Eval(map[string]any{"name": "ada"}))
}

func TestCEL_CachesPrograms(t *testing.T) {
	const src = `fact.amount >= 10`
	_, err := CEL[order](src)
	require.NoError(t, err)

	_, cached := celCache.Load(src)
	assert.True(t, cached)
}
