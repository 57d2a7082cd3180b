package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAST_Text(t *testing.T) {
	out, err := execute(t, "ast", `fact.amount > 100`)
	require.NoError(t, err)
	assert.Equal(t, "cel(fact.amount > 100)\n", out)
}

func TestAST_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "ast", `fact.open`)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "cel", doc["kind"])
	assert.Equal(t, "fact.open", doc["source"])
}

func TestAST_YAML(t *testing.T) {
	out, err := execute(t, "--format", "yaml", "ast", `fact.open`)
	require.NoError(t, err)
	assert.Contains(t, out, "kind: cel")
	assert.Contains(t, out, "source: fact.open")
}

func TestAST_CompileErrorSurfaces(t *testing.T) {
	_, err := execute(t, "ast", `fact.amount >`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile")
}

func TestAST_ExactlyOneArgument(t *testing.T) {
	_, err := execute(t, "ast", "fact.a", "fact.b")
	require.Error(t, err)
}
