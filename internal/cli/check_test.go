package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// execute runs the root command with args and returns captured stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestCheck_ValidExpression(t *testing.T) {
	out, err := execute(t, "check", `fact.amount > 100`)
	require.NoError(t, err)
	assert.Contains(t, out, "ok: fact.amount > 100")
}

func TestCheck_InvalidExpression(t *testing.T) {
	out, err := execute(t, "check", `fact.amount >`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1")
	assert.Contains(t, out, "error: fact.amount >")
}

func TestCheck_NonBooleanRejected(t *testing.T) {
	_, err := execute(t, "check", `fact.amount + 1`)
	require.Error(t, err)
}

func TestCheck_MixedExpressions(t *testing.T) {
	out, err := execute(t, "check", `fact.open`, `fact.broken >`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, out, "ok: fact.open")
}

func TestCheck_JSONFormat(t *testing.T) {
	out, err := execute(t, "--format", "json", "check", `fact.open`)
	require.NoError(t, err)

	var results []checkResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.True(t, results[0].Valid)
	assert.Equal(t, "fact.open", results[0].Expr)
}

func TestCheck_YAMLFormat(t *testing.T) {
	out, err := execute(t, "--format", "yaml", "check", `fact.open`)
	require.NoError(t, err)

	var results []checkResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.True(t, results[0].Valid)
}

func TestCheck_RequiresArguments(t *testing.T) {
	_, err := execute(t, "check")
	require.Error(t, err)
}
