package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "tessera", cmd.Use)
	assert.Contains(t, cmd.Long, "CEL")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, cmdName := range []string{"check", "ast"} {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.True(t, isValidFormat("yaml"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "check", "fact.x > 1"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
