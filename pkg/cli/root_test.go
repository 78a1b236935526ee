package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()
	require.NotNil(t, root)
	require.NotNil(t, root.cmd)

	assert.Equal(t, "omm", root.cmd.Use)
	assert.NotNil(t, root.opts)
	assert.Equal(t, OutputTable, root.opts.Format)
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	root := NewRootCommand()
	pflags := root.cmd.PersistentFlags()

	for _, name := range []string{"output", "quiet", "config"} {
		assert.NotNil(t, pflags.Lookup(name), "missing persistent flag %s", name)
	}

	assert.Equal(t, "table", pflags.Lookup("output").DefValue)
}

func TestRootCommand_SubCommands(t *testing.T) {
	root := NewRootCommand()

	names := make(map[string]bool)
	for _, sub := range root.cmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"serve", "model", "generate", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}
