package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "argoboot", cmd.Use)
	assert.True(t, cmd.SilenceUsage, "usage noise on runtime errors is not helpful")
}

func TestRoot_Subcommands(t *testing.T) {
	cmd := Root()

	expected := []string{"up", "destroy", "doctor", "version", "completion"}
	for _, name := range expected {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "missing subcommand %q", name)
	}
}
