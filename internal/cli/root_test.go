package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageError(t *testing.T) {
	tests := []struct {
		msg      string
		wantName string
		wantOK   bool
	}{
		{`unknown command "stats" for "nstake"`, "stats", true},
		{`unknown command "rm-node" for "nstake"`, "rm-node", true},
		{`unknown command stats`, "", true},
		{`unknown command "stats`, "", true},
		{`unknown flag: --interval`, "", true},
		{`unknown shorthand flag: 'x' in -x`, "", true},
		{`staker "hot-1" not found`, "", false},
		{`open store: timeout`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			name, ok := usageError(errors.New(tt.msg))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestRootCommand_Flags(t *testing.T) {
	for _, flag := range []string{"config", "json", "ephemeral", "no-color"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
	assert.True(t, rootCmd.SilenceErrors)
	assert.True(t, rootCmd.SilenceUsage)
}
