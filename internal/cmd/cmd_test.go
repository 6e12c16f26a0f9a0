package cmd

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalExitCode(t *testing.T) {
	testCases := []struct {
		name     string
		engine   int
		findings int
		want     int
	}{
		{name: "clean", engine: 0, findings: 1, want: 0},
		{name: "findings", engine: 2, findings: 1, want: 1},
		{name: "custom findings code", engine: 2, findings: 42, want: 42},
		{name: "engine error", engine: 1, findings: 1, want: 1},
		{name: "killed", engine: 137, findings: 1, want: 137},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := LocalExitCode(tc.engine, tc.findings); got != tc.want {
				t.Fatalf("LocalExitCode(%d, %d) = %d, want %d", tc.engine, tc.findings, got, tc.want)
			}
		})
	}
}

func TestHasFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("source", ".", "")
	assert.False(t, HasFlags(flags))

	require.NoError(t, flags.Parse([]string{"--source", "repo"}))
	assert.True(t, HasFlags(flags))
}

func TestContainsShellMetacharacters(t *testing.T) {
	assert.False(t, ContainsShellMetacharacters("--no-merges --first-parent a^..b"))
	assert.True(t, ContainsShellMetacharacters("-1; rm -rf /"))
	assert.True(t, ContainsShellMetacharacters("$(id)"))
}
