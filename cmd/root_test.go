package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"calc", "sweep", "export", "serve", "scenario", "migrate"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "waterfall-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestCalcCommand_Flags(t *testing.T) {
	for _, name := range []string{"gross", "budget", "soft-money", "senior-debt", "senior-rate", "gap-debt",
		"gap-rate", "equity", "pref-return", "commission", "marketing-cap", "cam-rate",
		"sag", "wga", "dga", "file", "strict", "json"} {
		assert.NotNil(t, calcCmd.Flags().Lookup(name), "calc should have --%s", name)
	}
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestExportCommand_Flags(t *testing.T) {
	flag := exportCmd.Flags().Lookup("out")
	require.NotNil(t, flag)
	assert.Equal(t, "waterfall.xlsx", flag.DefValue)
	assert.NotNil(t, exportCmd.Flags().Lookup("step"))
	assert.NotNil(t, exportCmd.Flags().Lookup("no-sweep"))
}

func TestScenarioCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range scenarioCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"save", "list", "show", "delete"} {
		assert.True(t, names[name], "expected scenario subcommand %q not found", name)
	}
}
