//go:build !integration

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/waterfall-cli/internal/report"
)

// execute runs the root command in an empty temp dir with a SQLite store.
func execute(t *testing.T, dir string, args ...string) string {
	t.Helper()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck

	t.Setenv("WATERFALL_STORE_DATABASE_URL", filepath.Join(dir, "scenarios.db"))
	t.Setenv("WATERFALL_LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestCalcCommand_JSON(t *testing.T) {
	out := execute(t, t.TempDir(), "calc",
		"--gross", "2400000", "--budget", "2000000", "--senior-debt", "600000",
		"--equity", "1000000", "--marketing-cap", "75000", "--json")

	var v report.View
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.True(t, v.Result.ProfitPool.Equal(dec("81000")), v.Result.ProfitPool.String())
	assert.Len(t, v.Tiers, 7)
}

func TestScenarioCommands(t *testing.T) {
	dir := t.TempDir()

	id := strings.TrimSpace(execute(t, dir, "scenario", "save", "--name", "Shortfall",
		"--gross", "1000000", "--budget", "2000000", "--senior-debt", "600000",
		"--equity", "1000000", "--marketing-cap", "75000"))
	require.NotEmpty(t, id)

	out := execute(t, dir, "scenario", "list")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Shortfall")

	out = execute(t, dir, "scenario", "show", id)
	assert.Contains(t, out, "Shortfall ("+id+")")
	assert.Contains(t, out, "partial")
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deal.xlsx")

	execute(t, dir, "export", "--gross", "2400000", "--equity", "1000000",
		"--to", "3000000", "--step", "1000000", "-o", path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
