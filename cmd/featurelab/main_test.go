package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-feature-lab/internal/reporting"
	"nba-feature-lab/internal/storage/csvfile"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestBuildAndTeams(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	cfgPath := filepath.Join(dir, "featurelab.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
source:
  kind: fixtures
sink:
  kind: csv
output_dir: `+outDir+`
log:
  level: error
`), 0o644))

	out := execute(t, "build", "--config", cfgPath)
	assert.Contains(t, out, "Build success")
	assert.Contains(t, out, "Output rows: 44")
	assert.FileExists(t, filepath.Join(outDir, reporting.RunReportFile))
	assert.FileExists(t, filepath.Join(outDir, reporting.FeaturesFile))

	lookup := filepath.Join(dir, "lookup", csvfile.LookupFileName)
	out = execute(t, "teams", "--config", cfgPath, "--out", lookup)
	assert.Contains(t, out, "Wrote 30 teams")

	teams, err := csvfile.ReadTeamLookup(lookup)
	require.NoError(t, err)
	assert.Len(t, teams, 30)
}

func TestBuildThenVerifySQLite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "featurelab.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
source:
  kind: fixtures
sink:
  kind: sqlite
  path: `+filepath.Join(dir, "features.db")+`
output_dir: `+filepath.Join(dir, "out")+`
log:
  level: error
`), 0o644))

	out := execute(t, "build", "--config", cfgPath)
	assert.Contains(t, out, "Output rows: 44")

	out = execute(t, "verify", "--config", cfgPath)
	assert.Contains(t, out, "Verified 44 rebuilt rows against 44 stored rows")
	assert.Contains(t, out, "Divergent: 0")
	assert.Contains(t, out, "Pair violations: 0")
}
