package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/energytrends/internal/quality"
	"github.com/wonny/energytrends/internal/snapshot"
	"github.com/wonny/energytrends/internal/testutil"
)

// execute runs the root command with args and fresh flag state
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	configFile, env, verbose = "", "", false
	runFile, servePort = "", ""
	runCmd.Flags().Set("file", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func setupEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("OUTPUT_DIR", dir)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PIPELINE_CONFIG", "")
	return dir
}

func TestInspect(t *testing.T) {
	setupEnv(t)
	path := testutil.WriteWorkbook(t, t.TempDir(), "ET_3.1.xlsx", "Quarter", testutil.SampleRows())

	out, err := execute(t, "inspect", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Series (11)")
	assert.Contains(t, out, "Crude oil production")
	assert.NotContains(t, out, "[note 1]")
	assert.Contains(t, out, "2024-01-01")
	assert.Contains(t, out, "2024-04-01")
	assert.Contains(t, out, "Skipped headers (1)")
	assert.Contains(t, out, "Notes")
}

func TestInspectMissingFile(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "inspect", filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.Error(t, err)
}

func TestRunFileThenCheck(t *testing.T) {
	dir := setupEnv(t)
	path := testutil.WriteWorkbook(t, t.TempDir(), "ET_3.1.xlsx", "Quarter", testutil.SampleRows())

	out, err := execute(t, "run", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Pipeline completed")

	snap, err := snapshot.Latest(dir)
	require.NoError(t, err)
	assert.Contains(t, out, snap)

	out, err = execute(t, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "QUALITY CHECK: PASSED")

	report, err := quality.LatestReport(dir)
	require.NoError(t, err)
	assert.Equal(t, 22, report.RowCount)
}

func TestRunFileQualityFailure(t *testing.T) {
	dir := setupEnv(t)
	t.Setenv("MIN_ROWS_THRESHOLD", "100")
	path := testutil.WriteWorkbook(t, t.TempDir(), "ET_3.1.xlsx", "Quarter", testutil.SampleRows())

	out, err := execute(t, "run", "--file", path)
	require.Error(t, err)
	assert.Contains(t, out, "row count 22 below threshold 100")

	_, err = snapshot.Latest(dir)
	assert.ErrorIs(t, err, snapshot.ErrNoSnapshot)
}

func TestCheckWithoutSnapshot(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "check")
	require.ErrorIs(t, err, snapshot.ErrNoSnapshot)
	assert.Contains(t, out, "no output CSV found to validate")
}

func TestProfileFlag(t *testing.T) {
	setupEnv(t)
	profile := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, writeFile(profile, "pipeline:\n  sheet_name: Annual\n"))
	path := testutil.WriteWorkbook(t, t.TempDir(), "ET_3.1.xlsx", "Quarter", testutil.SampleRows())

	// the profile points at a sheet the workbook does not have
	_, err := execute(t, "--config", profile, "inspect", path)
	assert.Error(t, err)
}

func TestInvalidEnvFlag(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "--env", "qa", "check")
	assert.Error(t, err)
}

func TestSchedulerList(t *testing.T) {
	setupEnv(t)
	t.Setenv("PIPELINE_SCHEDULE", "0 15 5 * * *")

	out, err := execute(t, "scheduler", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "energy_pipeline")
	assert.Contains(t, out, "0 15 5 * * *")
	assert.Contains(t, out, "quality_check")
}

func TestSchedulerRunUnknownJob(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "scheduler", "run", "nope")
	assert.Error(t, err)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestTestDBDisabled(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "test-db")
	require.NoError(t, err)
	assert.Contains(t, out, "Postgres sink is disabled")
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "(not set)", maskPassword(""))
	assert.Equal(t, "postgres://etl:xxxxx@db:5432/energy", maskPassword("postgres://etl:s3cret@db:5432/energy"))
	assert.Equal(t, "postgres://db:5432/energy", maskPassword("postgres://db:5432/energy"))
}
