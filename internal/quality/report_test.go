package quality

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)

	path, err := WriteReport(dir, "output/energy_supply_quarterly_20250314.csv", 264, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "quality_report_20250314_092653.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"QUALITY CHECK: PASSED\n"+
			"Source file: output/energy_supply_quarterly_20250314.csv\n"+
			"Row count: 264\n"+
			"Checked at: 2025-03-14 09:26:53.589793\n",
		string(data))
}

func TestWriteReportUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, loc)

	path, err := WriteReport(t.TempDir(), "x.csv", 1, now)
	require.NoError(t, err)
	assert.Equal(t, "quality_report_20241231_230000.txt", filepath.Base(path))
}

func TestWriteReportNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	first, err := WriteReport(dir, "a.csv", 10, now)
	require.NoError(t, err)

	_, err = WriteReport(dir, "b.csv", 99, now)
	assert.True(t, errors.Is(err, ErrReportExists), "got %v", err)

	report, err := ReadReport(first)
	require.NoError(t, err)
	assert.Equal(t, "a.csv", report.SourcePath)
	assert.Equal(t, 10, report.RowCount)
}

func TestReadReport(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 123456000, time.UTC)
	path, err := WriteReport(t.TempDir(), "snap.csv", 42, now)
	require.NoError(t, err)

	report, err := ReadReport(path)
	require.NoError(t, err)

	assert.True(t, report.Passed)
	assert.Equal(t, "snap.csv", report.SourcePath)
	assert.Equal(t, 42, report.RowCount)
	assert.True(t, now.Equal(report.CheckedAt), "checked at %v", report.CheckedAt)
	assert.Equal(t, path, report.Path)
}

func TestReadReportRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quality_report_20250101_000000.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\n"), 0o644))

	_, err := ReadReport(path)
	assert.Error(t, err)
}

func TestLatestReport(t *testing.T) {
	dir := t.TempDir()

	_, err := LatestReport(dir)
	assert.ErrorIs(t, err, ErrNoReport)

	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	for i, rows := range []int{10, 30, 20} {
		// written out of order; the name decides
		at := base.Add(time.Duration([]int{0, 2, 1}[i]) * time.Hour)
		_, err := WriteReport(dir, "snap.csv", rows, at)
		require.NoError(t, err)
	}

	report, err := LatestReport(dir)
	require.NoError(t, err)
	assert.Equal(t, 30, report.RowCount)
}
