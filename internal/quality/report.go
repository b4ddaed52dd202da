package quality

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/energytrends/internal/contracts"
)

const (
	reportPrefix     = "quality_report_"
	reportSuffix     = ".txt"
	reportNameLayout = "20060102_150405"

	// CheckedAtLayout is the microsecond layout of the "Checked at" line
	CheckedAtLayout = "2006-01-02 15:04:05.000000"

	passedMarker = "QUALITY CHECK: PASSED"
)

var (
	// ErrNoReport is returned when a directory holds no quality report
	ErrNoReport = errors.New("no quality report found")

	// ErrReportExists is returned instead of overwriting an earlier report
	ErrReportExists = errors.New("quality report already exists")
)

// ReportName returns the report filename for a check performed at now
func ReportName(now time.Time) string {
	return reportPrefix + now.UTC().Format(reportNameLayout) + reportSuffix
}

// WriteReport records a passing check of sourcePath in a new file under dir
// and returns its path. Existing reports are never touched.
// ⭐ SSOT: 품질 리포트는 append-only
func WriteReport(dir, sourcePath string, rowCount int, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(dir, ReportName(now))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrReportExists, path)
		}
		return "", fmt.Errorf("create report: %w", err)
	}

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, passedMarker)
	fmt.Fprintf(w, "Source file: %s\n", sourcePath)
	fmt.Fprintf(w, "Row count: %d\n", rowCount)
	fmt.Fprintf(w, "Checked at: %s\n", now.UTC().Format(CheckedAtLayout))

	if err := w.Flush(); err != nil {
		f.Close()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}

	return path, nil
}

// ReadReport parses a report file written by WriteReport
func ReadReport(path string) (*contracts.QualityReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	report := &contracts.QualityReport{Path: path}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case line == passedMarker:
			report.Passed = true
		case strings.HasPrefix(line, "Source file: "):
			report.SourcePath = strings.TrimPrefix(line, "Source file: ")
		case strings.HasPrefix(line, "Row count: "):
			n, err := strconv.Atoi(strings.TrimPrefix(line, "Row count: "))
			if err != nil {
				return nil, fmt.Errorf("parse row count in %s: %w", path, err)
			}
			report.RowCount = n
		case strings.HasPrefix(line, "Checked at: "):
			at, err := time.Parse(CheckedAtLayout, strings.TrimPrefix(line, "Checked at: "))
			if err != nil {
				return nil, fmt.Errorf("parse checked at in %s: %w", path, err)
			}
			report.CheckedAt = at
		}
	}

	if !report.Passed {
		return nil, fmt.Errorf("%s: missing %q marker", path, passedMarker)
	}
	return report, nil
}

// LatestReport parses the most recent report in dir
func LatestReport(dir string) (*contracts.QualityReport, error) {
	matches, err := filepath.Glob(filepath.Join(dir, reportPrefix+"*"+reportSuffix))
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	if len(matches) == 0 {
		return nil, ErrNoReport
	}

	sort.Strings(matches)
	return ReadReport(matches[len(matches)-1])
}
