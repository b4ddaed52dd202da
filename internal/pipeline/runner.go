package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wonny/energytrends/internal/contracts"
	"github.com/wonny/energytrends/internal/quality"
	"github.com/wonny/energytrends/internal/reshape"
	"github.com/wonny/energytrends/internal/snapshot"
	"github.com/wonny/energytrends/pkg/config"
	"github.com/wonny/energytrends/pkg/logger"
)

// ErrNoFetcher is returned by Run when the Runner was built without a fetcher
var ErrNoFetcher = errors.New("pipeline has no workbook fetcher")

// Runner sequences fetch → reshape → inline gate → snapshot, and the
// standalone re-check of the latest snapshot.
// ⭐ SSOT: 파이프라인 실행 순서는 여기서만 정의
type Runner struct {
	cfg     config.PipelineConfig
	fetcher contracts.WorkbookFetcher
	inline  *quality.Gate
	full    *quality.Gate
	events  contracts.EventSink
	reports contracts.ReportSink
	clock   func() time.Time
	log     *logger.Logger
	baseLog *logger.Logger

	// runs from the scheduler and the API share the output directory
	mu sync.Mutex
}

// Option customizes a Runner
type Option func(*Runner)

// WithEventSink also persists every published record set to sink
func WithEventSink(sink contracts.EventSink) Option {
	return func(r *Runner) {
		r.events = sink
	}
}

// WithReportSink also persists every passing quality report to sink
func WithReportSink(sink contracts.ReportSink) Option {
	return func(r *Runner) {
		r.reports = sink
	}
}

// WithClock replaces the wall clock used for capture and check times
func WithClock(clock func() time.Time) Option {
	return func(r *Runner) {
		r.clock = clock
	}
}

// NewRunner creates a Runner. fetcher may be nil for runs that only use
// local workbooks or re-check snapshots.
func NewRunner(cfg *config.Config, fetcher contracts.WorkbookFetcher, log *logger.Logger, opts ...Option) *Runner {
	thresholds := quality.ThresholdsFrom(cfg)

	r := &Runner{
		cfg:     cfg.Pipeline,
		fetcher: fetcher,
		inline:  quality.NewGate(thresholds, quality.InlineChecks(), log),
		full:    quality.NewGate(thresholds, quality.FullChecks(), log),
		clock:   time.Now,
		log:     log.Module("pipeline"),
		baseLog: log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunResult describes a published snapshot
type RunResult struct {
	SourceURL    string    `json:"source_url,omitempty"`
	WorkbookPath string    `json:"workbook_path"`
	Records      int       `json:"records"`
	NullValues   int       `json:"null_values"`
	SnapshotPath string    `json:"snapshot_path"`
	CapturedAt   time.Time `json:"captured_at"`
	Persisted    int64     `json:"persisted"`
}

// CheckResult describes a passing standalone check
type CheckResult struct {
	SnapshotPath string                   `json:"snapshot_path"`
	Rows         int                      `json:"rows"`
	Report       *contracts.QualityReport `json:"report"`
}

// Run downloads the latest workbook from the configured landing page,
// saves it to the output directory and publishes its snapshot.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fetcher == nil {
		return nil, ErrNoFetcher
	}

	wb, err := r.fetcher.FetchLatestWorkbook(ctx, r.cfg.SourceURL)
	if err != nil {
		return nil, fmt.Errorf("fetch workbook: %w", err)
	}

	path, err := r.saveWorkbook(wb)
	if err != nil {
		return nil, err
	}

	result, err := r.publish(ctx, path, wb.Filename)
	if result != nil {
		result.SourceURL = wb.URL
	}
	return result, err
}

// RunFile publishes the snapshot of a workbook already on disk
func (r *Runner) RunFile(ctx context.Context, path string) (*RunResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.publish(ctx, path, filepath.Base(path))
}

// CheckLatest re-validates the most recent snapshot with the full check set
// and writes a quality report when it passes.
func (r *Runner) CheckLatest(ctx context.Context) (*CheckResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	path, err := snapshot.Latest(r.cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	r.log.WithField("path", path).Info("Validating snapshot")

	table, err := snapshot.Read(path)
	if err != nil {
		return nil, err
	}

	if err := r.full.Check(table); err != nil {
		return nil, err
	}

	checkedAt := r.clock().UTC()
	reportPath, err := quality.WriteReport(r.cfg.OutputDir, path, table.Len(), checkedAt)
	if err != nil {
		return nil, fmt.Errorf("write quality report: %w", err)
	}

	r.log.WithField("path", reportPath).Info("Quality report written")

	report := &contracts.QualityReport{
		Passed:     true,
		SourcePath: path,
		RowCount:   table.Len(),
		CheckedAt:  checkedAt,
		Path:       reportPath,
	}
	result := &CheckResult{SnapshotPath: path, Rows: table.Len(), Report: report}

	if r.reports != nil {
		if err := r.reports.SaveQualityReport(ctx, report); err != nil {
			return result, fmt.Errorf("persist quality report: %w", err)
		}
	}

	return result, nil
}

// saveWorkbook writes the downloaded workbook under its source file name
func (r *Runner) saveWorkbook(wb *contracts.Workbook) (string, error) {
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(r.cfg.OutputDir, filepath.Base(wb.Filename))
	if err := os.WriteFile(path, wb.Data, 0o644); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}

	r.log.WithField("path", path).Info("File saved")
	return path, nil
}

// publish runs load → reshape → inline gate → snapshot → sink for one workbook
func (r *Runner) publish(ctx context.Context, path, sourceFilename string) (*RunResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sheet, err := reshape.LoadSheet(path, r.cfg.SheetName, r.cfg.HeaderRows)
	if err != nil {
		return nil, err
	}

	r.log.WithFields(map[string]interface{}{
		"sheet":   sheet.Name,
		"rows":    len(sheet.Rows),
		"columns": sheet.Width(),
	}).Info("Loaded sheet")

	// One capture instant per run: it stamps every record and names the file.
	captured := r.clock().UTC().Truncate(time.Second)
	engine := reshape.NewEngine(r.cfg.SheetName, r.baseLog, reshape.WithClock(func() time.Time { return captured }))

	records, err := engine.Reshape(sheet, sourceFilename)
	if err != nil {
		return nil, err
	}

	set := quality.RecordSet(records)
	if err := r.inline.Check(set); err != nil {
		return nil, err
	}

	snapshotPath, err := snapshot.Write(r.cfg.OutputDir, records, captured)
	if err != nil {
		return nil, err
	}

	r.log.WithFields(map[string]interface{}{
		"path":    snapshotPath,
		"records": len(records),
	}).Info("Output written")

	result := &RunResult{
		WorkbookPath: path,
		Records:      len(records),
		NullValues:   set.NullCount("value"),
		SnapshotPath: snapshotPath,
		CapturedAt:   captured,
	}

	if r.events != nil {
		n, err := r.events.SaveEvents(ctx, records)
		if err != nil {
			return result, fmt.Errorf("persist events: %w", err)
		}
		result.Persisted = n
	}

	return result, nil
}
