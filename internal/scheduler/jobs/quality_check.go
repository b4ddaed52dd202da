package jobs

import (
	"context"

	"github.com/wonny/energytrends/internal/pipeline"
	"github.com/wonny/energytrends/pkg/logger"
)

// SnapshotChecker re-validates the latest published snapshot
type SnapshotChecker interface {
	CheckLatest(ctx context.Context) (*pipeline.CheckResult, error)
}

// QualityCheckJob runs the standalone quality check after the pipeline
type QualityCheckJob struct {
	checker  SnapshotChecker
	schedule string
	logger   *logger.Logger
}

// NewQualityCheckJob creates a new quality check job
func NewQualityCheckJob(checker SnapshotChecker, schedule string, log *logger.Logger) *QualityCheckJob {
	return &QualityCheckJob{
		checker:  checker,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *QualityCheckJob) Name() string {
	return "quality_check"
}

// Schedule returns the cron schedule
func (j *QualityCheckJob) Schedule() string {
	return j.schedule
}

// Run executes the check
func (j *QualityCheckJob) Run(ctx context.Context) error {
	result, err := j.checker.CheckLatest(ctx)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"snapshot": result.SnapshotPath,
		"rows":     result.Rows,
		"report":   result.Report.Path,
	}).Info("Scheduled quality check passed")

	return nil
}
