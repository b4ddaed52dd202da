package jobs

import (
	"context"

	"github.com/wonny/energytrends/internal/pipeline"
	"github.com/wonny/energytrends/pkg/logger"
)

// PipelineRunner publishes a new snapshot from the live source
type PipelineRunner interface {
	Run(ctx context.Context) (*pipeline.RunResult, error)
}

// PipelineJob downloads the latest workbook and publishes its snapshot
type PipelineJob struct {
	runner   PipelineRunner
	schedule string
	logger   *logger.Logger
}

// NewPipelineJob creates a new pipeline job
func NewPipelineJob(runner PipelineRunner, schedule string, log *logger.Logger) *PipelineJob {
	return &PipelineJob{
		runner:   runner,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *PipelineJob) Name() string {
	return "energy_pipeline"
}

// Schedule returns the cron schedule (daily by default)
func (j *PipelineJob) Schedule() string {
	return j.schedule
}

// Run executes one pipeline run
func (j *PipelineJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled pipeline run")

	result, err := j.runner.Run(ctx)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"snapshot": result.SnapshotPath,
		"records":  result.Records,
	}).Info("Scheduled pipeline run completed")

	return nil
}
