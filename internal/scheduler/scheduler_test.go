package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/energytrends/pkg/logger"
)

type countingJob struct {
	name     string
	schedule string
	calls    atomic.Int32
	failFor  int32 // first N calls fail
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }

func (j *countingJob) Run(ctx context.Context) error {
	n := j.calls.Add(1)
	if n <= j.failFor {
		return errors.New("transient")
	}
	return nil
}

func TestAddJob(t *testing.T) {
	s := New(logger.Nop())

	require.NoError(t, s.AddJob(&countingJob{name: "b", schedule: "0 0 6 * * *"}))
	require.NoError(t, s.AddJob(&countingJob{name: "a", schedule: "@daily"}))

	err := s.AddJob(&countingJob{name: "a", schedule: "@daily"})
	assert.Error(t, err, "duplicate job name")

	err = s.AddJob(&countingJob{name: "bad", schedule: "not a cron"})
	assert.Error(t, err)

	assert.Equal(t, []string{"a", "b"}, s.GetAllJobs())
}

func TestRemoveJob(t *testing.T) {
	s := New(logger.Nop())
	require.NoError(t, s.AddJob(&countingJob{name: "a", schedule: "@daily"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetAllJobs())
	assert.Error(t, s.RemoveJob("a"))

	_, err := s.GetJobHistory("a")
	assert.Error(t, err)
}

func TestRunJobSync(t *testing.T) {
	s := New(logger.Nop())
	job := &countingJob{name: "pipeline", schedule: "@daily"}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJobSync(context.Background(), "pipeline")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Attempts)

	history, err := s.GetJobHistory("pipeline")
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = s.RunJobSync(context.Background(), "missing")
	assert.Error(t, err)
}

func TestNoRetryByDefault(t *testing.T) {
	s := New(logger.Nop())
	job := &countingJob{name: "pipeline", schedule: "@daily", failFor: 1}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJobSync(context.Background(), "pipeline")
	assert.Error(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "transient", result.Error)
	assert.Equal(t, int32(1), job.calls.Load())

	stats := s.GetJobStats()["pipeline"]
	assert.Equal(t, 1, stats.FailureCount)
	assert.NotNil(t, stats.LastFailure)
	assert.Nil(t, stats.LastSuccess)
}

func TestWithRetry(t *testing.T) {
	s := New(logger.Nop()).WithRetry(2, time.Millisecond)
	job := &countingJob{name: "pipeline", schedule: "@daily", failFor: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJobSync(context.Background(), "pipeline")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Attempts)

	stats := s.GetJobStats()["pipeline"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1.0, stats.SuccessRate)
}

func TestRunJobAsync(t *testing.T) {
	s := New(logger.Nop())
	job := &countingJob{name: "check", schedule: "@daily"}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("check"))
	assert.Eventually(t, func() bool {
		h, _ := s.GetJobHistory("check")
		return len(h) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Error(t, s.RunJob("missing"))
}

func TestStartStop(t *testing.T) {
	s := New(logger.Nop())
	require.NoError(t, s.AddJob(&countingJob{name: "a", schedule: "@daily"}))

	s.Start()
	assert.Eventually(t, func() bool {
		return s.GetJobStats()["a"].NextRun != nil
	}, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestHistoryBounded(t *testing.T) {
	h := &history{}
	base := time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC)
	for i := 0; i < historyLimit+5; i++ {
		h.record(JobResult{JobName: "a", StartTime: base.AddDate(0, 0, i), Success: i%2 == 0})
	}

	results := h.copy()
	require.Len(t, results, historyLimit)
	assert.Equal(t, base.AddDate(0, 0, 5), results[0].StartTime, "oldest entries dropped first")

	st := h.stats("a", "@daily")
	assert.Equal(t, historyLimit, st.TotalRuns)
	assert.Equal(t, historyLimit/2, st.FailureCount)
	assert.InDelta(t, 0.5, st.SuccessRate, 0.001)

	// last index (104) is even, so the latest run succeeded and the failure before it is 103
	require.NotNil(t, st.LastRun)
	assert.Equal(t, base.AddDate(0, 0, historyLimit+4), *st.LastRun)
	assert.Equal(t, base.AddDate(0, 0, historyLimit+4), *st.LastSuccess)
	assert.Equal(t, base.AddDate(0, 0, historyLimit+3), *st.LastFailure)
}

func TestHistoryEmptyStats(t *testing.T) {
	st := (&history{}).stats("a", "@daily")

	assert.Zero(t, st.SuccessRate)
	assert.Nil(t, st.LastRun)
	assert.Empty(t, (&history{}).copy())
}
