package scheduler

import (
	"context"
	"time"
)

// Job is one unit of scheduled pipeline work
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	Name() string
	Run(ctx context.Context) error

	// Schedule is a cron expression with a leading seconds field,
	// e.g. "0 0 6 * * *" or "@daily"
	Schedule() string
}

// JobResult is the outcome of one job execution, retries included
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobStats summarizes the retained history of one job
type JobStats struct {
	JobName      string     `json:"job_name"`
	Schedule     string     `json:"schedule"`
	TotalRuns    int        `json:"total_runs"`
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	SuccessRate  float64    `json:"success_rate"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	LastSuccess  *time.Time `json:"last_success,omitempty"`
	LastFailure  *time.Time `json:"last_failure,omitempty"`
	NextRun      *time.Time `json:"next_run,omitempty"`
}

// historyLimit bounds the results kept per job (~3 months of daily runs)
const historyLimit = 100

// history keeps the most recent results of a job, oldest first.
// Not safe for concurrent use; the scheduler lock guards it.
type history struct {
	results []JobResult
}

func (h *history) record(result JobResult) {
	h.results = append(h.results, result)
	if over := len(h.results) - historyLimit; over > 0 {
		h.results = append(h.results[:0:0], h.results[over:]...)
	}
}

func (h *history) copy() []JobResult {
	return append([]JobResult(nil), h.results...)
}

// stats walks the history once. LastSuccess/LastFailure are the most
// recent of each kind, not only of the latest run.
func (h *history) stats(jobName, schedule string) JobStats {
	st := JobStats{
		JobName:   jobName,
		Schedule:  schedule,
		TotalRuns: len(h.results),
	}

	for i := range h.results {
		r := h.results[i]
		start := r.StartTime
		st.LastRun = &start
		if r.Success {
			st.SuccessCount++
			st.LastSuccess = &start
		} else {
			st.FailureCount++
			st.LastFailure = &start
		}
	}

	if st.TotalRuns > 0 {
		st.SuccessRate = float64(st.SuccessCount) / float64(st.TotalRuns)
	}
	return st
}
