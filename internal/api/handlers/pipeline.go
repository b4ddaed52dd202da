package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/wonny/energytrends/internal/external/govuk"
	"github.com/wonny/energytrends/internal/pipeline"
	"github.com/wonny/energytrends/internal/quality"
	"github.com/wonny/energytrends/internal/reshape"
	"github.com/wonny/energytrends/internal/snapshot"
	"github.com/wonny/energytrends/pkg/logger"
)

// PipelineService is the part of pipeline.Runner the API drives
type PipelineService interface {
	Run(ctx context.Context) (*pipeline.RunResult, error)
	CheckLatest(ctx context.Context) (*pipeline.CheckResult, error)
}

// EventDateReader reports the latest quarter held by the Postgres sink
type EventDateReader interface {
	LatestEventDate(ctx context.Context) (time.Time, bool, error)
}

// PipelineHandler serves snapshot and quality status and triggers runs
// ⭐ SSOT: 파이프라인 API 핸들러는 이 구조체에서만
type PipelineHandler struct {
	runner    PipelineService
	outputDir string
	store     EventDateReader
	logger    *logger.Logger
}

// NewPipelineHandler creates a new pipeline handler. store may be nil.
func NewPipelineHandler(runner PipelineService, outputDir string, store EventDateReader, log *logger.Logger) *PipelineHandler {
	return &PipelineHandler{
		runner:    runner,
		outputDir: outputDir,
		store:     store,
		logger:    log.Module("api"),
	}
}

// SnapshotResponse is the latest snapshot summary
type SnapshotResponse struct {
	snapshot.Summary
	StoredLatestDate string `json:"stored_latest_date,omitempty"`
}

// GetLatestSnapshot summarizes the most recent snapshot CSV
// GET /api/snapshots/latest
func (h *PipelineHandler) GetLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	path, err := snapshot.Latest(h.outputDir)
	if errors.Is(err, snapshot.ErrNoSnapshot) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to find latest snapshot")
		respondError(w, http.StatusInternalServerError, "Failed to find latest snapshot")
		return
	}

	table, err := snapshot.Read(path)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read snapshot")
		respondError(w, http.StatusInternalServerError, "Failed to read snapshot")
		return
	}

	resp := SnapshotResponse{Summary: table.Summarize()}

	if h.store != nil {
		date, ok, err := h.store.LatestEventDate(r.Context())
		if err != nil {
			// the CSV is the source of truth; the sink is informational
			h.logger.WithError(err).Warn("Failed to read latest stored event date")
		} else if ok {
			resp.StoredLatestDate = date.Format("2006-01-02")
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetLatestQuality returns the most recent quality report
// GET /api/quality/latest
func (h *PipelineHandler) GetLatestQuality(w http.ResponseWriter, r *http.Request) {
	report, err := quality.LatestReport(h.outputDir)
	if errors.Is(err, quality.ErrNoReport) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to read quality report")
		respondError(w, http.StatusInternalServerError, "Failed to read quality report")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// RunPipeline fetches, reshapes, validates and publishes a new snapshot
// POST /api/pipeline/run
func (h *PipelineHandler) RunPipeline(w http.ResponseWriter, r *http.Request) {
	result, err := h.runner.Run(r.Context())
	if err != nil {
		h.respondRunError(w, "Pipeline run failed", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// CheckQuality re-validates the latest snapshot and writes a report
// POST /api/quality/check
func (h *PipelineHandler) CheckQuality(w http.ResponseWriter, r *http.Request) {
	result, err := h.runner.CheckLatest(r.Context())
	if err != nil {
		h.respondRunError(w, "Quality check failed", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// FailureResponse describes a breached quality check
type FailureResponse struct {
	Error  string `json:"error"`
	Check  string `json:"check"`
	Reason string `json:"reason"`
}

func (h *PipelineHandler) respondRunError(w http.ResponseWriter, msg string, err error) {
	h.logger.WithError(err).Error(msg)

	var failure *quality.Failure
	switch {
	case errors.As(err, &failure):
		respondJSON(w, http.StatusUnprocessableEntity, FailureResponse{
			Error:  msg,
			Check:  failure.Check,
			Reason: failure.Reason,
		})
	case errors.Is(err, snapshot.ErrNoSnapshot):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, govuk.ErrNoWorkbookLink), errors.Is(err, reshape.ErrSheetLoad):
		respondError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, quality.ErrReportExists):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusServiceUnavailable, msg)
	default:
		respondError(w, http.StatusInternalServerError, msg)
	}
}
