package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/energytrends/internal/api/handlers"
	"github.com/wonny/energytrends/internal/contracts"
	"github.com/wonny/energytrends/internal/pipeline"
	"github.com/wonny/energytrends/internal/testutil"
	"github.com/wonny/energytrends/pkg/config"
	"github.com/wonny/energytrends/pkg/logger"
)

type stubFetcher struct {
	wb *contracts.Workbook
}

func (f stubFetcher) FetchLatestWorkbook(ctx context.Context, pageURL string) (*contracts.Workbook, error) {
	return f.wb, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Env: "development",
		Pipeline: config.PipelineConfig{
			SourceURL:  "https://www.gov.uk/statistics/oil",
			SheetName:  "Quarter",
			HeaderRows: testutil.PreambleRows,
			OutputDir:  t.TempDir(),
			MinRows:    10,
			MaxMissing: 5,
		},
	}
	fetcher := stubFetcher{wb: &contracts.Workbook{
		URL:      "https://www.gov.uk/media/1/ET_3.1.xlsx",
		Filename: "ET_3.1.xlsx",
		Data:     testutil.Workbook(t, "Quarter", testutil.SampleRows()),
	}}

	clock := time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC)
	runner := pipeline.NewRunner(cfg, fetcher, logger.Nop(), pipeline.WithClock(func() time.Time { return clock }))
	h := handlers.NewPipelineHandler(runner, cfg.Pipeline.OutputDir, nil, logger.Nop())

	server := httptest.NewServer(NewRouter(h, logger.Nop()))
	t.Cleanup(server.Close)
	return server
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestRoutesEndToEnd(t *testing.T) {
	server := newTestServer(t)

	status := func(method, path string) int {
		req, err := http.NewRequest(method, server.URL+path, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusNotFound, status(http.MethodGet, "/api/snapshots/latest"))
	assert.Equal(t, http.StatusNotFound, status(http.MethodPost, "/api/quality/check"))

	assert.Equal(t, http.StatusOK, status(http.MethodPost, "/api/pipeline/run"))
	assert.Equal(t, http.StatusOK, status(http.MethodGet, "/api/snapshots/latest"))

	assert.Equal(t, http.StatusNotFound, status(http.MethodGet, "/api/quality/latest"))
	assert.Equal(t, http.StatusOK, status(http.MethodPost, "/api/quality/check"))
	assert.Equal(t, http.StatusOK, status(http.MethodGet, "/api/quality/latest"))

	// same clock second: the second report would overwrite the first
	assert.Equal(t, http.StatusConflict, status(http.MethodPost, "/api/quality/check"))

	assert.Equal(t, http.StatusMethodNotAllowed, status(http.MethodGet, "/api/pipeline/run"))
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := recoveryMiddleware(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestWriteTimeout(t *testing.T) {
	cfg := &config.Config{HTTP: config.HTTPConfig{Timeout: 30 * time.Second, MaxRetries: 3}}
	assert.Equal(t, 4*time.Minute+30*time.Second, writeTimeout(cfg))
	assert.Equal(t, time.Minute, writeTimeout(&config.Config{}))
}
