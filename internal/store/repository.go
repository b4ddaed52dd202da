package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/energytrends/internal/contracts"
)

const dateLayout = "2006-01-02"

// Repository persists published records and quality reports to Postgres
// ⭐ SSOT: energy 스키마 저장/조회
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var (
	_ contracts.EventSink  = (*Repository)(nil)
	_ contracts.ReportSink = (*Repository)(nil)
)

// EnsureSchema creates the energy schema and its tables when missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE SCHEMA IF NOT EXISTS energy`,
		`CREATE TABLE IF NOT EXISTS energy.quarterly_events (
			event_date      DATE             NOT NULL,
			event_year      INTEGER          NOT NULL,
			event_quarter   SMALLINT         NOT NULL,
			series_name     TEXT             NOT NULL,
			series_slug     TEXT             NOT NULL,
			value           DOUBLE PRECISION,
			source_filename TEXT             NOT NULL,
			source_sheet    TEXT             NOT NULL,
			event_timestamp TIMESTAMPTZ      NOT NULL,
			updated_at      TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
			PRIMARY KEY (event_date, series_name)
		)`,
		`CREATE INDEX IF NOT EXISTS quarterly_events_slug_idx
			ON energy.quarterly_events (series_slug, event_date)`,
		`CREATE TABLE IF NOT EXISTS energy.quality_reports (
			id          BIGSERIAL   PRIMARY KEY,
			passed      BOOLEAN     NOT NULL,
			source_path TEXT        NOT NULL,
			row_count   INTEGER     NOT NULL,
			checked_at  TIMESTAMPTZ NOT NULL,
			report_path TEXT        NOT NULL UNIQUE
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SaveEvents upserts records keyed by (event_date, series_name) and returns
// the number written.
func (r *Repository) SaveEvents(ctx context.Context, records []contracts.EventRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO energy.quarterly_events (
			event_date, event_year, event_quarter, series_name, series_slug,
			value, source_filename, source_sheet, event_timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (event_date, series_name) DO UPDATE SET
			event_year = EXCLUDED.event_year,
			event_quarter = EXCLUDED.event_quarter,
			series_slug = EXCLUDED.series_slug,
			value = EXCLUDED.value,
			source_filename = EXCLUDED.source_filename,
			source_sheet = EXCLUDED.source_sheet,
			event_timestamp = EXCLUDED.event_timestamp,
			updated_at = NOW()`

	batch := &pgx.Batch{}
	for _, e := range records {
		date, err := time.Parse(dateLayout, e.EventDate)
		if err != nil {
			return 0, fmt.Errorf("event date %q: %w", e.EventDate, err)
		}
		batch.Queue(query,
			date, e.EventYear, e.EventQuarter, e.SeriesName, e.SeriesSlug,
			e.Value, e.SourceFilename, e.SourceSheet, e.EventTimestamp.UTC(),
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	var written int64
	for range records {
		tag, err := br.Exec()
		if err != nil {
			return written, fmt.Errorf("save events: %w", err)
		}
		written += tag.RowsAffected()
	}

	return written, nil
}

// SaveQualityReport records a passing quality report
func (r *Repository) SaveQualityReport(ctx context.Context, report *contracts.QualityReport) error {
	query := `
		INSERT INTO energy.quality_reports (passed, source_path, row_count, checked_at, report_path)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (report_path) DO NOTHING`

	_, err := r.pool.Exec(ctx, query,
		report.Passed,
		report.SourcePath,
		report.RowCount,
		report.CheckedAt.UTC(),
		report.Path,
	)
	if err != nil {
		return fmt.Errorf("save quality report: %w", err)
	}

	return nil
}

// LatestEventDate returns the most recent quarter stored. ok is false when
// the table is empty.
func (r *Repository) LatestEventDate(ctx context.Context) (date time.Time, ok bool, err error) {
	var latest *time.Time
	if err := r.pool.QueryRow(ctx, `SELECT MAX(event_date) FROM energy.quarterly_events`).Scan(&latest); err != nil {
		return time.Time{}, false, fmt.Errorf("get latest event date: %w", err)
	}
	if latest == nil {
		return time.Time{}, false, nil
	}
	return *latest, true, nil
}
