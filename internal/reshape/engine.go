package reshape

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/energytrends/internal/contracts"
	"github.com/wonny/energytrends/internal/labels"
	"github.com/wonny/energytrends/pkg/logger"
)

// Engine melts the wide quarterly sheet into long event records
// ⭐ SSOT: wide → long 변환은 이 엔진에서만
type Engine struct {
	sheetName string
	clock     func() time.Time
	logger    *logger.Logger
}

// Option customizes an Engine
type Option func(*Engine)

// WithClock replaces the capture clock
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// NewEngine creates an Engine stamping sheetName as source_sheet
func NewEngine(sheetName string, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		sheetName: sheetName,
		clock:     time.Now,
		logger:    log.Module("reshape"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// quarterColumn is a header cell that decoded to a quarter
type quarterColumn struct {
	index int
	date  labels.QuarterDate
}

// seriesRow is a data row that survived name normalization
type seriesRow struct {
	name  string
	slug  string
	cells []string
}

// Reshape converts sheet into deduplicated event records in output order.
// Unparseable quarter headers are skipped and non-numeric cells become nil
// values; neither is an error.
func (e *Engine) Reshape(sheet *Sheet, sourceFilename string) ([]contracts.EventRecord, error) {
	if sheet == nil || sheet.Width() == 0 {
		return nil, fmt.Errorf("%w: missing series column", ErrSheetLoad)
	}

	rows := seriesRows(sheet)
	columns := quarterColumns(sheet)
	captured := e.clock().UTC().Truncate(time.Second)

	// Column-major melt: the order here defines which duplicate is "last".
	melted := make([]contracts.EventRecord, 0, len(rows)*len(columns))
	for _, col := range columns {
		for _, row := range rows {
			melted = append(melted, contracts.EventRecord{
				EventDate:      col.date.String(),
				EventYear:      col.date.Year,
				EventQuarter:   col.date.Quarter,
				SeriesName:     row.name,
				SeriesSlug:     row.slug,
				Value:          parseValue(row.cells[col.index]),
				SourceFilename: sourceFilename,
				SourceSheet:    e.sheetName,
				EventTimestamp: captured,
			})
		}
	}

	records := Deduplicate(melted)

	e.logger.WithFields(map[string]interface{}{
		"source":          sourceFilename,
		"series":          len(rows),
		"quarter_columns": len(columns),
		"skipped_columns": sheet.Width() - 1 - len(columns),
		"melted":          len(melted),
		"rows":            len(records),
		"columns":         len(contracts.EventColumns),
	}).Info("Cleaned quarterly sheet")

	return records, nil
}

// seriesRows drops all-empty rows and rows whose normalized name is empty
func seriesRows(sheet *Sheet) []seriesRow {
	rows := make([]seriesRow, 0, len(sheet.Rows))
	for _, cells := range sheet.Rows {
		if isEmptyRow(cells) {
			continue
		}

		name := labels.NormalizeSeriesName(cells[0])
		if name == "" {
			continue
		}

		rows = append(rows, seriesRow{
			name:  name,
			slug:  labels.Slugify(name),
			cells: cells,
		})
	}
	return rows
}

// quarterColumns returns every non-first column whose header parses
func quarterColumns(sheet *Sheet) []quarterColumn {
	columns := make([]quarterColumn, 0, sheet.Width())
	for i := 1; i < sheet.Width(); i++ {
		date, ok := labels.ParseQuarterLabel(sheet.Header[i])
		if !ok {
			continue
		}
		columns = append(columns, quarterColumn{index: i, date: date})
	}
	return columns
}

// Deduplicate keeps the last record for each (event_date, series_name),
// at the position where that last record appeared.
func Deduplicate(records []contracts.EventRecord) []contracts.EventRecord {
	last := make(map[contracts.EventKey]int, len(records))
	for i, r := range records {
		last[r.Key()] = i
	}

	out := make([]contracts.EventRecord, 0, len(last))
	for i, r := range records {
		if last[r.Key()] == i {
			out = append(out, r)
		}
	}
	return out
}

// parseValue coerces a raw cell to a number; anything else is nil
func parseValue(cell string) *float64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func isEmptyRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
