package contracts

import (
	"strconv"
	"time"
)

// TimestampLayout is the second-precision layout of event_timestamp
const TimestampLayout = "2006-01-02 15:04:05"

// EventColumns is the fixed output column order of a snapshot CSV
// ⭐ SSOT: 출력 스키마 컬럼 순서는 여기서만 정의
var EventColumns = []string{
	"event_date",
	"event_year",
	"event_quarter",
	"series_name",
	"value",
	"source_filename",
	"source_sheet",
	"event_timestamp",
}

// EventRecord is one (series, quarter) observation in long form
type EventRecord struct {
	EventDate      string    `json:"event_date"` // YYYY-MM-01, quarter start month
	EventYear      int       `json:"event_year"`
	EventQuarter   int       `json:"event_quarter"`
	SeriesName     string    `json:"series_name"`
	SeriesSlug     string    `json:"-"`     // not part of the CSV schema
	Value          *float64  `json:"value"` // nil when the cell was not numeric
	SourceFilename string    `json:"source_filename"`
	SourceSheet    string    `json:"source_sheet"`
	EventTimestamp time.Time `json:"event_timestamp"`
}

// Key identifies a record for deduplication
func (r EventRecord) Key() EventKey {
	return EventKey{EventDate: r.EventDate, SeriesName: r.SeriesName}
}

// Row renders the record in EventColumns order. A nil value is an empty cell.
func (r EventRecord) Row() []string {
	value := ""
	if r.Value != nil {
		value = strconv.FormatFloat(*r.Value, 'f', -1, 64)
	}

	return []string{
		r.EventDate,
		strconv.Itoa(r.EventYear),
		strconv.Itoa(r.EventQuarter),
		r.SeriesName,
		value,
		r.SourceFilename,
		r.SourceSheet,
		r.EventTimestamp.UTC().Format(TimestampLayout),
	}
}

// EventKey is the uniqueness key of an EventRecord
type EventKey struct {
	EventDate  string
	SeriesName string
}
