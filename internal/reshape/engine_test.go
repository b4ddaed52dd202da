package reshape

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/energytrends/internal/contracts"
	"github.com/wonny/energytrends/pkg/logger"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)

func newTestEngine() *Engine {
	return NewEngine("Quarter", logger.Nop(), WithClock(func() time.Time { return fixedNow }))
}

func sumValues(records []contracts.EventRecord) float64 {
	total := 0.0
	for _, r := range records {
		if r.Value != nil {
			total += *r.Value
		}
	}
	return total
}

func TestReshapeEndToEnd(t *testing.T) {
	sheet := &Sheet{
		Name:   "Quarter",
		Header: []string{"Series", "2024\n1st quarter", "2024\n2nd quarter"},
		Rows: [][]string{
			{"Crude oil production", "100", "120"},
		},
	}

	records, err := newTestEngine().Reshape(sheet, "dummy.xlsx")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "2024-01-01", records[0].EventDate)
	assert.Equal(t, "2024-04-01", records[1].EventDate)
	assert.Equal(t, 2024, records[1].EventYear)
	assert.Equal(t, 2, records[1].EventQuarter)
	assert.Equal(t, 100.0, *records[0].Value)
	assert.Equal(t, 120.0, *records[1].Value)
	assert.Equal(t, 220.0, sumValues(records))

	for _, r := range records {
		assert.Equal(t, "Crude oil production", r.SeriesName)
		assert.Equal(t, "crude_oil_production", r.SeriesSlug)
		assert.Equal(t, "dummy.xlsx", r.SourceFilename)
		assert.Equal(t, "Quarter", r.SourceSheet)
		assert.Equal(t, fixedNow.Truncate(time.Second), r.EventTimestamp)
	}
}

func TestReshapeNonNumericBecomesNull(t *testing.T) {
	sheet := &Sheet{
		Header: []string{"Series", "2024 1st quarter", "2024 2nd quarter"},
		Rows: [][]string{
			{"Crude oil production", "n/a", "  42.5 "},
		},
	}

	records, err := newTestEngine().Reshape(sheet, "f.xlsx")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Nil(t, records[0].Value)
	require.NotNil(t, records[1].Value)
	assert.Equal(t, 42.5, *records[1].Value)
}

func TestReshapeFiltersRowsAndColumns(t *testing.T) {
	sheet := &Sheet{
		Header: []string{"", "2023 4th quarter", "Notes", "", "2024 1st quarter [provisional]"},
		Rows: [][]string{
			{"", "", "", "", ""},                             // all empty
			{"[note 2]", "1", "", "", "2"},                   // empty after normalization
			{"Refinery\n output [note 5]", "3", "x", "", ""}, // empty value cell
			{"Stocks", "5", "", "", "6"},
		},
	}

	records, err := newTestEngine().Reshape(sheet, "f.xlsx")
	require.NoError(t, err)
	require.Len(t, records, 4)

	// column-major order: every series for 2023 Q4, then for 2024 Q1
	assert.Equal(t, "2023-10-01", records[0].EventDate)
	assert.Equal(t, "Refinery output", records[0].SeriesName)
	assert.Equal(t, "Stocks", records[1].SeriesName)
	assert.Equal(t, "2024-01-01", records[2].EventDate)
	assert.Nil(t, records[2].Value)
	assert.Equal(t, 6.0, *records[3].Value)
}

func TestReshapeDuplicateSeriesLastWins(t *testing.T) {
	sheet := &Sheet{
		Header: []string{"Series", "2024 1st quarter"},
		Rows: [][]string{
			{"Crude oil production [note 1]", "100"},
			{"Crude oil  production", "999"},
		},
	}

	records, err := newTestEngine().Reshape(sheet, "f.xlsx")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 999.0, *records[0].Value)
}

func TestReshapeDuplicateQuarterColumnLastWins(t *testing.T) {
	sheet := &Sheet{
		Header: []string{"Series", "2024 1st quarter", "2024 1st quarter [revised]", "2024 2nd quarter"},
		Rows: [][]string{
			{"Exports", "1", "2", "3"},
		},
	}

	records, err := newTestEngine().Reshape(sheet, "f.xlsx")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "2024-01-01", records[0].EventDate)
	assert.Equal(t, 2.0, *records[0].Value)
	assert.Equal(t, "2024-04-01", records[1].EventDate)
}

func TestReshapeIdempotent(t *testing.T) {
	sheet := &Sheet{
		Header: []string{"Series", "2024 1st quarter", "2024 2nd quarter", "bad"},
		Rows: [][]string{
			{"A", "1", "2", "3"},
			{"B", "n/a", "4", "5"},
		},
	}

	engine := newTestEngine()
	first, err := engine.Reshape(sheet, "f.xlsx")
	require.NoError(t, err)
	second, err := engine.Reshape(sheet, "f.xlsx")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReshapeMissingSeriesColumn(t *testing.T) {
	_, err := newTestEngine().Reshape(&Sheet{}, "f.xlsx")
	assert.ErrorIs(t, err, ErrSheetLoad)

	_, err = newTestEngine().Reshape(nil, "f.xlsx")
	assert.ErrorIs(t, err, ErrSheetLoad)
}

func TestDeduplicate(t *testing.T) {
	v := func(f float64) *float64 { return &f }
	records := []contracts.EventRecord{
		{EventDate: "2024-01-01", SeriesName: "A", Value: v(1)},
		{EventDate: "2024-01-01", SeriesName: "B", Value: v(2)},
		{EventDate: "2024-01-01", SeriesName: "A", Value: v(3)},
		{EventDate: "2024-04-01", SeriesName: "A", Value: v(4)},
	}

	got := Deduplicate(records)
	require.Len(t, got, 3)
	assert.Equal(t, "B", got[0].SeriesName)
	assert.Equal(t, 3.0, *got[1].Value)
	assert.Equal(t, 4.0, *got[2].Value)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"100", ptr(100)},
		{"1.5E3", ptr(1500)},
		{" -2.25 ", ptr(-2.25)},
		{"", nil},
		{"n/a", nil},
		{"1,234", nil},
		{"[x]", nil},
		{"NaN", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseValue(tt.in))
		})
	}
}

func ptr(f float64) *float64 { return &f }

func TestDescribe(t *testing.T) {
	sheet := &Sheet{
		Name:   "Quarter",
		Header: []string{"Series", "2024\n1st quarter", "Column\nnotes"},
		Rows: [][]string{
			{"Crude oil production [note 1]", "1", ""},
			{"", "", ""},
		},
	}

	layout := Describe(sheet)
	assert.Equal(t, []string{"Crude oil production"}, layout.Series)
	assert.Equal(t, []string{"2024-01-01"}, layout.QuarterColumns)
	assert.Equal(t, []string{"Column notes"}, layout.SkippedHeaders)
	assert.Equal(t, 2, layout.DataRows)
}
