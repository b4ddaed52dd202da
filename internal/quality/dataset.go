package quality

import "github.com/wonny/energytrends/internal/contracts"

// Dataset is the tabular view a Gate inspects
type Dataset interface {
	Len() int
	Columns() []string
	// NullCount returns the number of null cells in col, 0 if col is absent
	NullCount(col string) int
}

// RecordSet adapts in-memory event records to Dataset
type RecordSet []contracts.EventRecord

// Len returns the number of records
func (rs RecordSet) Len() int {
	return len(rs)
}

// Columns returns the output schema every record carries
func (rs RecordSet) Columns() []string {
	return contracts.EventColumns
}

// NullCount counts nulls in col. Only value and the string fields can be
// null on a record; an empty string counts as null like an empty CSV cell.
func (rs RecordSet) NullCount(col string) int {
	n := 0
	for _, r := range rs {
		switch col {
		case "value":
			if r.Value == nil {
				n++
			}
		case "event_date":
			if r.EventDate == "" {
				n++
			}
		case "series_name":
			if r.SeriesName == "" {
				n++
			}
		case "source_filename":
			if r.SourceFilename == "" {
				n++
			}
		case "source_sheet":
			if r.SourceSheet == "" {
				n++
			}
		}
	}
	return n
}
