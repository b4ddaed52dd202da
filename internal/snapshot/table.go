package snapshot

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// nullTokens are the cell texts read back as null, besides the empty cell
var nullTokens = map[string]bool{
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
	"#n/a": true,
	"-nan": true,
}

// IsNull reports whether a CSV cell reads as a missing value
func IsNull(cell string) bool {
	s := strings.TrimSpace(cell)
	return s == "" || nullTokens[strings.ToLower(s)]
}

// Table is a snapshot CSV loaded for validation. It satisfies the quality
// gate's Dataset interface.
type Table struct {
	Path   string
	Header []string
	Rows   [][]string

	index map[string]int
}

// Read loads the CSV at path. The first row is the header.
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("parse snapshot %s: no header row", path)
	}

	t := &Table{
		Path:   path,
		Header: all[0],
		Rows:   all[1:],
		index:  make(map[string]int, len(all[0])),
	}
	for i, col := range t.Header {
		if _, dup := t.index[col]; !dup {
			t.index[col] = i
		}
	}
	return t, nil
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Columns returns the header
func (t *Table) Columns() []string {
	return t.Header
}

// NullCount counts null cells in col. Short rows count as null.
func (t *Table) NullCount(col string) int {
	i, ok := t.index[col]
	if !ok {
		return 0
	}

	n := 0
	for _, row := range t.Rows {
		if i >= len(row) || IsNull(row[i]) {
			n++
		}
	}
	return n
}

// Summary describes a snapshot for status reporting
type Summary struct {
	Path       string `json:"path"`
	Rows       int    `json:"rows"`
	Series     int    `json:"series"`
	FirstDate  string `json:"first_date,omitempty"`
	LastDate   string `json:"last_date,omitempty"`
	NullValues int    `json:"null_values"`
}

// Summarize computes the row, series and date-range summary of t
func (t *Table) Summarize() Summary {
	s := Summary{
		Path:       t.Path,
		Rows:       t.Len(),
		NullValues: t.NullCount("value"),
	}

	series := make(map[string]struct{})
	for _, v := range t.column("series_name") {
		series[v] = struct{}{}
	}
	s.Series = len(series)

	// ISO dates order lexically
	for _, d := range t.column("event_date") {
		if IsNull(d) {
			continue
		}
		if s.FirstDate == "" || d < s.FirstDate {
			s.FirstDate = d
		}
		if d > s.LastDate {
			s.LastDate = d
		}
	}
	return s
}

func (t *Table) column(col string) []string {
	i, ok := t.index[col]
	if !ok {
		return nil
	}

	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if i < len(row) {
			out = append(out, row[i])
		}
	}
	return out
}
