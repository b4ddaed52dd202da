package contracts

import "time"

// QualityReport is the summary written after a passing quality check
type QualityReport struct {
	Passed     bool      `json:"passed"`
	SourcePath string    `json:"source_path"`
	RowCount   int       `json:"row_count"`
	CheckedAt  time.Time `json:"checked_at"`
	Path       string    `json:"path,omitempty"` // report file location
}
