package contracts

import "context"

// Workbook is a downloaded spreadsheet
type Workbook struct {
	URL      string
	Filename string
	Data     []byte
}

// WorkbookFetcher locates and downloads the latest published workbook
// ⭐ SSOT: 외부 데이터 수집 인터페이스
type WorkbookFetcher interface {
	FetchLatestWorkbook(ctx context.Context, pageURL string) (*Workbook, error)
}

// EventSink persists event records outside the CSV snapshot
type EventSink interface {
	SaveEvents(ctx context.Context, records []EventRecord) (int64, error)
}

// ReportSink persists quality reports outside the report files
type ReportSink interface {
	SaveQualityReport(ctx context.Context, report *QualityReport) error
}
