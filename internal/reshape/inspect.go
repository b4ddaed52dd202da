package reshape

import "strings"

// Layout describes how a sheet will be interpreted, without melting it
type Layout struct {
	Sheet          string
	Series         []string
	QuarterColumns []string // ISO dates, header order
	SkippedHeaders []string // headers that did not parse as a quarter
	DataRows       int
}

// Describe reports the series and quarter columns Reshape would use
func Describe(sheet *Sheet) Layout {
	layout := Layout{
		Sheet:    sheet.Name,
		DataRows: len(sheet.Rows),
	}

	for _, row := range seriesRows(sheet) {
		layout.Series = append(layout.Series, row.name)
	}

	parsed := make(map[int]bool)
	for _, col := range quarterColumns(sheet) {
		parsed[col.index] = true
		layout.QuarterColumns = append(layout.QuarterColumns, col.date.String())
	}

	for i := 1; i < sheet.Width(); i++ {
		if !parsed[i] {
			layout.SkippedHeaders = append(layout.SkippedHeaders, strings.Join(strings.Fields(sheet.Header[i]), " "))
		}
	}

	return layout
}
