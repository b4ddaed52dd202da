// Package testutil builds workbook fixtures shaped like the published
// Energy Trends file.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// PreambleRows is the number of title rows above the header row
const PreambleRows = 4

// QuarterSheet returns a header row plus data rows for a "Quarter" sheet:
// one series column and the given quarter labels.
func QuarterSheet(labels []string, series map[string][]interface{}, order []string) [][]interface{} {
	header := []interface{}{"Column1"}
	for _, l := range labels {
		header = append(header, l)
	}

	rows := [][]interface{}{header}
	for _, name := range order {
		row := []interface{}{name}
		row = append(row, series[name]...)
		rows = append(rows, row)
	}
	return rows
}

// Workbook renders rows into sheet below PreambleRows title rows and
// returns the .xlsx bytes.
func Workbook(t testing.TB, sheet string, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}

	titles := []string{
		"Energy Trends section 3: oil and oil products",
		"Quarterly supply and demand",
		"Source: Department for Energy Security and Net Zero",
		"Thousand tonnes",
	}
	for i, title := range titles[:PreambleRows] {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			t.Fatalf("set title: %v", err)
		}
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, PreambleRows+i+1)
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("set row %d: %v", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// WriteWorkbook saves Workbook output as dir/name and returns the path
func WriteWorkbook(t testing.TB, dir, name, sheet string, rows [][]interface{}) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Workbook(t, sheet, rows), 0o644); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

// SampleRows is a realistic sheet: two quarters of eleven series with a
// footnote column that is not a quarter.
func SampleRows() [][]interface{} {
	names := []string{
		"Crude oil production [note 1]",
		"Natural Gas Liquids (NGLs)",
		"Feedstocks",
		"Imports of crude oil",
		"Exports of crude oil",
		"Refinery receipts",
		"Refinery throughput",
		"Motor spirit",
		"DERV fuel",
		"Aviation turbine fuel",
		"Fuel oils",
	}

	series := make(map[string][]interface{}, len(names))
	for i, n := range names {
		series[n] = []interface{}{float64(100 + i), float64(200 + i), "see note"}
	}

	return QuarterSheet(
		[]string{"2024\n1st quarter", "2024\n2nd quarter [provisional]", "Notes"},
		series,
		names,
	)
}
