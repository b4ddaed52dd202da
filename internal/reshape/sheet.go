package reshape

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ErrSheetLoad marks a workbook or sheet that cannot be used. It is fatal
// for the run.
var ErrSheetLoad = errors.New("sheet load failed")

// Sheet is the raw grid below the fixed header offset. Every row is padded
// to the width of the widest row.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Width returns the number of columns
func (s *Sheet) Width() int {
	return len(s.Header)
}

// LoadSheet opens the workbook at path and reads sheetName with headerRows
// rows skipped above the header row.
func LoadSheet(path, sheetName string, headerRows int) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook %s: %v", ErrSheetLoad, path, err)
	}
	defer f.Close()

	return readSheet(f, sheetName, headerRows)
}

// ReadSheet is LoadSheet for a workbook already held in memory
func ReadSheet(r io.Reader, sheetName string, headerRows int) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrSheetLoad, err)
	}
	defer f.Close()

	return readSheet(f, sheetName, headerRows)
}

func readSheet(f *excelize.File, sheetName string, headerRows int) (*Sheet, error) {
	// Raw values keep numbers free of display formatting such as "1,234".
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrSheetLoad, sheetName, err)
	}

	if len(rows) <= headerRows {
		return nil, fmt.Errorf("%w: sheet %q has %d rows, header expected at row %d",
			ErrSheetLoad, sheetName, len(rows), headerRows+1)
	}

	grid := rows[headerRows:]

	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no series column", ErrSheetLoad, sheetName)
	}

	sheet := &Sheet{
		Name:   sheetName,
		Header: pad(grid[0], width),
		Rows:   make([][]string, 0, len(grid)-1),
	}
	for _, row := range grid[1:] {
		sheet.Rows = append(sheet.Rows, pad(row, width))
	}

	return sheet, nil
}

func pad(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
