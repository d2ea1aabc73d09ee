package tabular

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var errNoSheets = errors.New("workbook has no sheets")

// ReadXLSX loads the first worksheet of a workbook; its first row is the header.
func ReadXLSX(name string, r io.Reader) (*MemoryTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: open workbook: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: %w", name, errNoSheets)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%s: read sheet %q: %w", name, sheets[0], err)
	}
	if len(rows) == 0 {
		return NewMemoryTable(name, nil, nil), nil
	}

	// GetRows trims trailing empty cells, so a header can be shorter than the
	// data below it. Missing header cells become unnamed columns.
	header := rows[0]
	width := len(header)
	for _, row := range rows[1:] {
		width = max(width, len(row))
	}
	if width > len(header) {
		header = append(append([]string(nil), header...), make([]string, width-len(header))...)
	}

	return NewMemoryTable(name, header, rows[1:]), nil
}
