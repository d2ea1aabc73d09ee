// Package tabular reads spreadsheet-like sources into rows of named fields.
package tabular

import (
	"fmt"
	"strings"
)

// Table is one tabular source: ordered column names plus rows keyed by them.
type Table interface {
	Name() string
	Columns() []string
	Rows() []Row
}

// Row maps column names to cell values. Absent cells read as "".
type Row map[string]string

func (r Row) Get(column string) string {
	if r == nil {
		return ""
	}
	return r[column]
}

// MemoryTable is a fully loaded Table.
type MemoryTable struct {
	name    string
	columns []string
	rows    []Row
}

// NewMemoryTable builds a table from positional records. Records shorter than
// the header are padded with empty values and longer ones are truncated.
func NewMemoryTable(name string, header []string, records [][]string) *MemoryTable {
	columns := uniqueColumns(header)
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return &MemoryTable{name: name, columns: columns, rows: rows}
}

func (t *MemoryTable) Name() string      { return t.name }
func (t *MemoryTable) Columns() []string { return append([]string(nil), t.columns...) }
func (t *MemoryTable) Rows() []Row       { return t.rows }

// uniqueColumns names blank headers "Unnamed: N" and suffixes repeated names
// with ".1", ".2", ... so every column stays addressable.
func uniqueColumns(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, raw := range header {
		name := strings.TrimSpace(raw)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		columns[i] = name
	}
	return columns
}
