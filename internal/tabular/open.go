package tabular

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported table format")

// Open reads the file at path, picking the reader from its extension.
func Open(path string) (Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx", ".xlsm", ".csv", ".tsv", ".txt":
	default:
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var table *MemoryTable
	name := filepath.Base(path)
	switch ext {
	case ".xlsx", ".xlsm":
		table, err = ReadXLSX(name, f)
	case ".csv":
		table, err = ReadDelimited(name, f, ',')
	default:
		table, err = ReadDelimited(name, f, '\t')
	}
	if err != nil {
		return nil, err
	}
	return table, nil
}
