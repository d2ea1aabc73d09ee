package tabular

import (
	"errors"
	"fmt"
	"io"

	"mailsift/internal/support"
)

// ReadDelimited loads a delimited text source. The first record is the header;
// records that fail to parse are skipped. An unterminated quoted field makes
// the whole source unreadable.
func ReadDelimited(name string, r io.Reader, comma rune) (*MemoryTable, error) {
	reader := support.NewRecordReader(r, comma)

	header, err := reader.ReadHeader()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return NewMemoryTable(name, nil, nil), nil
		}
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: read: %w", name, err)
		}
		records = append(records, record)
	}

	return NewMemoryTable(name, header, records), nil
}
