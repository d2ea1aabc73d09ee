package support

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ErrUnterminatedQuote reports a quoted field that stays open until the end
// of the input, swallowing every record after its opening quote.
var ErrUnterminatedQuote = errors.New("quoted field is never closed")

// RecordReader reads delimited records through a BOM tolerant reader. Records
// that fail to parse, or that carry more than MaxFields fields when MaxFields
// is set, are skipped and counted in Skipped. An unterminated quoted field is
// returned as an error instead.
type RecordReader struct {
	MaxFields int
	Skipped   int

	reader     *csv.Reader
	pending    []string
	pendingErr error
	hasPending bool
}

func NewRecordReader(r io.Reader, comma rune) *RecordReader {
	reader := csv.NewReader(NewBOMTolerantReader(r))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	return &RecordReader{reader: reader}
}

// ReadHeader returns the first record. Parse errors are not skipped here.
func (rr *RecordReader) ReadHeader() ([]string, error) {
	return rr.next()
}

// Read returns the next well-formed record, or io.EOF at the end of input.
func (rr *RecordReader) Read() ([]string, error) {
	for {
		record, err := rr.next()
		if err == nil {
			if rr.MaxFields > 0 && len(record) > rr.MaxFields {
				rr.Skipped++
				continue
			}
			return record, nil
		}

		var parseErr *csv.ParseError
		if !errors.As(err, &parseErr) {
			return nil, err
		}

		if errors.Is(err, csv.ErrQuote) {
			// A quote error followed directly by EOF means the reader ran off
			// the end of the input looking for the closing quote.
			peek, peekErr := rr.reader.Read()
			if errors.Is(peekErr, io.EOF) {
				return nil, fmt.Errorf("line %d: %w", parseErr.StartLine, ErrUnterminatedQuote)
			}
			rr.pending, rr.pendingErr, rr.hasPending = peek, peekErr, true
		}
		rr.Skipped++
	}
}

func (rr *RecordReader) next() ([]string, error) {
	if rr.hasPending {
		record, err := rr.pending, rr.pendingErr
		rr.pending, rr.pendingErr, rr.hasPending = nil, nil, false
		return record, err
	}
	return rr.reader.Read()
}
