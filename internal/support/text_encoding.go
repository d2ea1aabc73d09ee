package support

import (
	"bufio"
	"bytes"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// utf8BOM is written once at the top of every delimited output so spreadsheet
// tools pick the right encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NewBOMTolerantReader strips a leading UTF-8 byte-order mark and decodes
// UTF-16 input when a UTF-16 mark is present. Input without a mark passes
// through byte for byte, invalid UTF-8 included.
func NewBOMTolerantReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if mark, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(mark, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
		return br
	}
	return transform.NewReader(br, unicode.BOMOverride(transform.Nop))
}

// WriteBOM writes the UTF-8 byte-order mark.
func WriteBOM(w io.Writer) error {
	_, err := w.Write(utf8BOM)
	return err
}
