package threatdb

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ErrNotLiteral is returned by ParseLiteral when no export header is found.
var ErrNotLiteral = errors.New("threatdb: input is not a threat table literal")

var (
	escaper   = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)
	unescaper = strings.NewReplacer(`\\`, `\`, `\"`, `"`, `\n`, "\n", `\r`, "\r")

	headerRegex = regexp.MustCompile(`^export const [A-Za-z_$][A-Za-z0-9_$]* = \{$`)
	entryRegex  = regexp.MustCompile(`^\s*"((?:[^"\\]|\\.)*)":\s*\{\s*country:\s*"((?:[^"\\]|\\.)*)",\s*tags:\s*"((?:[^"\\]|\\.)*)"\s*\},?\s*$`)
)

// Serialize writes the table as a single exported object literal, one entry
// per line in first-seen order:
//
//	export const IP_THREAT_DB = {
//	    "1.2.3.4": { country: "US", tags: "vpn" },
//	};
func Serialize(w io.Writer, t *Table, exportName string) error {
	_, err := w.Write(Render(t, exportName))
	return err
}

// Render returns the literal Serialize would write.
func Render(t *Table, exportName string) []byte {
	var buf bytes.Buffer
	buf.WriteString("export const " + exportName + " = {\n")
	t.Each(func(address string, e Entry) {
		fmt.Fprintf(&buf, "    \"%s\": { country: \"%s\", tags: \"%s\" },\n",
			escaper.Replace(address), escaper.Replace(e.Country), escaper.Replace(e.Tag))
	})
	buf.WriteString("};\n")
	return buf.Bytes()
}

// ParseLiteral reads a literal produced by Serialize back into a table. Lines
// that are not entries are ignored.
func ParseLiteral(r io.Reader) (*Table, error) {
	table := NewTable()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024), 1024*1024)

	sawHeader := false
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if !sawHeader {
			sawHeader = headerRegex.MatchString(strings.TrimSpace(line))
			continue
		}
		m := entryRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		table.Upsert(unescaper.Replace(m[1]), Entry{
			Country: unescaper.Replace(m[2]),
			Tag:     unescaper.Replace(m[3]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !sawHeader {
		return nil, ErrNotLiteral
	}
	return table, nil
}
