package tabular

import (
	"errors"
	"strings"
	"testing"

	"mailsift/internal/support"
)

func TestReadDelimited(t *testing.T) {
	input := "\xEF\xBB\xBFip_address,Country Code,Tag\n" +
		"1.2.3.4,US,vpn\n" +
		"5.6.7.8,\"D\"E\",tor\n" +
		"9.9.9.9\n"

	table, err := ReadDelimited("sample.csv", strings.NewReader(input), ',')
	if err != nil {
		t.Fatalf("ReadDelimited returned error: %v", err)
	}

	if cols := table.Columns(); cols[0] != "ip_address" {
		t.Fatalf("BOM not stripped from header: %q", cols[0])
	}
	rows := table.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows with the stray quote row skipped, got %d", len(rows))
	}
	if rows[1].Get("ip_address") != "9.9.9.9" || rows[1].Get("Country Code") != "" {
		t.Fatalf("short row should be padded, got %v", rows[1])
	}
}

func TestReadDelimitedTabs(t *testing.T) {
	table, err := ReadDelimited("sample.tsv", strings.NewReader("ip\ttype\n1.1.1.1\tproxy\n"), '\t')
	if err != nil {
		t.Fatalf("ReadDelimited returned error: %v", err)
	}
	if got := table.Rows()[0].Get("type"); got != "proxy" {
		t.Fatalf("type = %q, want proxy", got)
	}
}

func TestReadDelimitedEmpty(t *testing.T) {
	table, err := ReadDelimited("empty.csv", strings.NewReader(""), ',')
	if err != nil {
		t.Fatalf("ReadDelimited returned error: %v", err)
	}
	if len(table.Columns()) != 0 || len(table.Rows()) != 0 {
		t.Fatal("expected empty table")
	}
}

func TestReadDelimitedUnterminatedQuote(t *testing.T) {
	input := "ip,country\n\"1.2.3.4,US\n5.5.5.5,DE\n"

	if _, err := ReadDelimited("broken.csv", strings.NewReader(input), ','); !errors.Is(err, support.ErrUnterminatedQuote) {
		t.Fatalf("expected ErrUnterminatedQuote, got %v", err)
	}
}
