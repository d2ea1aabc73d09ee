package tabular

import (
	"reflect"
	"testing"
)

func TestNewMemoryTablePadsAndNamesColumns(t *testing.T) {
	table := NewMemoryTable("t", []string{" IP ", "", "ip", "IP"}, [][]string{
		{"1.1.1.1"},
		{"2.2.2.2", "x", "y", "z", "overflow"},
	})

	wantColumns := []string{"IP", "Unnamed: 1", "ip", "IP.1"}
	if got := table.Columns(); !reflect.DeepEqual(got, wantColumns) {
		t.Fatalf("Columns() = %v, want %v", got, wantColumns)
	}

	rows := table.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Get("IP") != "1.1.1.1" || rows[0].Get("IP.1") != "" {
		t.Fatalf("first row not padded: %v", rows[0])
	}
	if rows[1].Get("IP.1") != "z" {
		t.Fatalf("second row = %v", rows[1])
	}
	if rows[1].Get("missing") != "" {
		t.Fatal("absent column should read as empty")
	}
}

func TestRowGetNil(t *testing.T) {
	var row Row
	if row.Get("ip") != "" {
		t.Fatal("nil row should read as empty")
	}
}
