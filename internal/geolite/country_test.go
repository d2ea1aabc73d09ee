package geolite

import (
	"path/filepath"
	"testing"
)

func TestOpenMissingDatabase(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "GeoLite2-Country.mmdb")); err == nil {
		t.Fatal("expected error for missing database file")
	}
}

func TestFromBytesRejectsGarbage(t *testing.T) {
	if _, err := FromBytes([]byte("not a maxmind database")); err == nil {
		t.Fatal("expected error for invalid database bytes")
	}
}

func TestNilReaderLookups(t *testing.T) {
	var r *CountryReader
	if got := r.CountryCode("8.8.8.8"); got != "" {
		t.Fatalf("nil reader returned %q, want empty", got)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("nil reader Close returned %v", err)
	}
}
