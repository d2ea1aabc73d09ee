package geolite

import (
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// CountryReader resolves addresses to ISO country codes from a GeoLite2
// Country database. A nil reader answers every lookup with "".
type CountryReader struct {
	db *geoip2.Reader
}

func Open(path string) (*CountryReader, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geolite: open %s: %w", path, err)
	}
	return &CountryReader{db: db}, nil
}

func FromBytes(data []byte) (*CountryReader, error) {
	db, err := geoip2.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("geolite: load country database: %w", err)
	}
	return &CountryReader{db: db}, nil
}

func (r *CountryReader) CountryCode(address string) string {
	if r == nil || r.db == nil {
		return ""
	}

	ip := net.ParseIP(strings.TrimSpace(address))
	if ip == nil {
		return ""
	}

	record, err := r.db.Country(ip)
	if err != nil {
		return ""
	}
	return record.Country.IsoCode
}

func (r *CountryReader) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
