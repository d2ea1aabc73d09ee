package threatdb

import "strings"

// ColumnMap names the source columns serving each role. An empty name means
// the role was not found in the table.
type ColumnMap struct {
	Address string
	Country string
	Tag     string
}

// ColumnStrategy picks the role columns of a table from its header.
type ColumnStrategy interface {
	Resolve(columns []string) ColumnMap
}

// ColumnStrategyFunc adapts a plain function to ColumnStrategy.
type ColumnStrategyFunc func(columns []string) ColumnMap

func (f ColumnStrategyFunc) Resolve(columns []string) ColumnMap {
	return f(columns)
}

// MarkerStrategy selects, for each role, the first column whose lowercased
// name contains any of the role's markers.
type MarkerStrategy struct {
	Address []string
	Country []string
	Tag     []string
}

// DefaultMarkers is the marker set used by the threat table sources.
var DefaultMarkers = MarkerStrategy{
	Address: []string{"ip"},
	Country: []string{"country", "code"},
	Tag:     []string{"tag", "type"},
}

func (s MarkerStrategy) Resolve(columns []string) ColumnMap {
	return ColumnMap{
		Address: firstMatch(columns, s.Address),
		Country: firstMatch(columns, s.Country),
		Tag:     firstMatch(columns, s.Tag),
	}
}

func firstMatch(columns, markers []string) string {
	for _, col := range columns {
		lower := strings.ToLower(col)
		for _, marker := range markers {
			if strings.Contains(lower, marker) {
				return col
			}
		}
	}
	return ""
}

// ResolveColumns applies strategy (DefaultMarkers when nil) and reports whether
// the table has an address column and is therefore usable.
func ResolveColumns(columns []string, strategy ColumnStrategy) (ColumnMap, bool) {
	if strategy == nil {
		strategy = DefaultMarkers
	}
	m := strategy.Resolve(columns)
	return m, m.Address != ""
}
