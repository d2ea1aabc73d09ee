package threatdb

import (
	"strings"

	"github.com/charmbracelet/log"

	"mailsift/internal/tabular"
)

// MergeOptions tunes Merge. The zero value uses DefaultMarkers.
type MergeOptions struct {
	Strategy ColumnStrategy
}

// SourceStats describes how one source contributed to the merge.
type SourceStats struct {
	Name     string
	Columns  ColumnMap
	Rows     int
	Empty    int
	Replaced int
	Skipped  bool
	Err      error
}

type MergeStats struct {
	Sources []SourceStats
}

// Merge folds sources, in order, into a new table. Later rows overwrite earlier
// ones sharing an address.
func Merge(sources []tabular.Table, opts MergeOptions) (*Table, MergeStats) {
	table := NewTable()
	var stats MergeStats
	for _, src := range sources {
		stats.Sources = append(stats.Sources, MergeTable(table, src, opts))
	}
	return table, stats
}

// MergeFiles opens each path with tabular.Open and merges the readable ones.
// Missing or unreadable files are logged and skipped.
func MergeFiles(paths []string, opts MergeOptions) (*Table, MergeStats) {
	table := NewTable()
	var stats MergeStats
	for _, path := range paths {
		log.Info("Reading threat source", "path", path)
		src, err := tabular.Open(path)
		if err != nil {
			log.Warn("Skipping threat source", "path", path, "error", err)
			stats.Sources = append(stats.Sources, SourceStats{Name: path, Skipped: true, Err: err})
			continue
		}
		stats.Sources = append(stats.Sources, MergeTable(table, src, opts))
	}
	return table, stats
}

// MergeTable upserts every usable row of src into table.
func MergeTable(table *Table, src tabular.Table, opts MergeOptions) SourceStats {
	stats := SourceStats{Name: src.Name()}

	columns, ok := ResolveColumns(src.Columns(), opts.Strategy)
	stats.Columns = columns
	if !ok {
		log.Warn("Skipping threat source without an address column", "source", src.Name(), "columns", src.Columns())
		stats.Skipped = true
		return stats
	}
	log.Info("Columns resolved", "source", src.Name(), "ip", columns.Address, "country", columns.Country, "tags", columns.Tag)

	for _, row := range src.Rows() {
		address := strings.TrimSpace(row.Get(columns.Address))
		if address == "" {
			stats.Empty++
			continue
		}

		var country, rawTag string
		if columns.Country != "" {
			country = strings.TrimSpace(row.Get(columns.Country))
		}
		if columns.Tag != "" {
			rawTag = row.Get(columns.Tag)
		}

		if table.Upsert(address, Entry{Country: country, Tag: NormalizeTag(rawTag), Source: src.Name()}) {
			stats.Replaced++
		}
		stats.Rows++
	}

	log.Info("Threat source merged", "source", src.Name(), "rows", stats.Rows, "entries", table.Len())
	return stats
}
