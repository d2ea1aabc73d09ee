package enrich

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"mailsift/internal/support"
	"mailsift/internal/threatdb"
)

const (
	CountrySuffix = "_Country"
	TagsSuffix    = "_Tags"
)

var ErrEmptyInput = errors.New("enrich: input has no header row")

// CountryLookup resolves an address to a country code, "" when unknown.
type CountryLookup interface {
	CountryCode(address string) string
}

type RunStats struct {
	Rows      int
	Skipped   int
	IPColumns []string
	Matched   int
	Fallback  int
	Unknown   int
}

// Enricher annotates IP columns of event exports with threat table data.
type Enricher struct {
	table     *threatdb.Table
	countries CountryLookup
}

// NewEnricher builds an Enricher. table may be nil for an empty lookup table
// and countries may be nil to disable the country fallback.
func NewEnricher(table *threatdb.Table, countries CountryLookup) *Enricher {
	if table == nil {
		table = threatdb.NewTable()
	}
	return &Enricher{table: table, countries: countries}
}

type lookupSource int

const (
	sourceUnknown lookupSource = iota
	sourceTable
	sourceFallback
)

func (e *Enricher) lookup(address string) (country, tags string, src lookupSource) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", "", sourceUnknown
	}
	if entry, ok := e.table.Get(address); ok {
		return entry.Country, entry.Tag, sourceTable
	}
	if e.countries != nil {
		if code := e.countries.CountryCode(address); code != "" {
			return code, "", sourceFallback
		}
	}
	return "", "", sourceUnknown
}

// Lookup returns the country and tag recorded for address.
func (e *Enricher) Lookup(address string) (country, tags string) {
	country, tags, _ = e.lookup(address)
	return country, tags
}

// Run streams CSV records from in to out. Hex encoded values in every column
// whose name mentions "ip" are converted first. IP columns are detected from
// the first data row, and each one is followed in the output by its country
// and tags columns.
func (e *Enricher) Run(ctx context.Context, in io.Reader, out io.Writer) (RunStats, error) {
	var stats RunStats

	reader := support.NewRecordReader(in, ',')
	header, err := reader.ReadHeader()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return stats, ErrEmptyInput
		}
		return stats, fmt.Errorf("read header: %w", err)
	}

	reader.MaxFields = len(header)

	hexColumns := make([]bool, len(header))
	for i, name := range header {
		hexColumns[i] = isIPColumnName(name)
	}

	next := func() ([]string, error) {
		record, err := reader.Read()
		stats.Skipped = reader.Skipped
		if err != nil {
			return nil, err
		}

		row := make([]string, len(header))
		copy(row, record)
		for i, isHex := range hexColumns {
			if isHex {
				row[i] = ConvertHexIP(row[i])
			}
		}
		return row, nil
	}

	first, err := next()
	if err != nil && !errors.Is(err, io.EOF) {
		return stats, fmt.Errorf("read input: %w", err)
	}

	var ipColumns []int
	if first != nil {
		ipColumns = DetectIPColumns(header, first)
	}
	isIPColumn := make(map[int]bool, len(ipColumns))
	for _, idx := range ipColumns {
		isIPColumn[idx] = true
		stats.IPColumns = append(stats.IPColumns, header[idx])
	}
	if len(ipColumns) == 0 {
		log.Warn("No IP columns detected", "columns", len(header))
	}

	outHeader := make([]string, 0, len(header)+2*len(ipColumns))
	for i, name := range header {
		outHeader = append(outHeader, name)
		if isIPColumn[i] {
			outHeader = append(outHeader, name+CountrySuffix, name+TagsSuffix)
		}
	}

	if err := support.WriteBOM(out); err != nil {
		return stats, fmt.Errorf("write output: %w", err)
	}
	writer := csv.NewWriter(out)
	if err := writer.Write(outHeader); err != nil {
		return stats, fmt.Errorf("write header: %w", err)
	}

	row := first
	for row != nil {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		outRow := make([]string, 0, len(outHeader))
		for i, value := range row {
			outRow = append(outRow, value)
			if !isIPColumn[i] {
				continue
			}
			country, tags, src := e.lookup(value)
			switch src {
			case sourceTable:
				stats.Matched++
			case sourceFallback:
				stats.Fallback++
			default:
				stats.Unknown++
			}
			outRow = append(outRow, country, tags)
		}
		if err := writer.Write(outRow); err != nil {
			return stats, fmt.Errorf("write row: %w", err)
		}
		stats.Rows++

		row, err = next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			writer.Flush()
			return stats, fmt.Errorf("read input: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return stats, fmt.Errorf("write output: %w", err)
	}

	log.Info("Enrichment finished", "rows", stats.Rows, "ip_columns", stats.IPColumns, "matched", stats.Matched, "fallback", stats.Fallback, "skipped", stats.Skipped)
	return stats, nil
}

// RunFile enriches inputPath into outputPath.
func (e *Enricher) RunFile(ctx context.Context, inputPath, outputPath string) (RunStats, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return RunStats{}, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	if err := support.EnsureParentDir(outputPath); err != nil {
		return RunStats{}, fmt.Errorf("create output directory: %w", err)
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return RunStats{}, fmt.Errorf("create output: %w", err)
	}

	stats, runErr := e.Run(ctx, in, out)
	if closeErr := out.Close(); closeErr != nil {
		return stats, errors.Join(runErr, fmt.Errorf("close output: %w", closeErr))
	}
	return stats, runErr
}
