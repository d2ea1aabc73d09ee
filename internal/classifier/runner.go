package classifier

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"mailsift/internal/domain"
	"mailsift/internal/support"
)

const (
	EmailColumn    = "email"
	DomainColumn   = "domain"
	CategoryColumn = "category"

	DefaultBatchSize = 100000
)

var (
	ErrEmptyInput         = errors.New("classifier: input has no header row")
	ErrMissingEmailColumn = errors.New("classifier: input has no email column")
)

// RunStats summarises a classification run.
type RunStats struct {
	Batches    int
	Rows       int
	Skipped    int
	ByCategory map[domain.Category]int
}

// Runner streams delimited records through Classify in fixed-size batches.
type Runner struct {
	rules     Rules
	batchSize int
}

func NewRunner(rules Rules, batchSize int) *Runner {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Runner{rules: rules, batchSize: batchSize}
}

type layout struct {
	width       int
	emailIdx    int
	domainIdx   int
	categoryIdx int
	header      []string
}

// Run reads CSV records from in and writes them to out with the domain and
// category columns filled in. Each batch is flushed before the next one is
// read, so memory stays proportional to the batch size. Rows that cannot be
// parsed, or that carry more fields than the header, are skipped. A quoted
// field left open until the end of the input aborts the run after the rows
// read before it have been written.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer) (RunStats, error) {
	stats := RunStats{ByCategory: make(map[domain.Category]int)}

	reader := support.NewRecordReader(in, ',')
	header, err := reader.ReadHeader()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return stats, ErrEmptyInput
		}
		return stats, fmt.Errorf("read header: %w", err)
	}

	lay, err := newLayout(header)
	if err != nil {
		return stats, err
	}
	reader.MaxFields = len(header)

	if err := support.WriteBOM(out); err != nil {
		return stats, fmt.Errorf("write output: %w", err)
	}
	writer := csv.NewWriter(out)
	if err := writer.Write(lay.header); err != nil {
		return stats, fmt.Errorf("write header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return stats, fmt.Errorf("write header: %w", err)
	}

	batch := make([][]string, 0, r.batchSize)
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		record, err := reader.Read()
		stats.Skipped = reader.Skipped
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if len(batch) > 0 {
				if flushErr := r.flush(writer, lay, batch, &stats); flushErr != nil {
					return stats, errors.Join(fmt.Errorf("read input: %w", err), flushErr)
				}
			}
			return stats, fmt.Errorf("read input: %w", err)
		}

		batch = append(batch, record)
		if len(batch) == r.batchSize {
			if err := r.flush(writer, lay, batch, &stats); err != nil {
				return stats, err
			}
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := r.flush(writer, lay, batch, &stats); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

func (r *Runner) flush(writer *csv.Writer, lay layout, batch [][]string, stats *RunStats) error {
	for _, record := range batch {
		row := make([]string, lay.width)
		copy(row, record)

		d, category := Classify(row[lay.emailIdx], r.rules)
		row[lay.domainIdx] = d
		row[lay.categoryIdx] = category.String()
		stats.ByCategory[category]++

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("write batch %d: %w", stats.Batches+1, err)
	}

	stats.Batches++
	stats.Rows += len(batch)
	log.Info("Batch processed", "batch", stats.Batches, "rows", len(batch), "total", stats.Rows)
	return nil
}

// newLayout locates the email column and reuses existing domain/category
// columns instead of appending duplicates.
func newLayout(header []string) (layout, error) {
	lay := layout{emailIdx: -1, domainIdx: -1, categoryIdx: -1}
	for i, name := range header {
		switch name {
		case EmailColumn:
			if lay.emailIdx < 0 {
				lay.emailIdx = i
			}
		case DomainColumn:
			if lay.domainIdx < 0 {
				lay.domainIdx = i
			}
		case CategoryColumn:
			if lay.categoryIdx < 0 {
				lay.categoryIdx = i
			}
		}
	}
	if lay.emailIdx < 0 {
		return lay, ErrMissingEmailColumn
	}

	lay.header = append([]string(nil), header...)
	if lay.domainIdx < 0 {
		lay.domainIdx = len(lay.header)
		lay.header = append(lay.header, DomainColumn)
	}
	if lay.categoryIdx < 0 {
		lay.categoryIdx = len(lay.header)
		lay.header = append(lay.header, CategoryColumn)
	}
	lay.width = len(lay.header)
	return lay, nil
}

// RunFile classifies inputPath into outputPath. The output is created once and
// each batch is appended to it as soon as it is classified.
func (r *Runner) RunFile(ctx context.Context, inputPath, outputPath string) (RunStats, error) {
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

	stats, runErr := r.Run(ctx, in, out)
	if closeErr := out.Close(); closeErr != nil {
		return stats, errors.Join(runErr, fmt.Errorf("close output: %w", closeErr))
	}
	return stats, runErr
}
