package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/ferdiansakti/proyek-analisis-data/internal/errors"
	"github.com/ferdiansakti/proyek-analisis-data/internal/infrastructure"
	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts/domain"
)

// RecordSet is the immutable result of a load. Callers must not modify
// Records.
type RecordSet struct {
	Records []domain.Record
	Info    domain.DatasetInfo
}

// Options configures a Loader.
type Options struct {
	// Path of the CSV or XLSX file.
	Path string
	// DateLayout parses the dteday column.
	DateLayout string
	// Sheet selects the XLSX worksheet. Empty means the first sheet.
	Sheet string
	// Metrics is optional.
	Metrics *infrastructure.PipelineMetrics
}

// Loader reads the rental file once per process and hands the same
// RecordSet to every caller. A failed load is memoized as well.
type Loader struct {
	opts   Options
	logger *slog.Logger

	once sync.Once
	set  *RecordSet
	err  error

	stale atomic.Bool
	now   func() time.Time
}

// NewLoader creates a Loader. Nothing is read until the first Load.
func NewLoader(opts Options, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DateLayout == "" {
		opts.DateLayout = time.DateOnly
	}
	return &Loader{
		opts:   opts,
		logger: logger.With(slog.String("component", "dataset_loader")),
		now:    time.Now,
	}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string { return l.opts.Path }

// Load returns the record set, reading and parsing the file on the first
// call only. Every error is a data-unavailable AppError.
func (l *Loader) Load(ctx context.Context) (*RecordSet, error) {
	l.once.Do(func() {
		start := time.Now()
		l.set, l.err = l.read(ctx)
		l.opts.Metrics.RecordLoad(ctx, l.rows(), time.Since(start), l.err)

		if l.err != nil {
			l.logger.ErrorContext(ctx, "dataset load failed",
				slog.String("path", l.opts.Path),
				slog.String("error", l.err.Error()))
			return
		}
		l.logger.InfoContext(ctx, "dataset loaded",
			slog.String("path", l.opts.Path),
			slog.Int("rows", l.set.Info.Rows),
			slog.Bool("hourly", l.set.Info.HasHour),
			slog.Duration("duration", time.Since(start)))
	})
	return l.set, l.err
}

// Stale reports whether the file changed after it was loaded.
func (l *Loader) Stale() bool { return l.stale.Load() }

// MarkStale flags the loaded set as out of date with the file on disk.
// The set itself is never reloaded.
func (l *Loader) MarkStale(ctx context.Context) {
	if l.stale.Swap(true) {
		return
	}
	l.opts.Metrics.RecordStale(ctx, true)
	l.logger.WarnContext(ctx, "dataset changed on disk, restart to reload",
		slog.String("path", l.opts.Path))
}

func (l *Loader) rows() int {
	if l.set == nil {
		return 0
	}
	return len(l.set.Records)
}

func (l *Loader) read(ctx context.Context) (*RecordSet, error) {
	path := l.opts.Path
	if path == "" {
		return nil, apperrors.NewDataUnavailableError(path, fmt.Errorf("no dataset path configured"))
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewDataUnavailableError(path, err)
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(path, l.opts.Sheet)
	default:
		rows, err = readCSV(path)
	}
	if err != nil {
		return nil, apperrors.NewDataUnavailableError(path, err)
	}

	records, cols, err := parseRows(rows, l.opts.DateLayout)
	if err != nil {
		return nil, apperrors.NewDataUnavailableError(path, err)
	}

	return &RecordSet{
		Records: records,
		Info:    describeSet(path, records, cols, l.now()),
	}, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func describeSet(path string, records []domain.Record, cols columnIndex, loadedAt time.Time) domain.DatasetInfo {
	info := domain.DatasetInfo{
		Source:   filepath.Base(path),
		Rows:     len(records),
		HasHour:  cols.has(ColHour),
		LoadedAt: loadedAt,
	}

	info.Columns = make([]string, 0, len(cols))
	for name := range cols {
		info.Columns = append(info.Columns, name)
	}
	sort.Slice(info.Columns, func(i, j int) bool { return cols[info.Columns[i]] < cols[info.Columns[j]] })

	for i, r := range records {
		if i == 0 || r.Date.Before(info.From) {
			info.From = r.Date
		}
		if i == 0 || r.Date.After(info.To) {
			info.To = r.Date
		}
	}
	return info
}
