package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ferdiansakti/proyek-analisis-data/internal/config"
	"github.com/ferdiansakti/proyek-analisis-data/internal/dataset"
	apierrors "github.com/ferdiansakti/proyek-analisis-data/internal/errors"
	"github.com/ferdiansakti/proyek-analisis-data/internal/exporter"
	"github.com/ferdiansakti/proyek-analisis-data/internal/infrastructure"
	"github.com/ferdiansakti/proyek-analisis-data/internal/services"
	"github.com/ferdiansakti/proyek-analisis-data/internal/validation"
	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts"
	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts/domain"
)

// Exit codes
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitUnavailable = 3
)

// criteriaFlags are the comma separated selection flags. A flag given with
// an empty value selects nothing.
var criteriaFlags = []string{"year", "season", "month", "weather", "working_day"}

type options struct {
	data      string
	exportDir string
	format    string
	name      string
	lang      string
	start     string
	end       string
	version   bool
	lists     map[string]*string
	set       map[string]bool
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return exitOK
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "warning: failed to load config, using defaults: %v\n", err)
		cfg = config.Default()
	}

	// stdout carries the JSON summary, so logs go to stderr.
	logger := infrastructure.WithComponent(
		infrastructure.NewJSONLogger(stderr, infrastructure.ParseLogLevel(cfg.Logging.Level)), "derive")
	ctx = infrastructure.EnsureTraceID(ctx)

	paths := cfg.GetPaths()
	if opts.data != "" {
		paths.DatasetFile = opts.data
	}
	if opts.exportDir != "" {
		paths.ExportDir = opts.exportDir
	}

	criteria, err := opts.criteria()
	if err != nil {
		logger.ErrorContext(ctx, "Invalid selection", slog.String("error", err.Error()))
		return exitUsage
	}
	locale := domain.LocaleEnglish
	if strings.EqualFold(opts.lang, string(domain.LocaleIndonesian)) {
		locale = domain.LocaleIndonesian
	}

	loader := dataset.NewLoader(dataset.Options{
		Path:       paths.DatasetFile,
		DateLayout: cfg.Dataset.DateLayout,
		Sheet:      cfg.Dataset.Sheet,
	}, logger)
	svc := services.NewDashboardService(loader, exporter.NewViewExporter(paths, logger), nil, nil, logger)

	start := time.Now()
	summary, err := svc.Summary(ctx, criteria, locale)
	if err != nil {
		logger.ErrorContext(ctx, "Derivation failed",
			slog.String("criteria", criteria.String()),
			slog.String("error", err.Error()))
		if apierrors.IsDataUnavailable(err) {
			return exitUnavailable
		}
		return exitFailure
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		logger.ErrorContext(ctx, "Failed to write summary", slog.String("error", err.Error()))
		return exitFailure
	}

	if opts.format != "" {
		format, err := exporter.ParseFormat(opts.format)
		if err != nil {
			logger.ErrorContext(ctx, "Invalid export format", slog.String("error", err.Error()))
			return exitUsage
		}
		if err := validation.NewFileValidator(logger).ValidateOutputDirectory(paths.ExportDir); err != nil {
			return exitFailure
		}
		path, err := svc.ExportFile(ctx, criteria, format, opts.name, locale)
		if err != nil {
			logger.ErrorContext(ctx, "Export failed", slog.String("error", err.Error()))
			return exitFailure
		}
		logger.InfoContext(ctx, "Export written", slog.String("file", filepath.Base(path)))
	}

	logger.InfoContext(ctx, "Derivation completed",
		slog.String("criteria", summary.Criteria),
		slog.Int("records", summary.Totals.Records),
		slog.Duration("duration", time.Since(start)))
	return exitOK
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("derive", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{
		lists: make(map[string]*string, len(criteriaFlags)),
		set:   make(map[string]bool),
	}
	fs.StringVar(&opts.data, "data", "", "dataset file, CSV or XLSX (defaults to the configured dataset)")
	fs.StringVar(&opts.exportDir, "export-dir", "", "directory for exported files (defaults to the configured export dir)")
	fs.StringVar(&opts.format, "format", "", "also export the selection: csv | xlsx")
	fs.StringVar(&opts.name, "name", "", "export file name without extension")
	fs.StringVar(&opts.lang, "lang", "en", "label language: en | id")
	fs.StringVar(&opts.start, "start", "", "first date, YYYY-MM-DD")
	fs.StringVar(&opts.end, "end", "", "last date, YYYY-MM-DD")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")
	for _, name := range criteriaFlags {
		opts.lists[name] = fs.String(name, "", "comma separated "+name+" codes")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// criteria builds the selection. Unknown codes pass through so the
// pipeline reports them.
func (o *options) criteria() (domain.FilterCriteria, error) {
	var c domain.FilterCriteria
	var err error

	if c.Years, err = listFlag(o, "year", domain.ParseYear); err != nil {
		return c, err
	}
	if c.Seasons, err = listFlag(o, "season", code[domain.Season]); err != nil {
		return c, err
	}
	if c.Months, err = listFlag(o, "month", code[domain.Month]); err != nil {
		return c, err
	}
	if c.Weathers, err = listFlag(o, "weather", code[domain.Weather]); err != nil {
		return c, err
	}
	if c.WorkingDays, err = listFlag(o, "working_day", strconv.ParseBool); err != nil {
		return c, err
	}
	if c.StartDate, err = dateFlag("start", o.start); err != nil {
		return c, err
	}
	if c.EndDate, err = dateFlag("end", o.end); err != nil {
		return c, err
	}
	return c, nil
}

func listFlag[T any](o *options, name string, parse func(string) (T, error)) ([]T, error) {
	if !o.set[name] {
		return nil, nil
	}
	out := []T{}
	for _, item := range strings.Split(*o.lists[name], ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		v, err := parse(item)
		if err != nil {
			return nil, fmt.Errorf("-%s: invalid value %q", name, item)
		}
		out = append(out, v)
	}
	return out, nil
}

func code[T ~int](s string) (T, error) {
	n, err := strconv.Atoi(s)
	return T(n), err
}

func dateFlag(name, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("-%s must be a date in YYYY-MM-DD form", name)
	}
	return &t, nil
}
