package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/ferdiansakti/proyek-analisis-data/internal/dataprocessing"
	"github.com/ferdiansakti/proyek-analisis-data/internal/dataset"
	apperrors "github.com/ferdiansakti/proyek-analisis-data/internal/errors"
	"github.com/ferdiansakti/proyek-analisis-data/internal/exporter"
	"github.com/ferdiansakti/proyek-analisis-data/internal/infrastructure"
	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts/domain"
)

// Row limits for previews and views.
const (
	DefaultHeadRows = 5
	DefaultViewRows = 100
	MaxViewRows     = 20000
)

// RecordSource provides the memoized record set.
type RecordSource interface {
	Load(ctx context.Context) (*dataset.RecordSet, error)
	Stale() bool
}

// ViewExporter writes a filtered view in a file format.
type ViewExporter interface {
	Export(ctx context.Context, w io.Writer, view *domain.FilteredView, format exporter.Format, l domain.Locale) error
	ExportFile(ctx context.Context, view *domain.FilteredView, format exporter.Format, name string, l domain.Locale) (string, error)
}

// DatasetOverview is the shape and head of the loaded record set.
type DatasetOverview struct {
	Info domain.DatasetInfo `json:"info"`
	Head []domain.Record    `json:"head"`
}

// ViewResult is a possibly truncated filtered view.
type ViewResult struct {
	Criteria  string                 `json:"criteria"`
	Matched   int                    `json:"matched"`
	Returned  int                    `json:"returned"`
	Records   []domain.Record        `json:"records"`
	Bins      []domain.BinAssignment `json:"bins"`
	Edges     domain.BinEdges        `json:"edges"`
	Totals    *domain.Totals         `json:"totals,omitempty"`
	UserShare *domain.UserShare      `json:"user_share,omitempty"`
}

// Trends holds the canned series of the dashboard. ByHour is nil for
// daily data.
type Trends struct {
	ByHour    *domain.AggregateTable `json:"by_hour,omitempty"`
	ByWeekday *domain.AggregateTable `json:"by_weekday"`
	ByMonth   *domain.AggregateTable `json:"by_month"`
	BySeason  *domain.AggregateTable `json:"by_season"`
}

// Summary bundles the headline figures of a selection.
type Summary struct {
	Criteria  string                `json:"criteria"`
	Totals    domain.Totals         `json:"totals"`
	UserShare domain.UserShare      `json:"user_share"`
	Describe  []domain.FieldSummary `json:"describe"`
	RFM       *domain.RFMResult     `json:"rfm"`
}

// DatasetStatus reports the state of the cached record set.
type DatasetStatus struct {
	Loaded   bool      `json:"loaded"`
	Source   string    `json:"source,omitempty"`
	Records  int       `json:"records"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
	Stale    bool      `json:"stale"`
	Error    string    `json:"error,omitempty"`
}

// DashboardService runs the filter and derivation pipeline over the
// loaded record set.
type DashboardService struct {
	source   RecordSource
	exporter ViewExporter
	tracer   trace.Tracer
	metrics  *infrastructure.PipelineMetrics
	logger   *slog.Logger
}

// NewDashboardService creates a dashboard service. tracer, metrics and
// logger may be nil.
func NewDashboardService(source RecordSource, exp ViewExporter, tracer trace.Tracer, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("dashboard")
	}

	logger.Info("DashboardService initialized")

	return &DashboardService{
		source:   source,
		exporter: exp,
		tracer:   tracer,
		metrics:  metrics,
		logger:   logger.With(slog.String("service", "dashboard")),
	}
}

// Dataset returns the shape of the record set and its first limit rows.
func (s *DashboardService) Dataset(ctx context.Context, limit int) (*DatasetOverview, error) {
	limit, err := rowLimit(limit, DefaultHeadRows)
	if err != nil {
		return nil, err
	}
	set, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return &DatasetOverview{Info: set.Info, Head: head(set.Records, limit)}, nil
}

// Labels returns the static label tables in l.
func (s *DashboardService) Labels(l domain.Locale) dataprocessing.LabelSet {
	return dataprocessing.Labels(l)
}

// View filters the record set and returns at most limit records. Totals
// are included when the selection is not empty.
func (s *DashboardService) View(ctx context.Context, criteria domain.FilterCriteria, limit int) (*ViewResult, error) {
	limit, err := rowLimit(limit, DefaultViewRows)
	if err != nil {
		return nil, err
	}
	view, err := s.apply(ctx, criteria)
	if err != nil {
		return nil, err
	}

	n := min(limit, view.Len())
	result := &ViewResult{
		Criteria: criteria.String(),
		Matched:  view.Len(),
		Returned: n,
		Records:  view.Records[:n],
		Bins:     view.Bins[:n],
		Edges:    view.Edges,
	}
	if view.Len() > 0 {
		if totals, err := dataprocessing.Totals(view.Records); err == nil {
			result.Totals = &totals
		}
		if share, err := dataprocessing.UserShare(view.Records); err == nil {
			result.UserShare = &share
		}
	}
	return result, nil
}

// Aggregate groups the selection and reduces the requested metrics.
func (s *DashboardService) Aggregate(ctx context.Context, criteria domain.FilterCriteria, req domain.AggregateRequest, l domain.Locale) (*domain.AggregateTable, error) {
	view, err := s.apply(ctx, criteria)
	if err != nil {
		return nil, err
	}

	var table *domain.AggregateTable
	err = s.derive(ctx, "aggregate", func(context.Context) error {
		table, err = dataprocessing.Aggregate(view, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	dataprocessing.LabelTable(table, l)
	return table, nil
}

// Trends computes mean casual and registered riders by hour, weekday and
// month, and the total by season.
func (s *DashboardService) Trends(ctx context.Context, criteria domain.FilterCriteria, l domain.Locale) (*Trends, error) {
	view, err := s.apply(ctx, criteria)
	if err != nil {
		return nil, err
	}

	riders := func(dim domain.Dimension) domain.AggregateRequest {
		return domain.AggregateRequest{
			GroupBy: dim,
			Metrics: []domain.Metric{domain.MetricCasual, domain.MetricRegistered},
			Ops:     []domain.AggregateOp{domain.OpMean},
		}
	}
	seasonal := domain.AggregateRequest{
		GroupBy: domain.DimSeason,
		Metrics: []domain.Metric{domain.MetricTotal},
		Ops:     []domain.AggregateOp{domain.OpSum, domain.OpMean},
	}

	trends := &Trends{}
	err = s.derive(ctx, "trends", func(context.Context) error {
		var err error
		if trends.ByWeekday, err = dataprocessing.Aggregate(view, riders(domain.DimWeekday)); err != nil {
			return err
		}
		if trends.ByMonth, err = dataprocessing.Aggregate(view, riders(domain.DimMonth)); err != nil {
			return err
		}
		if trends.BySeason, err = dataprocessing.Aggregate(view, seasonal); err != nil {
			return err
		}
		// Daily files carry no hour column.
		if byHour, err := dataprocessing.Aggregate(view, riders(domain.DimHour)); err == nil {
			trends.ByHour = byHour
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, t := range []*domain.AggregateTable{trends.ByHour, trends.ByWeekday, trends.ByMonth, trends.BySeason} {
		if t != nil {
			dataprocessing.LabelTable(t, l)
		}
	}
	return trends, nil
}

// Describe returns descriptive statistics of fields over the selection.
func (s *DashboardService) Describe(ctx context.Context, criteria domain.FilterCriteria, fields []domain.Metric) ([]domain.FieldSummary, error) {
	view, err := s.apply(ctx, criteria)
	if err != nil {
		return nil, err
	}

	var out []domain.FieldSummary
	err = s.derive(ctx, "describe", func(context.Context) error {
		out, err = dataprocessing.Describe(view.Records, fields)
		return err
	})
	return out, err
}

// ValueCounts counts the selection per value of dim.
func (s *DashboardService) ValueCounts(ctx context.Context, criteria domain.FilterCriteria, dim domain.Dimension, l domain.Locale) ([]domain.ValueCount, error) {
	view, err := s.apply(ctx, criteria)
	if err != nil {
		return nil, err
	}

	var out []domain.ValueCount
	err = s.derive(ctx, "value_counts", func(context.Context) error {
		out, err = dataprocessing.ValueCounts(view, dim)
		return err
	})
	if err != nil {
		return nil, err
	}
	dataprocessing.LabelCounts(out, dim, l)
	return out, nil
}

// Distribution returns box-plot statistics of metric per bin of field.
func (s *DashboardService) Distribution(ctx context.Context, criteria domain.FilterCriteria, field domain.BinField, metric domain.Metric, l domain.Locale) ([]domain.BoxStats, error) {
	view, err := s.apply(ctx, criteria)
	if err != nil {
		return nil, err
	}

	var out []domain.BoxStats
	err = s.derive(ctx, "distribution", func(context.Context) error {
		out, err = dataprocessing.Distribution(view, field, metric)
		return err
	})
	if err != nil {
		return nil, err
	}
	dataprocessing.LabelBoxes(out, field, l)
	return out, nil
}

// RFM scores the groups of the selection.
func (s *DashboardService) RFM(ctx context.Context, criteria domain.FilterCriteria, groupBy domain.Dimension, l domain.Locale) (*domain.RFMResult, error) {
	view, err := s.apply(ctx, criteria)
	if err != nil {
		return nil, err
	}

	var out *domain.RFMResult
	err = s.derive(ctx, "rfm", func(context.Context) error {
		out, err = dataprocessing.RFM(view, groupBy)
		return err
	})
	if err != nil {
		return nil, err
	}
	dataprocessing.LabelRFM(out, l)
	return out, nil
}

// Summary computes totals, user share, describe and the default RFM of
// the selection.
func (s *DashboardService) Summary(ctx context.Context, criteria domain.FilterCriteria, l domain.Locale) (*Summary, error) {
	view, err := s.apply(ctx, criteria)
	if err != nil {
		return nil, err
	}

	out := &Summary{Criteria: criteria.String()}
	err = s.derive(ctx, "summary", func(context.Context) error {
		var err error
		if out.Totals, err = dataprocessing.Totals(view.Records); err != nil {
			return err
		}
		if out.UserShare, err = dataprocessing.UserShare(view.Records); err != nil {
			return err
		}
		if out.Describe, err = dataprocessing.Describe(view.Records, nil); err != nil {
			return err
		}
		out.RFM, err = dataprocessing.RFM(view, dataprocessing.DefaultRFMGroup)
		return err
	})
	if err != nil {
		return nil, err
	}
	dataprocessing.LabelRFM(out.RFM, l)
	return out, nil
}

// Export writes the selection to w.
func (s *DashboardService) Export(ctx context.Context, w io.Writer, criteria domain.FilterCriteria, format exporter.Format, l domain.Locale) error {
	if s.exporter == nil {
		return ErrServiceUnavailable
	}
	view, err := s.apply(ctx, criteria)
	if err != nil {
		return err
	}

	ctx, span := s.tracer.Start(ctx, "dashboard.export",
		trace.WithAttributes(attribute.String("format", string(format))))
	defer span.End()

	if err := s.exporter.Export(ctx, w, view, format, l); err != nil {
		infrastructure.RecordError(ctx, err)
		return err
	}
	return nil
}

// ExportFile saves the selection under the export directory.
func (s *DashboardService) ExportFile(ctx context.Context, criteria domain.FilterCriteria, format exporter.Format, name string, l domain.Locale) (string, error) {
	if s.exporter == nil {
		return "", ErrServiceUnavailable
	}
	view, err := s.apply(ctx, criteria)
	if err != nil {
		return "", err
	}
	return s.exporter.ExportFile(ctx, view, format, name, l)
}

// Status reports whether the record set is loaded and up to date.
func (s *DashboardService) Status(ctx context.Context) DatasetStatus {
	set, err := s.source.Load(ctx)
	if err != nil {
		return DatasetStatus{Error: err.Error()}
	}
	return DatasetStatus{
		Loaded:   true,
		Source:   set.Info.Source,
		Records:  set.Info.Rows,
		LoadedAt: set.Info.LoadedAt,
		Stale:    s.source.Stale(),
	}
}

func (s *DashboardService) load(ctx context.Context) (*dataset.RecordSet, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.load")
	defer span.End()

	set, err := s.source.Load(ctx)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("records", len(set.Records)))
	return set, nil
}

func (s *DashboardService) apply(ctx context.Context, criteria domain.FilterCriteria) (*domain.FilteredView, error) {
	set, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var view *domain.FilteredView
	err = s.derive(ctx, "apply", func(ctx context.Context) error {
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("criteria", criteria.String()))
		view, err = dataprocessing.Apply(set.Records, criteria)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordView(ctx, view.Len())
	return view, nil
}

// derive runs fn inside a span named after op and records its outcome.
func (s *DashboardService) derive(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "dashboard."+op)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	s.metrics.RecordDerivation(ctx, op, time.Since(start), err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "derivation failed",
			slog.String("operation", op),
			slog.String("aggregate", apperrors.AggregateOf(err)),
			slog.String("error", err.Error()))
		return err
	}

	s.logger.DebugContext(ctx, "derivation completed",
		slog.String("operation", op),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func rowLimit(limit, def int) (int, error) {
	switch {
	case limit < 0:
		return 0, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	case limit == 0:
		return def, nil
	case limit > MaxViewRows:
		return MaxViewRows, nil
	}
	return limit, nil
}

func head(records []domain.Record, n int) []domain.Record {
	return records[:min(n, len(records))]
}
