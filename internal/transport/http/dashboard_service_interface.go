package http

import (
	"context"
	"io"

	"github.com/ferdiansakti/proyek-analisis-data/internal/dataprocessing"
	"github.com/ferdiansakti/proyek-analisis-data/internal/exporter"
	"github.com/ferdiansakti/proyek-analisis-data/internal/services"
	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts/domain"
)

// DashboardServiceInterface defines the derivation operations served over HTTP
type DashboardServiceInterface interface {
	Dataset(ctx context.Context, limit int) (*services.DatasetOverview, error)
	Labels(l domain.Locale) dataprocessing.LabelSet
	View(ctx context.Context, criteria domain.FilterCriteria, limit int) (*services.ViewResult, error)
	Aggregate(ctx context.Context, criteria domain.FilterCriteria, req domain.AggregateRequest, l domain.Locale) (*domain.AggregateTable, error)
	Trends(ctx context.Context, criteria domain.FilterCriteria, l domain.Locale) (*services.Trends, error)
	Describe(ctx context.Context, criteria domain.FilterCriteria, fields []domain.Metric) ([]domain.FieldSummary, error)
	ValueCounts(ctx context.Context, criteria domain.FilterCriteria, dim domain.Dimension, l domain.Locale) ([]domain.ValueCount, error)
	Distribution(ctx context.Context, criteria domain.FilterCriteria, field domain.BinField, metric domain.Metric, l domain.Locale) ([]domain.BoxStats, error)
	RFM(ctx context.Context, criteria domain.FilterCriteria, groupBy domain.Dimension, l domain.Locale) (*domain.RFMResult, error)
	Summary(ctx context.Context, criteria domain.FilterCriteria, l domain.Locale) (*services.Summary, error)
	Export(ctx context.Context, w io.Writer, criteria domain.FilterCriteria, format exporter.Format, l domain.Locale) error
	ExportFile(ctx context.Context, criteria domain.FilterCriteria, format exporter.Format, name string, l domain.Locale) (string, error)
}
