package services

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/ferdiansakti/proyek-analisis-data/internal/dataset"
	"github.com/ferdiansakti/proyek-analisis-data/internal/exporter"
	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts/domain"
)

// MockRecordSource is a mock for the RecordSource interface
type MockRecordSource struct {
	mock.Mock
}

func (m *MockRecordSource) Load(ctx context.Context) (*dataset.RecordSet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dataset.RecordSet), args.Error(1)
}

func (m *MockRecordSource) Stale() bool {
	return m.Called().Bool(0)
}

// MockViewExporter is a mock for the ViewExporter interface
type MockViewExporter struct {
	mock.Mock
}

func (m *MockViewExporter) Export(ctx context.Context, w io.Writer, view *domain.FilteredView, format exporter.Format, l domain.Locale) error {
	return m.Called(ctx, w, view, format, l).Error(0)
}

func (m *MockViewExporter) ExportFile(ctx context.Context, view *domain.FilteredView, format exporter.Format, name string, l domain.Locale) (string, error) {
	args := m.Called(ctx, view, format, name, l)
	return args.String(0), args.Error(1)
}
