package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ferdiansakti/proyek-analisis-data/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitializeOTel_MetricsOnly(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.EnableTracing = false

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer, "a no-op tracer is always available")
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.PrometheusHTTP)
}

func TestInitializeOTel_Disabled(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.EnableMetrics = false

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.PrometheusHTTP)
	assert.NotNil(t, providers.Meter)

	metrics, err := NewPipelineMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordDerivation(context.Background(), "apply", time.Millisecond, nil)
}

func TestInitializeOTel_WithTracing(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.EnableMetrics = false
	cfg.EnableTracing = true
	cfg.TraceWriter = io.Discard

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)

	ctx, span := providers.Tracer.Start(context.Background(), "apply")
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	RecordError(ctx, errors.New("boom"))
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestPipelineMetrics_Exported(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := NewPipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordDerivation(ctx, "apply", 3*time.Millisecond, nil)
	metrics.RecordDerivation(ctx, "aggregate", time.Millisecond, apperrors.NewDerivationError("mean(total) by season", "no records"))
	metrics.RecordLoad(ctx, 17379, 40*time.Millisecond, nil)
	metrics.RecordHTTP(ctx, http.MethodGet, "/api/v1/view", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "bikepulse_derivations_total")
	assert.Contains(t, body, `status="derivation_error"`)
	assert.Contains(t, body, "bikepulse_dataset_records")
	assert.Contains(t, body, "go_goroutines")
}

func TestPipelineMetrics_NilSafe(t *testing.T) {
	var m *PipelineMetrics
	assert.NotPanics(t, func() {
		m.RecordDerivation(context.Background(), "apply", time.Second, nil)
		m.RecordLoad(context.Background(), 1, time.Second, nil)
		m.RecordStale(context.Background(), true)
		m.RecordHTTP(context.Background(), "GET", "/", 200, time.Second)
	})
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, "success", statusOf(nil))
	assert.Equal(t, "derivation_error", statusOf(apperrors.NewDerivationError("rfm", "no records")))
	assert.Equal(t, "data_unavailable", statusOf(apperrors.NewDataUnavailableError("hour.csv", errors.New("missing"))))
	assert.Equal(t, "error", statusOf(errors.New("other")))
}
