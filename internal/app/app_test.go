package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferdiansakti/proyek-analisis-data/internal/config"
	apierrors "github.com/ferdiansakti/proyek-analisis-data/internal/errors"
	"github.com/ferdiansakti/proyek-analisis-data/internal/shared/testutil"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.BaseDir = dir
	cfg.Dataset.Watch = false
	cfg.Security.RateLimit.Enabled = false
	cfg.Server.Port = 0
	return cfg
}

func newTestApp(t *testing.T) *Application {
	t.Helper()

	cfg := testConfig(t)
	dataDir := filepath.Join(cfg.Paths.BaseDir, cfg.Paths.DataDir)
	require.NoError(t, os.MkdirAll(dataDir, 0755))
	testutil.WriteHourCSV(t, dataDir, cfg.Dataset.File, testutil.SampleRecords())

	logger, _ := testutil.NewTestLogger(t)
	app, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = app.OTelProviders.Shutdown(context.Background())
	})
	return app
}

func TestNew(t *testing.T) {
	app := newTestApp(t)

	assert.NotNil(t, app.Router)
	assert.NotNil(t, app.Server)
	assert.NotNil(t, app.Dashboard)
	assert.NotNil(t, app.HealthService)
	assert.Equal(t, ":0", app.Server.Addr)
	assert.Equal(t, app.Config.Server.MaxHeaderBytes, app.Server.MaxHeaderBytes)
	assert.DirExists(t, app.Paths.ExportDir)
	assert.DirExists(t, app.Paths.LogsDir)
}

func TestNew_DatasetUnavailable(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dataDir string)
	}{
		{
			name:  "missing file",
			setup: func(t *testing.T, dataDir string) {},
		},
		{
			name: "missing column",
			setup: func(t *testing.T, dataDir string) {
				testutil.WriteCSVRows(t, dataDir, "hour.csv", [][]string{
					{"instant", "dteday", "season"},
					{"1", "2011-01-01", "1"},
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			dataDir := filepath.Join(cfg.Paths.BaseDir, cfg.Paths.DataDir)
			require.NoError(t, os.MkdirAll(dataDir, 0755))
			tt.setup(t, dataDir)

			logger, _ := testutil.NewTestLogger(t)
			app, err := New(context.Background(), cfg, logger)
			require.Error(t, err)
			assert.Nil(t, app)
			assert.True(t, apierrors.IsDataUnavailable(err), "got %v", err)
		})
	}
}

func TestApplication_Routes(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.Router)
	defer srv.Close()

	tests := []struct {
		name        string
		method      string
		path        string
		wantStatus  int
		wantType    string
		wantContain string
	}{
		{name: "health", method: http.MethodGet, path: "/api/v1/health", wantStatus: http.StatusOK, wantContain: `"status":"ok"`},
		{name: "liveness", method: http.MethodGet, path: "/api/v1/health/live", wantStatus: http.StatusOK, wantContain: "alive"},
		{name: "version", method: http.MethodGet, path: "/api/v1/version", wantStatus: http.StatusOK, wantContain: "go_version"},
		{name: "dataset", method: http.MethodGet, path: "/api/v1/dataset?limit=2", wantStatus: http.StatusOK, wantContain: `"count":2`},
		{name: "labels in Indonesian", method: http.MethodGet, path: "/api/v1/labels?lang=id", wantStatus: http.StatusOK, wantContain: "Cerah"},
		{name: "view filtered by year code", method: http.MethodGet, path: "/api/v1/view?year=1", wantStatus: http.StatusOK, wantContain: `"count":3`},
		{name: "aggregate by season", method: http.MethodGet, path: "/api/v1/aggregate?by=season", wantStatus: http.StatusOK, wantContain: `"status":"success"`},
		{name: "aggregate over empty selection", method: http.MethodGet, path: "/api/v1/aggregate?by=season&season=", wantStatus: http.StatusUnprocessableEntity, wantType: apierrors.TypeDerivation},
		{name: "malformed date", method: http.MethodGet, path: "/api/v1/view?start=01-01-2011", wantStatus: http.StatusBadRequest, wantType: apierrors.TypeValidation},
		{name: "rfm", method: http.MethodGet, path: "/api/v1/rfm", wantStatus: http.StatusOK},
		{name: "csv download", method: http.MethodGet, path: "/api/v1/export?format=csv&name=q3", wantStatus: http.StatusOK, wantContain: "dteday"},
		{name: "unknown route", method: http.MethodGet, path: "/api/v1/nope", wantStatus: http.StatusNotFound, wantType: apierrors.TypeNotFound},
		{name: "wrong method", method: http.MethodDelete, path: "/api/v1/view", wantStatus: http.StatusMethodNotAllowed, wantType: apierrors.TypeMethodNotAllowed},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK, wantContain: "go_goroutines"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode, string(body))
			assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
			if tt.wantContain != "" {
				assert.Contains(t, string(body), tt.wantContain)
			}
			if tt.wantType != "" {
				var problem map[string]interface{}
				require.NoError(t, json.Unmarshal(body, &problem))
				assert.Equal(t, tt.wantType, problem["type"])
				assert.Equal(t, float64(tt.wantStatus), problem["status"])
			}
		})
	}
}

func TestApplication_ExportSavedToExportDir(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.Router)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/v1/export?format=xlsx&name=winter&season=1", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.FileExists(t, filepath.Join(app.Paths.ExportDir, "winter.xlsx"))

	list, err := http.Get(srv.URL + "/api/v1/exports")
	require.NoError(t, err)
	defer list.Body.Close()
	body, err := io.ReadAll(list.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, list.StatusCode)
	assert.Contains(t, string(body), `"name":"winter.xlsx"`)

	saved, err := http.Get(srv.URL + "/api/v1/exports/winter.xlsx")
	require.NoError(t, err)
	defer saved.Body.Close()
	assert.Equal(t, http.StatusOK, saved.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", saved.Header.Get("Content-Type"))
}

func TestApplication_RequestIDPropagates(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/aggregate?by=season&season=", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
	assert.True(t, strings.Contains(rec.Body.String(), "req-42"), rec.Body.String())
}

func TestApplication_RunStopsOnCancel(t *testing.T) {
	app := newTestApp(t)
	app.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
