package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	base := t.TempDir()
	t.Setenv("BIKE_PATHS_BASE_DIR", base)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 20*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "hour.csv", cfg.Dataset.File)
	assert.Equal(t, "2006-01-02", cfg.Dataset.DateLayout)
	assert.True(t, cfg.Dataset.Watch)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, base, cfg.Paths.BaseDir)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BIKE_PATHS_BASE_DIR", t.TempDir())
	t.Setenv("BIKE_SERVER_PORT", "9090")
	t.Setenv("BIKE_SECURITY_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("BIKE_SECURITY_RATE_LIMIT_RPS", "5")
	t.Setenv("BIKE_DATASET_FILE", "day.xlsx")
	t.Setenv("BIKE_DATASET_WATCH", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, 5.0, cfg.Security.RateLimit.RPS)
	assert.Equal(t, "day.xlsx", cfg.Dataset.File)
	assert.False(t, cfg.Dataset.Watch)
}

func TestLoad_FilePrecedence(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 7000
  request_timeout: 5s
logging:
  level: debug
dataset:
  file: day.csv
  sheet: Sheet1
`)
	t.Setenv("BIKE_CONFIG_FILE", path)
	t.Setenv("BIKE_PATHS_BASE_DIR", t.TempDir())
	t.Setenv("BIKE_SERVER_PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port, "explicit env wins over the file")
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "day.csv", cfg.Dataset.File)
	assert.Equal(t, "Sheet1", cfg.Dataset.Sheet)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name          string
		env           map[string]string
		file          string
		errorContains string
	}{
		{
			name:          "unknown log level",
			env:           map[string]string{"BIKE_LOGGING_LEVEL": "verbose"},
			errorContains: "invalid log level",
		},
		{
			name:          "sample rate out of range",
			env:           map[string]string{"BIKE_TELEMETRY_SAMPLE_RATE": "2"},
			errorContains: "sample rate",
		},
		{
			name:          "port out of range",
			env:           map[string]string{"BIKE_SERVER_PORT": "70000"},
			errorContains: "invalid server port",
		},
		{
			name:          "malformed env value",
			env:           map[string]string{"BIKE_SERVER_READ_TIMEOUT": "soon"},
			errorContains: "from env",
		},
		{
			name:          "malformed file",
			file:          "server: [port",
			errorContains: "from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BIKE_PATHS_BASE_DIR", t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.file != "" {
				t.Setenv("BIKE_CONFIG_FILE", writeConfigFile(t, tt.file))
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestGetPaths(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "srv", "bikepulse")
	absDataset := filepath.Join(string(filepath.Separator), "mnt", "day.csv")

	tests := []struct {
		name        string
		dataset     string
		exportDir   string
		wantDataset string
		wantExport  string
	}{
		{
			name:        "relative paths resolve against base",
			dataset:     "hour.csv",
			exportDir:   "exports",
			wantDataset: filepath.Join(base, "data", "hour.csv"),
			wantExport:  filepath.Join(base, "exports"),
		},
		{
			name:        "absolute paths are kept",
			dataset:     absDataset,
			exportDir:   filepath.Join(string(filepath.Separator), "tmp", "out"),
			wantDataset: absDataset,
			wantExport:  filepath.Join(string(filepath.Separator), "tmp", "out"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Paths.BaseDir = base
			cfg.Paths.ExportDir = tt.exportDir
			cfg.Dataset.File = tt.dataset

			paths := cfg.GetPaths()
			assert.Equal(t, tt.wantDataset, paths.DatasetFile)
			assert.Equal(t, tt.wantExport, paths.ExportDir)
			assert.Equal(t, filepath.Join(base, "logs"), paths.LogsDir)
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	cfg := Default()
	cfg.Paths.BaseDir = t.TempDir()
	paths := cfg.GetPaths()

	require.NoError(t, paths.EnsureDirectories())

	assert.DirExists(t, paths.ExportDir)
	assert.DirExists(t, paths.LogsDir)
	assert.NoDirExists(t, paths.DataDir, "data directory is input only")
	assert.False(t, FileExists(paths.DatasetFile))
}
