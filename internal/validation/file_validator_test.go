package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferdiansakti/proyek-analisis-data/internal/shared/testutil"
)

func TestFileValidator_ValidateDatasetFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "csv dataset",
			setupFunc: func(t *testing.T) string {
				return testutil.WriteHourCSV(t, t.TempDir(), "hour.csv", testutil.SampleRecords())
			},
		},
		{
			name: "upper case xlsx extension",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "day.XLSX")
				require.NoError(t, os.WriteFile(path, []byte("PK"), 0644))
				return path
			},
		},
		{
			name: "unsupported extension",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "hour.json")
				require.NoError(t, os.WriteFile(path, []byte("[]"), 0644))
				return path
			},
			wantErr:       true,
			errorContains: "not a CSV or Excel file",
		},
		{
			name: "excel lock file",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "~$hour.xlsx")
				require.NoError(t, os.WriteFile(path, []byte("lock"), 0644))
				return path
			},
			wantErr:       true,
			errorContains: "temporary Excel file",
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "hour.csv")
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "empty file",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "hour.csv")
				require.NoError(t, os.WriteFile(path, nil, 0644))
				return path
			},
			wantErr:       true,
			errorContains: "is empty",
		},
		{
			name: "directory named like a dataset",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "hour.csv")
				require.NoError(t, os.Mkdir(path, 0755))
				return path
			},
			wantErr:       true,
			errorContains: "is a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			validator := NewFileValidator(logger)

			err := validator.ValidateDatasetFile(tt.setupFunc(t))

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	t.Run("creates nested directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "exports", "2012")
		validator := NewFileValidator(nil)

		require.NoError(t, validator.ValidateOutputDirectory(dir))
		assert.DirExists(t, dir)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "write probe must be removed")
	})

	t.Run("empty path", func(t *testing.T) {
		err := NewFileValidator(nil).ValidateOutputDirectory("")
		assert.Error(t, err)
	})

	t.Run("path is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "exports")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		err := NewFileValidator(nil).ValidateOutputDirectory(file)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create output directory")
	})
}
