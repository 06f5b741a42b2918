package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved absolute paths used by the application.
type Paths struct {
	BaseDir     string
	DataDir     string
	ExportDir   string
	LogsDir     string
	DatasetFile string
}

// GetPaths resolves every configured directory against Paths.BaseDir.
func (c *Config) GetPaths() *Paths {
	base := c.Paths.BaseDir
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	dataDir := resolve(c.Paths.DataDir)
	dataset := c.Dataset.File
	if !filepath.IsAbs(dataset) {
		dataset = filepath.Join(dataDir, dataset)
	}

	return &Paths{
		BaseDir:     base,
		DataDir:     dataDir,
		ExportDir:   resolve(c.Paths.ExportDir),
		LogsDir:     resolve(c.Paths.LogsDir),
		DatasetFile: dataset,
	}
}

// EnsureDirectories creates the writable directories if they don't exist.
// The data directory is read-only input and is never created.
func (p *Paths) EnsureDirectories() error {
	logger := slog.Default()
	for _, dir := range []string{p.ExportDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
