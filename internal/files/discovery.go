package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned by Resolve for names that are not saved exports.
var ErrNotFound = errors.New("export file not found")

// exportFormats maps file extensions to export format names.
var exportFormats = map[string]string{
	".csv":  "csv",
	".xlsx": "xlsx",
}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string    `json:"-"`
	Name    string    `json:"name"`
	Format  string    `json:"format"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modified"`
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindExports returns the saved exports, newest first. A missing export
// directory yields an empty list.
func (d *Discovery) FindExports() ([]FileInfo, error) {
	entries, err := os.ReadDir(d.basePath)
	if errors.Is(err, os.ErrNotExist) {
		return []FileInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.basePath, err)
	}

	files := []FileInfo{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		name := entry.Name()
		format, ok := exportFormats[strings.ToLower(filepath.Ext(name))]
		if !ok || strings.HasPrefix(name, ".") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(d.basePath, name),
			Name:    name,
			Format:  format,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].Name < files[j].Name
		}
		return files[i].ModTime.After(files[j].ModTime)
	})

	return files, nil
}

// Resolve returns the saved export called name. Anything that is not a
// bare file name of a listed export yields ErrNotFound.
func (d *Discovery) Resolve(name string) (FileInfo, error) {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return FileInfo{}, ErrNotFound
	}
	if _, ok := exportFormats[strings.ToLower(filepath.Ext(name))]; !ok {
		return FileInfo{}, ErrNotFound
	}

	path := filepath.Join(d.basePath, name)
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return FileInfo{}, ErrNotFound
	}
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return FileInfo{}, ErrNotFound
	}

	return FileInfo{
		Path:    path,
		Name:    name,
		Format:  exportFormats[strings.ToLower(filepath.Ext(name))],
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}

	return latest, true
}
