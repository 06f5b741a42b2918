package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, modTime time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("instant,dteday\n"), 0644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

func TestNewDiscovery(t *testing.T) {
	basePath := "/test/base"
	discovery := NewDiscovery(basePath)

	assert.NotNil(t, discovery)
	assert.Equal(t, basePath, discovery.basePath)
}

func TestFindExports(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		files     []string
		wantNames []string
	}{
		{
			name:      "csv and xlsx newest first",
			files:     []string{"winter.csv", "summer.xlsx", "fall.CSV"},
			wantNames: []string{"fall.CSV", "summer.xlsx", "winter.csv"},
		},
		{
			name:      "other types and hidden files ignored",
			files:     []string{"view.csv", "notes.txt", "legacy.xls", ".write_test_1.csv"},
			wantNames: []string{"view.csv"},
		},
		{
			name:      "empty directory",
			files:     nil,
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for i, name := range tt.files {
				writeFile(t, dir, name, base.Add(time.Duration(i)*time.Minute))
			}
			require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0755))

			found, err := NewDiscovery(dir).FindExports()
			require.NoError(t, err)

			names := make([]string, len(found))
			for i, f := range found {
				names[i] = f.Name
				assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestFindExports_MissingDirectory(t *testing.T) {
	found, err := NewDiscovery(filepath.Join(t.TempDir(), "missing")).FindExports()
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "q3.xlsx", time.Now())
	writeFile(t, dir, "notes.txt", time.Now())
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0755))

	d := NewDiscovery(dir)

	got, err := d.Resolve("q3.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "xlsx", got.Format)
	assert.Equal(t, filepath.Join(dir, "q3.xlsx"), got.Path)

	for _, name := range []string{"", "missing.csv", "notes.txt", "sub.csv", "../q3.xlsx", "a/q3.xlsx", ".."} {
		t.Run(name, func(t *testing.T) {
			_, err := d.Resolve(name)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestGetLatestFile(t *testing.T) {
	now := time.Now()
	files := []FileInfo{
		{Name: "a.csv", ModTime: now.Add(-time.Hour)},
		{Name: "b.csv", ModTime: now},
		{Name: "c.csv", ModTime: now.Add(-2 * time.Hour)},
	}

	latest, ok := GetLatestFile(files)
	require.True(t, ok)
	assert.Equal(t, "b.csv", latest.Name)

	_, ok = GetLatestFile(nil)
	assert.False(t, ok)
}
