package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferdiansakti/proyek-analisis-data/internal/config"
)

func setupTestEnv(t *testing.T) (*CSVWriter, string) {
	t.Helper()
	dir := t.TempDir()
	return NewCSVWriter(&config.Paths{ExportDir: dir}, nil), dir
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWriter_WriteSimpleCSV(t *testing.T) {
	w, dir := setupTestEnv(t)

	err := w.WriteSimpleCSV("out/simple.csv", []string{"a", "b"}, [][]string{{"1", "2"}, {"3", "4"}})
	require.NoError(t, err)

	path := filepath.Join(dir, "out", "simple.csv")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, utf8BOM))
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}, {"3", "4"}}, readCSV(t, path))
}

func TestCSVWriter_AbsolutePath(t *testing.T) {
	w, _ := setupTestEnv(t)
	other := filepath.Join(t.TempDir(), "abs.csv")

	require.NoError(t, w.WriteSimpleCSV(other, []string{"x"}, nil))
	assert.Equal(t, [][]string{{"x"}}, readCSV(t, other))
}

func TestCSVWriter_Overwrites(t *testing.T) {
	w, dir := setupTestEnv(t)

	require.NoError(t, w.WriteSimpleCSV("view.csv", []string{"n"}, [][]string{{"1"}, {"2"}}))
	require.NoError(t, w.WriteSimpleCSV("view.csv", []string{"n"}, [][]string{{"3"}}))

	assert.Equal(t, [][]string{{"n"}, {"3"}}, readCSV(t, filepath.Join(dir, "view.csv")))
}

func TestCSVWriter_WriteTo(t *testing.T) {
	w, _ := setupTestEnv(t)
	var buf bytes.Buffer

	require.NoError(t, w.WriteTo(&buf, WriteOptions{Headers: []string{"h"}, Records: [][]string{{"v,with comma"}}}))
	assert.Equal(t, "h\n\"v,with comma\"\n", buf.String())
}
