package dataset

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "github.com/ferdiansakti/proyek-analisis-data/internal/errors"
	"github.com/ferdiansakti/proyek-analisis-data/internal/shared/testutil"
	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts/domain"
)

func TestLoader_LoadCSV(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	path := testutil.WriteHourCSV(t, t.TempDir(), "hour.csv", testutil.SampleRecords())

	l := NewLoader(Options{Path: path}, logger)
	set, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, set.Records, 8)
	assert.True(t, set.Info.HasHour)
	assert.Equal(t, "hour.csv", set.Info.Source)
	assert.Equal(t, testutil.Date("2011-01-01"), set.Info.From)
	assert.Equal(t, testutil.Date("2012-07-05"), set.Info.To)
	assert.Equal(t, ColInstant, set.Info.Columns[0])

	first := set.Records[0]
	assert.Equal(t, 2011, first.Year)
	assert.Equal(t, 16, first.Total)
	assert.Equal(t, domain.SeasonSpring, first.Season)

	last := set.Records[7]
	assert.Equal(t, 2012, last.Year)
	assert.Equal(t, 8, last.Hour)
	assert.Equal(t, domain.WeatherMist, last.Weather)

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "dataset loaded")
	testutil.AssertLogAttr(t, handler, "rows", int64(8))
	testutil.AssertNoErrors(t, handler)
}

func TestLoader_Memoized(t *testing.T) {
	path := testutil.WriteHourCSV(t, t.TempDir(), "hour.csv", testutil.SampleRecords())
	l := NewLoader(Options{Path: path}, nil)

	var wg sync.WaitGroup
	sets := make([]*RecordSet, 8)
	for i := range sets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			set, err := l.Load(context.Background())
			assert.NoError(t, err)
			sets[i] = set
		}(i)
	}
	wg.Wait()

	for _, s := range sets[1:] {
		assert.Same(t, sets[0], s)
	}
}

func TestLoader_FailureIsMemoized(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hour.csv")
	logger, handler := testutil.NewTestLogger(t)
	l := NewLoader(Options{Path: path}, logger)

	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsDataUnavailable(err))
	require.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
	testutil.AssertLogAttr(t, handler, "path", path)
	handler.Clear()

	// Creating the file afterwards does not change the outcome.
	testutil.WriteHourCSV(t, dir, "hour.csv", testutil.SampleRecords())
	_, again := l.Load(context.Background())
	assert.Same(t, err, again)
	assert.Zero(t, handler.Count(), "a memoized failure is logged once")
}

func TestLoader_Errors(t *testing.T) {
	header := testutil.HourCSVHeader
	good := testutil.CSVRow(testutil.HourRecord("2011-01-01", 0, 3, 13))

	withCell := func(col string, v string) []string {
		row := append([]string(nil), good...)
		for i, h := range header {
			if h == col {
				row[i] = v
			}
		}
		return row
	}

	tests := []struct {
		name string
		rows [][]string
	}{
		{"empty file", nil},
		{"header only", [][]string{header}},
		{"missing column", [][]string{header[:len(header)-1], good[:len(good)-1]}},
		{"bad number", [][]string{header, withCell(ColCasual, "x")}},
		{"bad date", [][]string{header, withCell(ColDate, "yesterday")}},
		{"unknown season", [][]string{header, withCell(ColSeason, "7")}},
		{"unknown weather", [][]string{header, withCell(ColWeather, "0")}},
		{"total mismatch", [][]string{header, withCell(ColTotal, "17")}},
		{"negative count", [][]string{header, withCell(ColCasual, "-3")}},
		{"infinite temperature", [][]string{header, withCell(ColTemp, "Inf")}},
		{"signed infinity", [][]string{header, withCell(ColATemp, "+infinity")}},
		{"NaN humidity", [][]string{header, withCell(ColHumidity, "NaN")}},
		{"humidity out of range", [][]string{header, withCell(ColHumidity, "7.5")}},
		{"negative windspeed", [][]string{header, withCell(ColWindSpeed, "-0.2")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteCSVRows(t, t.TempDir(), "hour.csv", tt.rows)
			set, err := NewLoader(Options{Path: path}, nil).Load(context.Background())
			require.Error(t, err)
			assert.Nil(t, set)
			assert.True(t, apperrors.IsDataUnavailable(err), "got %v", err)
		})
	}
}

func TestLoader_RowErrorNamesLine(t *testing.T) {
	header := testutil.HourCSVHeader
	good := testutil.CSVRow(testutil.HourRecord("2011-01-01", 0, 3, 13))
	bad := append([]string(nil), good...)
	for i, h := range header {
		if h == ColCasual {
			bad[i] = "x"
		}
	}

	path := testutil.WriteCSVRows(t, t.TempDir(), "hour.csv", [][]string{header, good, bad})
	_, err := NewLoader(Options{Path: path}, nil).Load(context.Background())
	require.Error(t, err)

	var unavailable *apperrors.AppError
	require.ErrorAs(t, err, &unavailable)
	typ, ok := apperrors.TypeOf(unavailable.Unwrap())
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrTypeParsing, typ)
	assert.Contains(t, err.Error(), "line 3")
}

func TestLoader_DailyFile(t *testing.T) {
	rows := [][]string{
		{"\ufeffdteday", "season", "mnth", "weekday", "weathersit", "temp", "atemp", "hum", "windspeed", "casual", "registered", "cnt"},
		{"2011-01-01", "1", "1", "6", "2", "0.34", "0.36", "0.80", "0.16", "331", "654", "985"},
		{"2011-01-03", "1", "1", "1", "1", "0.19", "0.18", "0.43", "0.24", "120", "1229", "1349"},
		{"", "", "", "", "", "", "", "", "", "", "", ""},
	}
	path := testutil.WriteCSVRows(t, t.TempDir(), "day.csv", rows)

	set, err := NewLoader(Options{Path: path}, nil).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, set.Records, 2)
	assert.False(t, set.Info.HasHour)

	// Without yr and workingday they are derived from the date.
	assert.Equal(t, 2011, set.Records[0].Year)
	assert.False(t, set.Records[0].WorkingDay)
	assert.True(t, set.Records[1].WorkingDay)
	assert.False(t, set.Records[1].HasHour)
}

func TestLoader_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hour.xlsx")

	f := excelize.NewFile()
	rows := [][]string{testutil.HourCSVHeader}
	for _, r := range testutil.SampleRecords()[:3] {
		rows = append(rows, testutil.CSVRow(r))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	set, err := NewLoader(Options{Path: path}, nil).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, set.Records, 3)
	assert.Equal(t, 40, set.Records[1].Total)
}

func TestLoader_Canceled(t *testing.T) {
	path := testutil.WriteHourCSV(t, t.TempDir(), "hour.csv", testutil.SampleRecords())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(Options{Path: path}, nil).Load(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsDataUnavailable(err))
}
