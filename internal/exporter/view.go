package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ferdiansakti/proyek-analisis-data/internal/config"
	apperrors "github.com/ferdiansakti/proyek-analisis-data/internal/errors"
	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts/domain"
)

// ViewHeaders are the exported columns: the dataset layout followed by the
// derived labels.
var ViewHeaders = []string{
	"instant", "dteday", "season", "yr", "mnth", "hr", "holiday", "weekday",
	"workingday", "weathersit", "temp", "atemp", "hum", "windspeed",
	"casual", "registered", "cnt",
	"season_label", "weather_label", "temp_bin", "humidity_bin",
	"windspeed_bin", "total_bin", "day_part",
}

// ViewTable flattens view into typed rows in ViewHeaders order. Daily
// records leave hr and day_part empty.
func ViewTable(view *domain.FilteredView, l domain.Locale) [][]any {
	rows := make([][]any, view.Len())
	for i, r := range view.Records {
		b := view.Bins[i]

		var hour, part any
		if r.HasHour {
			hour = r.Hour
		}
		if b.HasDayPart {
			part = b.DayPart.Label(l)
		}

		rows[i] = []any{
			r.Instant, r.Date.Format(time.DateOnly), int(r.Season), r.Year - domain.BaseYear,
			int(r.Month), hour, r.Holiday, int(r.Weekday), r.WorkingDay, int(r.Weather),
			r.Temp, r.ATemp, r.Humidity, r.WindSpeed,
			r.Casual, r.Registered, r.Total,
			r.Season.Label(l), r.Weather.Label(l),
			domain.BinTemp.Label(b.Temp, l),
			domain.BinHumidity.Label(b.Humidity, l),
			domain.BinWindSpeed.Label(b.WindSpeed, l),
			domain.BinTotal.Label(b.Total, l),
			part,
		}
	}
	return rows
}

// ViewExporter writes filtered views in any supported Format.
type ViewExporter struct {
	csv    *CSVWriter
	xlsx   *XLSXWriter
	logger *slog.Logger
}

// NewViewExporter creates an exporter writing files under paths.ExportDir.
func NewViewExporter(paths *config.Paths, logger *slog.Logger) *ViewExporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &ViewExporter{
		csv:    NewCSVWriter(paths, logger),
		xlsx:   NewXLSXWriter(paths, logger),
		logger: logger,
	}
}

// Export encodes view to w. Failures are storage AppErrors.
func (e *ViewExporter) Export(ctx context.Context, w io.Writer, view *domain.FilteredView, format Format, l domain.Locale) error {
	rows := ViewTable(view, l)

	var err error
	switch format {
	case FormatXLSX:
		err = e.xlsx.WriteTo(w, DefaultSheet, ViewHeaders, rows)
	case FormatCSV:
		err = e.csv.WriteTo(w, WriteOptions{Headers: ViewHeaders, Records: stringRows(rows), BOMPrefix: true})
	default:
		err = fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return apperrors.NewStorageError("export failed", err).WithContext("format", string(format))
	}

	e.logger.InfoContext(ctx, "view exported",
		slog.String("format", string(format)),
		slog.Int("rows", len(rows)))
	return nil
}

// ExportFile saves view as name plus the format extension under the
// export directory and returns the written path.
func (e *ViewExporter) ExportFile(ctx context.Context, view *domain.FilteredView, format Format, name string, l domain.Locale) (string, error) {
	if name == "" {
		name = "view_" + time.Now().Format("20060102_150405")
	}
	file := name + format.Extension()
	rows := ViewTable(view, l)

	var (
		path string
		err  error
	)
	switch format {
	case FormatXLSX:
		path, err = e.xlsx.WriteXLSX(file, DefaultSheet, ViewHeaders, rows)
	case FormatCSV:
		path = e.csv.resolvePath(file)
		err = e.csv.WriteSimpleCSV(file, ViewHeaders, stringRows(rows))
	default:
		err = fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return "", apperrors.NewStorageError("export failed", err).WithContext("format", string(format))
	}

	e.logger.InfoContext(ctx, "view saved", slog.String("path", path), slog.Int("rows", len(rows)))
	return path, nil
}

func stringRows(rows [][]any) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = formatCell(v)
		}
		out[i] = rec
	}
	return out
}
