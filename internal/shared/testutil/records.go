package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts/domain"
)

// HourCSVHeader is the column layout of the hourly rental file.
var HourCSVHeader = []string{
	"instant", "dteday", "season", "yr", "mnth", "hr", "holiday", "weekday",
	"workingday", "weathersit", "temp", "atemp", "hum", "windspeed",
	"casual", "registered", "cnt",
}

// Date parses a YYYY-MM-DD literal and panics on malformed input.
func Date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// HourRecord builds a consistent hourly record; calendar fields are derived
// from date.
func HourRecord(date string, hour, casual, registered int) domain.Record {
	d := Date(date)
	return domain.Record{
		Date:       d,
		Hour:       hour,
		HasHour:    true,
		Year:       d.Year(),
		Season:     domain.SeasonSpring,
		Month:      domain.Month(d.Month()),
		Weekday:    domain.Weekday(d.Weekday()),
		Weather:    domain.WeatherClear,
		WorkingDay: d.Weekday() != time.Saturday && d.Weekday() != time.Sunday,
		Temp:       0.5,
		ATemp:      0.5,
		Humidity:   0.5,
		WindSpeed:  0.2,
		Casual:     casual,
		Registered: registered,
		Total:      casual + registered,
	}
}

// SampleRecords returns eight hourly observations over four days in two
// years, shaped after the first rows of the public hour.csv.
func SampleRecords() []domain.Record {
	rs := []domain.Record{
		HourRecord("2011-01-01", 0, 3, 13),
		HourRecord("2011-01-01", 1, 8, 32),
		HourRecord("2011-01-01", 2, 5, 27),
		HourRecord("2011-01-02", 0, 17, 22),
		HourRecord("2011-01-02", 1, 17, 16),
		HourRecord("2012-07-04", 12, 150, 300),
		HourRecord("2012-07-04", 18, 120, 500),
		HourRecord("2012-07-05", 8, 40, 600),
	}

	temps := []float64{0.24, 0.22, 0.22, 0.46, 0.44, 0.86, 0.80, 0.70}
	hums := []float64{0.81, 0.80, 0.80, 0.88, 0.94, 0.40, 0.45, 0.62}
	winds := []float64{0, 0, 0, 0.2985, 0.2537, 0.1343, 0.1940, 0.0896}
	for i := range rs {
		rs[i].Instant = i + 1
		rs[i].Temp = temps[i]
		rs[i].ATemp = temps[i] * 1.1
		rs[i].Humidity = hums[i]
		rs[i].WindSpeed = winds[i]
		if rs[i].Year == 2012 {
			rs[i].Season = domain.SeasonFall
		}
	}
	rs[5].Holiday, rs[6].Holiday = true, true
	rs[5].WorkingDay, rs[6].WorkingDay = false, false
	rs[7].Weather = domain.WeatherMist
	return rs
}

// CSVRow renders r in HourCSVHeader order.
func CSVRow(r domain.Record) []string {
	b := func(v bool) string {
		if v {
			return "1"
		}
		return "0"
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return []string{
		strconv.Itoa(r.Instant),
		r.Date.Format(time.DateOnly),
		strconv.Itoa(int(r.Season)),
		strconv.Itoa(r.Year - domain.BaseYear),
		strconv.Itoa(int(r.Month)),
		strconv.Itoa(r.Hour),
		b(r.Holiday),
		strconv.Itoa(int(r.Weekday)),
		b(r.WorkingDay),
		strconv.Itoa(int(r.Weather)),
		f(r.Temp), f(r.ATemp), f(r.Humidity), f(r.WindSpeed),
		strconv.Itoa(r.Casual),
		strconv.Itoa(r.Registered),
		strconv.Itoa(r.Total),
	}
}

// WriteHourCSV writes records to dir/name in the hourly layout and returns
// the file path.
func WriteHourCSV(t *testing.T, dir, name string, records []domain.Record) string {
	t.Helper()
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, HourCSVHeader)
	for _, r := range records {
		rows = append(rows, CSVRow(r))
	}
	return WriteCSVRows(t, dir, name, rows)
}

// WriteCSVRows writes raw rows, header included, to dir/name.
func WriteCSVRows(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
