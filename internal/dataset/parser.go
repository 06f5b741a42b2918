package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/ferdiansakti/proyek-analisis-data/internal/errors"
	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts/domain"
)

// Column names of the rental file.
const (
	ColInstant    = "instant"
	ColDate       = "dteday"
	ColSeason     = "season"
	ColYear       = "yr"
	ColMonth      = "mnth"
	ColHour       = "hr"
	ColHoliday    = "holiday"
	ColWeekday    = "weekday"
	ColWorkingDay = "workingday"
	ColWeather    = "weathersit"
	ColTemp       = "temp"
	ColATemp      = "atemp"
	ColHumidity   = "hum"
	ColWindSpeed  = "windspeed"
	ColCasual     = "casual"
	ColRegistered = "registered"
	ColTotal      = "cnt"
)

var requiredColumns = []string{
	ColDate, ColSeason, ColMonth, ColWeekday, ColWeather,
	ColTemp, ColATemp, ColHumidity, ColWindSpeed,
	ColCasual, ColRegistered, ColTotal,
}

// fallbackLayouts are tried after the configured date layout. Spreadsheet
// exports commonly render dates as m/d/yyyy or mm-dd-yy.
var fallbackLayouts = []string{time.DateOnly, "1/2/2006", "01-02-06", "2006/01/02"}

// columnIndex maps normalised header names to positions.
type columnIndex map[string]int

// indexHeader locates the columns of header and checks the required ones.
func indexHeader(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		clean := strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		cols[strings.ToLower(clean)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required columns not found: %v", missing)
	}
	return cols, nil
}

func (c columnIndex) has(name string) bool {
	_, ok := c[name]
	return ok
}

// rowParser converts string rows into records.
type rowParser struct {
	cols   columnIndex
	layout string
}

// parseRows turns the header plus data rows into records. It fails on the
// first malformed row.
func parseRows(rows [][]string, layout string) ([]domain.Record, columnIndex, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("file is empty")
	}

	cols, err := indexHeader(rows[0])
	if err != nil {
		return nil, nil, err
	}

	p := &rowParser{cols: cols, layout: layout}
	records := make([]domain.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec, err := p.parse(row)
		if err != nil {
			// Line numbers are 1-based and count the header.
			return nil, nil, apperrors.NewParsingError(fmt.Sprintf("line %d", i+2), err)
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, nil, fmt.Errorf("file has no data rows")
	}
	return records, cols, nil
}

func (p *rowParser) parse(row []string) (domain.Record, error) {
	var (
		rec domain.Record
		err error
	)

	cell := func(name string) string {
		i, ok := p.cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	integer := func(name string) int {
		if err != nil {
			return 0
		}
		var v int
		v, err = strconv.Atoi(cell(name))
		if err != nil {
			err = fmt.Errorf("column %s: %w", name, err)
		}
		return v
	}
	float := func(name string) float64 {
		if err != nil {
			return 0
		}
		var v float64
		v, err = strconv.ParseFloat(cell(name), 64)
		if err != nil {
			err = fmt.Errorf("column %s: %w", name, err)
		} else if math.IsNaN(v) || math.IsInf(v, 0) {
			err = fmt.Errorf("column %s: %q is not a finite number", name, cell(name))
		}
		return v
	}

	rec.Date, err = p.parseDate(cell(ColDate))
	if err != nil {
		return rec, fmt.Errorf("column %s: %w", ColDate, err)
	}

	if p.cols.has(ColInstant) {
		rec.Instant = integer(ColInstant)
	}
	rec.Season = domain.Season(integer(ColSeason))
	rec.Month = domain.Month(integer(ColMonth))
	rec.Weekday = domain.Weekday(integer(ColWeekday))
	rec.Weather = domain.Weather(integer(ColWeather))
	rec.Temp = float(ColTemp)
	rec.ATemp = float(ColATemp)
	rec.Humidity = float(ColHumidity)
	rec.WindSpeed = float(ColWindSpeed)
	rec.Casual = integer(ColCasual)
	rec.Registered = integer(ColRegistered)
	rec.Total = integer(ColTotal)

	rec.Year = rec.Date.Year()
	if p.cols.has(ColYear) {
		rec.Year = domain.BaseYear + integer(ColYear)
	}
	if p.cols.has(ColHour) {
		rec.Hour = integer(ColHour)
		rec.HasHour = true
	}
	if p.cols.has(ColHoliday) {
		rec.Holiday = integer(ColHoliday) == 1
	}
	if p.cols.has(ColWorkingDay) {
		rec.WorkingDay = integer(ColWorkingDay) == 1
	} else {
		rec.WorkingDay = rec.Weekday != 0 && rec.Weekday != 6 && !rec.Holiday
	}
	if err != nil {
		return rec, err
	}

	switch {
	case !rec.Season.Valid():
		return rec, fmt.Errorf("column %s: unknown code %d", ColSeason, rec.Season)
	case !rec.Month.Valid():
		return rec, fmt.Errorf("column %s: unknown code %d", ColMonth, rec.Month)
	case !rec.Weekday.Valid():
		return rec, fmt.Errorf("column %s: unknown code %d", ColWeekday, rec.Weekday)
	case !rec.Weather.Valid():
		return rec, fmt.Errorf("column %s: unknown code %d", ColWeather, rec.Weather)
	}

	if err := rec.Check(); err != nil {
		return rec, err
	}
	return rec, nil
}

func (p *rowParser) parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(p.layout, s); err == nil {
		return t, nil
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q with layout %q", s, p.layout)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
