package domain

import (
	"fmt"
	"strconv"
)

// Dimension names a categorical axis a view can be grouped or counted by.
type Dimension string

const (
	DimYear         Dimension = "year"
	DimSeason       Dimension = "season"
	DimMonth        Dimension = "month"
	DimWeekday      Dimension = "weekday"
	DimWeather      Dimension = "weather"
	DimHoliday      Dimension = "holiday"
	DimWorkingDay   Dimension = "working_day"
	DimHour         Dimension = "hour"
	DimDayPart      Dimension = "day_part"
	DimTempBin      Dimension = "temp_bin"
	DimHumidityBin  Dimension = "humidity_bin"
	DimWindSpeedBin Dimension = "windspeed_bin"
	DimTotalBin     Dimension = "total_bin"
)

// Dimensions lists every groupable dimension.
var Dimensions = []Dimension{
	DimYear, DimSeason, DimMonth, DimWeekday, DimWeather, DimHoliday,
	DimWorkingDay, DimHour, DimDayPart, DimTempBin, DimHumidityBin,
	DimWindSpeedBin, DimTotalBin,
}

// CategoricalDimensions are the columns summarised by value counts.
var CategoricalDimensions = []Dimension{
	DimSeason, DimYear, DimMonth, DimWeekday, DimWeather, DimTempBin,
	DimWindSpeedBin, DimHumidityBin, DimDayPart, DimTotalBin,
}

// ParseDimension accepts a dimension name or its dataset column alias.
func ParseDimension(s string) (Dimension, error) {
	switch s {
	case "yr":
		return DimYear, nil
	case "mnth":
		return DimMonth, nil
	case "weathersit":
		return DimWeather, nil
	case "hr":
		return DimHour, nil
	case "workingday":
		return DimWorkingDay, nil
	}
	for _, d := range Dimensions {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown dimension %q", s)
}

// BinField returns the field behind a bin dimension.
func (d Dimension) BinField() (BinField, bool) {
	switch d {
	case DimTempBin:
		return BinTemp, true
	case DimHumidityBin:
		return BinHumidity, true
	case DimWindSpeedBin:
		return BinWindSpeed, true
	case DimTotalBin:
		return BinTotal, true
	}
	return "", false
}

// Code extracts the value of d from a record and its bins. It reports false
// when the record carries no value for d, e.g. the hour of a daily row.
func (d Dimension) Code(r Record, b BinAssignment) (int, bool) {
	switch d {
	case DimYear:
		return r.Year, true
	case DimSeason:
		return int(r.Season), true
	case DimMonth:
		return int(r.Month), true
	case DimWeekday:
		return int(r.Weekday), true
	case DimWeather:
		return int(r.Weather), true
	case DimHoliday:
		return boolCode(r.Holiday), true
	case DimWorkingDay:
		return boolCode(r.WorkingDay), true
	case DimHour:
		return r.Hour, r.HasHour
	case DimDayPart:
		return int(b.DayPart), b.HasDayPart
	}
	if f, ok := d.BinField(); ok {
		return int(b.Level(f)), true
	}
	return 0, false
}

// Label returns the display name of code along d in l.
func (d Dimension) Label(code int, l Locale) string {
	switch d {
	case DimSeason:
		return Season(code).Label(l)
	case DimMonth:
		return Month(code).Label(l)
	case DimWeekday:
		return Weekday(code).Label(l)
	case DimWeather:
		return Weather(code).Label(l)
	case DimHoliday:
		if code == 0 || code == 1 {
			return yesNoLabels[l.index()][code]
		}
	case DimWorkingDay:
		if code == 0 || code == 1 {
			return workingDayLabels[l.index()][code]
		}
	case DimHour:
		return fmt.Sprintf("%d:00", code)
	case DimDayPart:
		return DayPart(code).Label(l)
	case DimYear:
		return strconv.Itoa(code)
	}
	if f, ok := d.BinField(); ok {
		return f.Label(BinLevel(code), l)
	}
	return strconv.Itoa(code)
}

func boolCode(b bool) int {
	if b {
		return 1
	}
	return 0
}
