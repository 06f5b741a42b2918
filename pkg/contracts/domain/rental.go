package domain

import (
	"fmt"
	"strconv"
	"time"
)

// BaseYear is the calendar year encoded as 0 in the dataset's yr column.
const BaseYear = 2011

// ParseYear reads a year selection. Values below 100 are dataset year
// codes counted from BaseYear, anything else is a calendar year.
func ParseYear(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n >= 0 && n < 100 {
		n += BaseYear
	}
	return n, nil
}

// Record is one observation of the bike rental dataset, hourly or daily.
type Record struct {
	Instant    int       `json:"instant"`
	Date       time.Time `json:"date"`
	Hour       int       `json:"hour"`
	HasHour    bool      `json:"has_hour"`
	Year       int       `json:"year"`
	Season     Season    `json:"season" validate:"min=1,max=4"`
	Month      Month     `json:"month" validate:"min=1,max=12"`
	Weekday    Weekday   `json:"weekday" validate:"min=0,max=6"`
	Weather    Weather   `json:"weather" validate:"min=1,max=4"`
	Holiday    bool      `json:"holiday"`
	WorkingDay bool      `json:"working_day"`
	Temp       float64   `json:"temp"`
	ATemp      float64   `json:"atemp"`
	Humidity   float64   `json:"humidity"`
	WindSpeed  float64   `json:"windspeed"`
	Casual     int       `json:"casual" validate:"min=0"`
	Registered int       `json:"registered" validate:"min=0"`
	Total      int       `json:"total" validate:"min=0"`
}

// Check verifies the counters of r, non-negative and Total equal to
// Casual plus Registered, and that the normalized weather measures lie in
// [0,1].
func (r Record) Check() error {
	if r.Casual < 0 || r.Registered < 0 || r.Total < 0 {
		return fmt.Errorf("negative count (casual=%d registered=%d total=%d)", r.Casual, r.Registered, r.Total)
	}
	if r.Total != r.Casual+r.Registered {
		return fmt.Errorf("total %d != casual %d + registered %d", r.Total, r.Casual, r.Registered)
	}
	for _, m := range []struct {
		name  Metric
		value float64
	}{
		{MetricTemp, r.Temp},
		{MetricATemp, r.ATemp},
		{MetricHumidity, r.Humidity},
		{MetricWindSpeed, r.WindSpeed},
	} {
		// Written so that NaN fails too.
		if !(m.value >= 0 && m.value <= 1) {
			return fmt.Errorf("%s %v outside [0,1]", m.name, m.value)
		}
	}
	return nil
}

// Metric returns the numeric value of m for r.
func (r Record) Metric(m Metric) (float64, bool) {
	switch m {
	case MetricCasual:
		return float64(r.Casual), true
	case MetricRegistered:
		return float64(r.Registered), true
	case MetricTotal:
		return float64(r.Total), true
	case MetricTemp:
		return r.Temp, true
	case MetricATemp:
		return r.ATemp, true
	case MetricHumidity:
		return r.Humidity, true
	case MetricWindSpeed:
		return r.WindSpeed, true
	}
	return 0, false
}

// Metric names a numeric column of a Record.
type Metric string

const (
	MetricCasual     Metric = "casual"
	MetricRegistered Metric = "registered"
	MetricTotal      Metric = "total"
	MetricTemp       Metric = "temp"
	MetricATemp      Metric = "atemp"
	MetricHumidity   Metric = "humidity"
	MetricWindSpeed  Metric = "windspeed"
)

// Metrics lists every Metric in column order.
var Metrics = []Metric{
	MetricCasual, MetricRegistered, MetricTotal,
	MetricTemp, MetricATemp, MetricHumidity, MetricWindSpeed,
}

// ParseMetric accepts a metric name or its dataset column alias.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "cnt":
		return MetricTotal, nil
	case "hum":
		return MetricHumidity, nil
	}
	for _, m := range Metrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// DatasetInfo describes a loaded record set.
type DatasetInfo struct {
	Source   string    `json:"source"`
	Rows     int       `json:"rows"`
	Columns  []string  `json:"columns"`
	HasHour  bool      `json:"has_hour"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	LoadedAt time.Time `json:"loaded_at"`
}
