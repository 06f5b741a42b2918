package domain

import "fmt"

// BinField names a continuous field that is split into three equal-width bins.
type BinField string

const (
	BinTemp      BinField = "temp"
	BinHumidity  BinField = "humidity"
	BinWindSpeed BinField = "windspeed"
	BinTotal     BinField = "total"
)

// BinFields lists the binned fields in a stable order.
var BinFields = []BinField{BinTemp, BinHumidity, BinWindSpeed, BinTotal}

// BinCount is the number of equal-width bins per continuous field.
const BinCount = 3

// Metric returns the record column that f partitions.
func (f BinField) Metric() Metric {
	switch f {
	case BinTemp:
		return MetricTemp
	case BinHumidity:
		return MetricHumidity
	case BinWindSpeed:
		return MetricWindSpeed
	default:
		return MetricTotal
	}
}

// ParseBinField accepts a bin field name or its metric alias.
func ParseBinField(s string) (BinField, error) {
	for _, f := range BinFields {
		if string(f) == s {
			return f, nil
		}
	}
	switch s {
	case "hum":
		return BinHumidity, nil
	case "cnt":
		return BinTotal, nil
	}
	return "", fmt.Errorf("unknown bin field %q", s)
}

// BinLevel is the ordinal of an equal-width bin, 0 = lowest.
type BinLevel int

var binLabels = map[BinField][2][BinCount]string{
	BinTemp:      {{"Cold", "Mild", "Hot"}, {"Dingin", "Sedang", "Panas"}},
	BinHumidity:  {{"Low", "Medium", "High"}, {"Rendah", "Sedang", "Tinggi"}},
	BinWindSpeed: {{"Calm", "Breezy", "Windy"}, {"Tenang", "Sejuk", "Berangin"}},
	BinTotal:     {{"Low", "Medium", "High"}, {"Rendah", "Sedang", "Tinggi"}},
}

// Label returns the name of level for field f in l.
func (f BinField) Label(level BinLevel, l Locale) string {
	labels, ok := binLabels[f]
	if !ok || level < 0 || int(level) >= BinCount {
		return fmt.Sprintf("%s(%d)", f, int(level))
	}
	return labels[l.index()][level]
}

// DayPart is the fixed four-way split of the hour of day.
type DayPart int

const (
	DayPartEarlyMorning DayPart = iota // [0,6)
	DayPartMorning                     // [6,12)
	DayPartAfternoon                   // [12,18)
	DayPartNight                       // [18,24)
)

// DayPartEdges are the fixed hour boundaries of the day parts.
var DayPartEdges = [5]int{0, 6, 12, 18, 24}

var dayPartLabels = [2][4]string{
	{"Early Morning", "Morning", "Afternoon", "Night"},
	{"Dini Hari", "Pagi", "Siang", "Malam"},
}

// Label returns the day part name in l.
func (p DayPart) Label(l Locale) string {
	if p < DayPartEarlyMorning || p > DayPartNight {
		return fmt.Sprintf("day_part(%d)", int(p))
	}
	return dayPartLabels[l.index()][p]
}

// BinAssignment holds the derived categorical labels of one record.
type BinAssignment struct {
	Temp       BinLevel `json:"temp"`
	Humidity   BinLevel `json:"humidity"`
	WindSpeed  BinLevel `json:"windspeed"`
	Total      BinLevel `json:"total"`
	DayPart    DayPart  `json:"day_part"`
	HasDayPart bool     `json:"has_day_part"`
}

// Level returns the assignment for f.
func (b BinAssignment) Level(f BinField) BinLevel {
	switch f {
	case BinTemp:
		return b.Temp
	case BinHumidity:
		return b.Humidity
	case BinWindSpeed:
		return b.WindSpeed
	default:
		return b.Total
	}
}

// SetLevel stores level for f.
func (b *BinAssignment) SetLevel(f BinField, level BinLevel) {
	switch f {
	case BinTemp:
		b.Temp = level
	case BinHumidity:
		b.Humidity = level
	case BinWindSpeed:
		b.WindSpeed = level
	default:
		b.Total = level
	}
}

// BinEdges are the BinCount+1 boundaries used for each field.
type BinEdges map[BinField][]float64
