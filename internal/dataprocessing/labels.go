package dataprocessing

import "github.com/ferdiansakti/proyek-analisis-data/pkg/contracts/domain"

// LabelTable fills the display label of every row of t.
func LabelTable(t *domain.AggregateTable, l domain.Locale) {
	for i := range t.Rows {
		t.Rows[i].Label = t.GroupBy.Label(t.Rows[i].Key, l)
	}
}

// LabelCounts fills the display label of every value count along dim.
func LabelCounts(counts []domain.ValueCount, dim domain.Dimension, l domain.Locale) {
	for i := range counts {
		counts[i].Label = dim.Label(counts[i].Code, l)
	}
}

// LabelBoxes fills the bin names of a distribution over field.
func LabelBoxes(boxes []domain.BoxStats, field domain.BinField, l domain.Locale) {
	for i := range boxes {
		boxes[i].Label = field.Label(boxes[i].Level, l)
	}
}

// LabelRFM fills the display label of every scored group.
func LabelRFM(r *domain.RFMResult, l domain.Locale) {
	for i := range r.Groups {
		r.Groups[i].Label = r.GroupBy.Label(r.Groups[i].Key, l)
	}
}

// LabelSet is every static label table in one locale, keyed by code.
type LabelSet struct {
	Locale     domain.Locale                       `json:"locale"`
	Dimensions map[domain.Dimension]map[int]string `json:"dimensions"`
}

// Labels returns the static label tables of the categorical dimensions.
func Labels(l domain.Locale) LabelSet {
	codes := map[domain.Dimension][]int{
		domain.DimSeason:     span(1, 4),
		domain.DimMonth:      span(1, 12),
		domain.DimWeekday:    span(0, 6),
		domain.DimWeather:    span(1, 4),
		domain.DimHoliday:    span(0, 1),
		domain.DimWorkingDay: span(0, 1),
		domain.DimDayPart:    span(0, 3),
	}
	for _, f := range domain.BinFields {
		d := domain.Dimension(string(f) + "_bin")
		codes[d] = span(0, domain.BinCount-1)
	}

	set := LabelSet{Locale: l, Dimensions: make(map[domain.Dimension]map[int]string, len(codes))}
	for d, cs := range codes {
		m := make(map[int]string, len(cs))
		for _, c := range cs {
			m[c] = d.Label(c, l)
		}
		set.Dimensions[d] = m
	}
	return set
}

func span(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
