package dataprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	apperrors "github.com/ferdiansakti/proyek-analisis-data/internal/errors"
	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts/domain"
)

// Bin assigns every record a level for each binned field and, for hourly
// records, a day part. Edges are computed from records themselves.
func Bin(records []domain.Record) ([]domain.BinAssignment, domain.BinEdges, error) {
	bins := make([]domain.BinAssignment, len(records))
	if len(records) == 0 {
		return bins, domain.BinEdges{}, nil
	}

	edges := make(domain.BinEdges, len(domain.BinFields))
	for _, f := range domain.BinFields {
		values := metricValues(records, f.Metric())
		if floats.HasNaN(values) {
			return nil, nil, apperrors.NewDerivationError(binAggregate(f), "field contains NaN")
		}

		e := Edges(values)
		edges[f] = e
		for i, v := range values {
			bins[i].SetLevel(f, Level(e, v))
		}
	}

	for i, r := range records {
		if !r.HasHour {
			continue
		}
		part, err := DayPartOf(r.Hour)
		if err != nil {
			return nil, nil, apperrors.WrapDerivationError(binAggregate("hour"), err)
		}
		bins[i].DayPart = part
		bins[i].HasDayPart = true
	}

	return bins, edges, nil
}

// Edges returns the BinCount+1 equal-width boundaries spanning values.
func Edges(values []float64) []float64 {
	lo, hi := floats.Min(values), floats.Max(values)
	return floats.Span(make([]float64, domain.BinCount+1), lo, hi)
}

// Level places v within edges. Intervals are closed on the right, so an
// interior edge belongs to the lower bin, and the first interval also
// includes its left edge. A degenerate range maps to level 0.
func Level(edges []float64, v float64) domain.BinLevel {
	if edges[0] == edges[len(edges)-1] {
		return 0
	}
	last := len(edges) - 2
	for i := 0; i < last; i++ {
		if v <= edges[i+1] {
			return domain.BinLevel(i)
		}
	}
	return domain.BinLevel(last)
}

// DayPartOf maps an hour to its fixed day part.
func DayPartOf(hour int) (domain.DayPart, error) {
	e := domain.DayPartEdges
	if hour < e[0] || hour >= e[len(e)-1] {
		return 0, fmt.Errorf("hour %d outside [%d,%d)", hour, e[0], e[len(e)-1])
	}
	for i := len(e) - 2; i > 0; i-- {
		if hour >= e[i] {
			return domain.DayPart(i), nil
		}
	}
	return domain.DayPartEarlyMorning, nil
}

func binAggregate[T ~string](field T) string {
	return fmt.Sprintf("bin(%s)", field)
}

func metricValues(records []domain.Record, m domain.Metric) []float64 {
	values := make([]float64, len(records))
	for i, r := range records {
		values[i], _ = r.Metric(m)
	}
	return values
}
