package dataprocessing

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	apperrors "github.com/ferdiansakti/proyek-analisis-data/internal/errors"
	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts/domain"
)

// Aggregate names used in derivation errors.
const (
	AggregateTotals    = "totals"
	AggregateUserShare = "user_share"
	AggregateDescribe  = "describe"
)

// DescribeFields are the columns summarised when none are requested.
var DescribeFields = []domain.Metric{domain.MetricCasual, domain.MetricRegistered, domain.MetricTotal}

// Totals sums the rider counts and averages the total per distinct day.
func Totals(records []domain.Record) (domain.Totals, error) {
	if len(records) == 0 {
		return domain.Totals{}, apperrors.NewDerivationError(AggregateTotals, "no records selected")
	}

	t := domain.Totals{Records: len(records)}
	days := make(map[string]struct{})
	for _, r := range records {
		t.Casual += r.Casual
		t.Registered += r.Registered
		t.Total += r.Total
		days[r.Date.Format("2006-01-02")] = struct{}{}
	}
	t.Days = len(days)
	t.MeanDaily = float64(t.Total) / float64(t.Days)
	return t, nil
}

// UserShare returns the casual and registered percentages of all riders.
func UserShare(records []domain.Record) (domain.UserShare, error) {
	var casual, registered int
	for _, r := range records {
		casual += r.Casual
		registered += r.Registered
	}
	total := casual + registered
	if total == 0 {
		return domain.UserShare{}, apperrors.NewDerivationError(AggregateUserShare, "no riders in selection")
	}
	return domain.UserShare{
		CasualPct:     100 * float64(casual) / float64(total),
		RegisteredPct: 100 * float64(registered) / float64(total),
	}, nil
}

// Describe computes count, mean, sample standard deviation, extremes and
// quartiles for each field. Quartiles interpolate linearly between order
// statistics.
func Describe(records []domain.Record, fields []domain.Metric) ([]domain.FieldSummary, error) {
	if len(records) == 0 {
		return nil, apperrors.NewDerivationError(AggregateDescribe, "no records selected")
	}
	if len(fields) == 0 {
		fields = DescribeFields
	}

	out := make([]domain.FieldSummary, 0, len(fields))
	for _, f := range fields {
		if _, err := domain.ParseMetric(string(f)); err != nil {
			return nil, apperrors.WrapDerivationError(AggregateDescribe, err)
		}

		values := stats.Float64Data(metricValues(records, f))
		s, err := describe(values)
		if err != nil {
			return nil, apperrors.WrapDerivationError(AggregateDescribe, fmt.Errorf("%s: %w", f, err))
		}
		s.Field = f
		out = append(out, s)
	}
	return out, nil
}

func describe(values stats.Float64Data) (domain.FieldSummary, error) {
	s := domain.FieldSummary{Count: len(values)}

	var err error
	if s.Mean, err = stats.Mean(values); err != nil {
		return s, err
	}
	if s.Min, err = stats.Min(values); err != nil {
		return s, err
	}
	if s.Max, err = stats.Max(values); err != nil {
		return s, err
	}
	if len(values) > 1 {
		if s.Std, err = stats.StandardDeviationSample(values); err != nil {
			return s, err
		}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	s.Q1, s.Median, s.Q3 = quantile(sorted, 0.25), quantile(sorted, 0.5), quantile(sorted, 0.75)
	return s, nil
}

// ValueCounts counts the records per code of dim, most frequent first.
func ValueCounts(view *domain.FilteredView, dim domain.Dimension) ([]domain.ValueCount, error) {
	name := fmt.Sprintf("value_counts(%s)", dim)
	if _, err := domain.ParseDimension(string(dim)); err != nil {
		return nil, apperrors.WrapDerivationError(name, err)
	}

	counts := make(map[int]int)
	for i := 0; i < view.Len(); i++ {
		if code, ok := dim.Code(view.Records[i], view.Bins[i]); ok {
			counts[code]++
		}
	}
	if len(counts) == 0 {
		return nil, apperrors.NewDerivationError(name, "no records selected")
	}

	out := make([]domain.ValueCount, 0, len(counts))
	for code, n := range counts {
		out = append(out, domain.ValueCount{Code: code, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

// Distribution summarises metric within each populated bin level of
// field, lowest level first.
func Distribution(view *domain.FilteredView, field domain.BinField, metric domain.Metric) ([]domain.BoxStats, error) {
	name := fmt.Sprintf("distribution(%s by %s)", metric, field)
	if _, err := domain.ParseBinField(string(field)); err != nil {
		return nil, apperrors.WrapDerivationError(name, err)
	}
	if _, err := domain.ParseMetric(string(metric)); err != nil {
		return nil, apperrors.WrapDerivationError(name, err)
	}
	if view.Len() == 0 {
		return nil, apperrors.NewDerivationError(name, "no records selected")
	}

	groups := make([][]float64, domain.BinCount)
	for i, r := range view.Records {
		level := view.Bins[i].Level(field)
		v, _ := r.Metric(metric)
		groups[level] = append(groups[level], v)
	}

	var out []domain.BoxStats
	for level, values := range groups {
		if len(values) == 0 {
			continue
		}
		sort.Float64s(values)
		out = append(out, domain.BoxStats{
			Level:  domain.BinLevel(level),
			Count:  len(values),
			Min:    values[0],
			Q1:     quantile(values, 0.25),
			Median: quantile(values, 0.5),
			Q3:     quantile(values, 0.75),
			Max:    values[len(values)-1],
			Mean:   stat.Mean(values, nil),
		})
	}
	return out, nil
}

// quantile interpolates linearly between the closest ranks of sorted,
// which is the default of most dataframe libraries. The estimators in
// gonum and montanaflynn use different plotting positions.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	h := p * float64(len(sorted)-1)
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}
