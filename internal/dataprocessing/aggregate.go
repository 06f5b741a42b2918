package dataprocessing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apperrors "github.com/ferdiansakti/proyek-analisis-data/internal/errors"
	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts/domain"
)

// Frame column names used for grouping.
const (
	keyColumn   = "key"
	countColumn = "one"
)

var aggregationTypes = map[domain.AggregateOp]dataframe.AggregationType{
	domain.OpSum:  dataframe.Aggregation_SUM,
	domain.OpMean: dataframe.Aggregation_MEAN,
}

// Aggregate groups the view by req.GroupBy and reduces every requested
// metric with every requested op. Rows are ordered by group key. Records
// without a value for the dimension, such as daily rows grouped by hour,
// are left out.
func Aggregate(view *domain.FilteredView, req domain.AggregateRequest) (*domain.AggregateTable, error) {
	name := AggregateName(req)

	if _, err := domain.ParseDimension(string(req.GroupBy)); err != nil {
		return nil, apperrors.WrapDerivationError(name, err)
	}
	if len(req.Metrics) == 0 || len(req.Ops) == 0 {
		return nil, apperrors.NewDerivationError(name, "no metric or operation requested")
	}
	for _, m := range req.Metrics {
		if _, err := domain.ParseMetric(string(m)); err != nil {
			return nil, apperrors.WrapDerivationError(name, err)
		}
	}
	for _, op := range req.Ops {
		if _, ok := aggregationTypes[op]; !ok {
			return nil, apperrors.NewDerivationError(name, fmt.Sprintf("unknown operation %q", op))
		}
	}

	df := groupFrame(view, req.GroupBy, req.Metrics)
	if df.Nrow() == 0 {
		return nil, apperrors.NewDerivationError(name, "no records selected")
	}

	types := []dataframe.AggregationType{dataframe.Aggregation_SUM}
	columns := []string{countColumn}
	for _, m := range req.Metrics {
		for _, op := range req.Ops {
			types = append(types, aggregationTypes[op])
			columns = append(columns, string(m))
		}
	}

	out := df.GroupBy(keyColumn).Aggregation(types, columns)
	if out.Err != nil {
		return nil, apperrors.WrapDerivationError(name, out.Err)
	}

	table, err := readGroups(out, req)
	if err != nil {
		return nil, apperrors.WrapDerivationError(name, err)
	}
	return table, nil
}

// AggregateName renders req the way derivation errors name it, for
// example "mean(total) by season".
func AggregateName(req domain.AggregateRequest) string {
	parts := make([]string, 0, len(req.Metrics)*len(req.Ops))
	for _, m := range req.Metrics {
		for _, op := range req.Ops {
			parts = append(parts, fmt.Sprintf("%s(%s)", op, m))
		}
	}
	return strings.Join(parts, ", ") + " by " + string(req.GroupBy)
}

// groupFrame builds a frame with one string key column, a constant count
// column and one float column per distinct metric.
func groupFrame(view *domain.FilteredView, dim domain.Dimension, metrics []domain.Metric) dataframe.DataFrame {
	var (
		keys []string
		rows []int
	)
	for i := 0; i < view.Len(); i++ {
		code, ok := dim.Code(view.Records[i], view.Bins[i])
		if !ok {
			continue
		}
		keys = append(keys, strconv.Itoa(code))
		rows = append(rows, i)
	}
	if len(rows) == 0 {
		return dataframe.DataFrame{}
	}

	ones := make([]float64, len(rows))
	for i := range ones {
		ones[i] = 1
	}

	cols := []series.Series{
		series.New(keys, series.String, keyColumn),
		series.New(ones, series.Float, countColumn),
	}
	seen := make(map[domain.Metric]bool, len(metrics))
	for _, m := range metrics {
		if seen[m] {
			continue
		}
		seen[m] = true
		values := make([]float64, len(rows))
		for j, i := range rows {
			values[j], _ = view.Records[i].Metric(m)
		}
		cols = append(cols, series.New(values, series.Float, string(m)))
	}
	return dataframe.New(cols...)
}

func readGroups(out dataframe.DataFrame, req domain.AggregateRequest) (*domain.AggregateTable, error) {
	keys := out.Col(keyColumn).Records()
	counts := out.Col(columnName(countColumn, dataframe.Aggregation_SUM)).Float()

	rows := make([]domain.AggregateRow, len(keys))
	for i, k := range keys {
		code, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("group key %q: %w", k, err)
		}
		rows[i] = domain.AggregateRow{
			Key:    code,
			Count:  int(counts[i]),
			Values: make(map[string]float64, len(req.Metrics)*len(req.Ops)),
		}
	}

	for _, m := range req.Metrics {
		for _, op := range req.Ops {
			col := out.Col(columnName(string(m), aggregationTypes[op]))
			if col.Err != nil {
				return nil, col.Err
			}
			for i, v := range col.Float() {
				rows[i].Values[domain.ValueKey(m, op)] = v
			}
		}
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return &domain.AggregateTable{GroupBy: req.GroupBy, Rows: rows}, nil
}

func columnName(column string, t dataframe.AggregationType) string {
	return fmt.Sprintf("%s_%s", column, t)
}
