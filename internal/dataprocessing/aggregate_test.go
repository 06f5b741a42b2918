package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ferdiansakti/proyek-analisis-data/internal/errors"
	"github.com/ferdiansakti/proyek-analisis-data/internal/shared/testutil"
	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts/domain"
)

func sampleView(t *testing.T) *domain.FilteredView {
	t.Helper()
	view, err := Apply(testutil.SampleRecords(), domain.FilterCriteria{})
	require.NoError(t, err)
	return view
}

func TestAggregate(t *testing.T) {
	view := sampleView(t)

	tests := []struct {
		name   string
		req    domain.AggregateRequest
		keys   []int
		counts []int
		check  func(t *testing.T, rows []domain.AggregateRow)
	}{
		{
			name: "sum and mean by year",
			req: domain.AggregateRequest{
				GroupBy: domain.DimYear,
				Metrics: []domain.Metric{domain.MetricTotal},
				Ops:     []domain.AggregateOp{domain.OpSum, domain.OpMean},
			},
			keys:   []int{2011, 2012},
			counts: []int{5, 3},
			check: func(t *testing.T, rows []domain.AggregateRow) {
				assert.InDelta(t, 160, rows[0].Value(domain.MetricTotal, domain.OpSum), 1e-9)
				assert.InDelta(t, 32, rows[0].Value(domain.MetricTotal, domain.OpMean), 1e-9)
				assert.InDelta(t, 1710, rows[1].Value(domain.MetricTotal, domain.OpSum), 1e-9)
				assert.InDelta(t, 570, rows[1].Value(domain.MetricTotal, domain.OpMean), 1e-9)
			},
		},
		{
			name: "casual and registered by weekday",
			req: domain.AggregateRequest{
				GroupBy: domain.DimWeekday,
				Metrics: []domain.Metric{domain.MetricCasual, domain.MetricRegistered},
				Ops:     []domain.AggregateOp{domain.OpMean},
			},
			keys:   []int{0, 3, 4, 6},
			counts: []int{2, 2, 1, 3},
			check: func(t *testing.T, rows []domain.AggregateRow) {
				assert.InDelta(t, 17, rows[0].Value(domain.MetricCasual, domain.OpMean), 1e-9)
				assert.InDelta(t, 19, rows[0].Value(domain.MetricRegistered, domain.OpMean), 1e-9)
				assert.InDelta(t, 600, rows[2].Value(domain.MetricRegistered, domain.OpMean), 1e-9)
			},
		},
		{
			name: "derived day part",
			req: domain.AggregateRequest{
				GroupBy: domain.DimDayPart,
				Metrics: []domain.Metric{domain.MetricTotal},
				Ops:     []domain.AggregateOp{domain.OpSum},
			},
			keys:   []int{0, 1, 2, 3},
			counts: []int{5, 1, 1, 1},
			check: func(t *testing.T, rows []domain.AggregateRow) {
				assert.InDelta(t, 160, rows[0].Value(domain.MetricTotal, domain.OpSum), 1e-9)
				assert.InDelta(t, 640, rows[1].Value(domain.MetricTotal, domain.OpSum), 1e-9)
			},
		},
		{
			name: "total bin",
			req: domain.AggregateRequest{
				GroupBy: domain.DimTotalBin,
				Metrics: []domain.Metric{domain.MetricTemp},
				Ops:     []domain.AggregateOp{domain.OpMean},
			},
			keys:   []int{0, 2},
			counts: []int{5, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Aggregate(view, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.req.GroupBy, table.GroupBy)
			require.Len(t, table.Rows, len(tt.keys))

			for i, row := range table.Rows {
				assert.Equal(t, tt.keys[i], row.Key)
				assert.Equal(t, tt.counts[i], row.Count)
			}
			if tt.check != nil {
				tt.check(t, table.Rows)
			}
		})
	}
}

func TestAggregate_Errors(t *testing.T) {
	view := sampleView(t)

	daily := testutil.HourRecord("2011-01-01", 0, 1, 1)
	daily.HasHour = false
	dailyView, err := Apply([]domain.Record{daily}, domain.FilterCriteria{})
	require.NoError(t, err)

	tests := []struct {
		name      string
		view      *domain.FilteredView
		req       domain.AggregateRequest
		aggregate string
	}{
		{
			name:      "unknown dimension",
			view:      view,
			req:       domain.AggregateRequest{GroupBy: "colour", Metrics: []domain.Metric{domain.MetricTotal}, Ops: []domain.AggregateOp{domain.OpSum}},
			aggregate: "sum(total) by colour",
		},
		{
			name:      "unknown metric",
			view:      view,
			req:       domain.AggregateRequest{GroupBy: domain.DimYear, Metrics: []domain.Metric{"price"}, Ops: []domain.AggregateOp{domain.OpSum}},
			aggregate: "sum(price) by year",
		},
		{
			name:      "unknown op",
			view:      view,
			req:       domain.AggregateRequest{GroupBy: domain.DimYear, Metrics: []domain.Metric{domain.MetricTotal}, Ops: []domain.AggregateOp{"median"}},
			aggregate: "median(total) by year",
		},
		{
			name:      "nothing requested",
			view:      view,
			req:       domain.AggregateRequest{GroupBy: domain.DimYear},
			aggregate: " by year",
		},
		{
			name:      "daily rows by hour",
			view:      dailyView,
			req:       domain.AggregateRequest{GroupBy: domain.DimHour, Metrics: []domain.Metric{domain.MetricTotal}, Ops: []domain.AggregateOp{domain.OpMean}},
			aggregate: "mean(total) by hour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Aggregate(tt.view, tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsDerivation(err))
			assert.Equal(t, tt.aggregate, apperrors.AggregateOf(err))
		})
	}
}

func TestAggregateName(t *testing.T) {
	req := domain.AggregateRequest{
		GroupBy: domain.DimSeason,
		Metrics: []domain.Metric{domain.MetricTotal, domain.MetricCasual},
		Ops:     []domain.AggregateOp{domain.OpSum},
	}
	assert.Equal(t, "sum(total), sum(casual) by season", AggregateName(req))
}
