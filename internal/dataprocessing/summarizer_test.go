package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ferdiansakti/proyek-analisis-data/internal/errors"
	"github.com/ferdiansakti/proyek-analisis-data/internal/shared/testutil"
	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts/domain"
)

func TestTotals(t *testing.T) {
	tests := []struct {
		name    string
		records []domain.Record
		want    domain.Totals
	}{
		{
			name: "two days of 100 and 200",
			records: []domain.Record{
				testutil.HourRecord("2011-01-01", 0, 40, 60),
				testutil.HourRecord("2011-01-02", 0, 50, 150),
			},
			want: domain.Totals{Records: 2, Days: 2, Casual: 90, Registered: 210, Total: 300, MeanDaily: 150},
		},
		{
			name: "several hours per day",
			records: []domain.Record{
				testutil.HourRecord("2011-01-01", 0, 10, 20),
				testutil.HourRecord("2011-01-01", 1, 30, 40),
				testutil.HourRecord("2011-01-02", 0, 50, 50),
			},
			want: domain.Totals{Records: 3, Days: 2, Casual: 90, Registered: 110, Total: 200, MeanDaily: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Totals(tt.records)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTotals_Empty(t *testing.T) {
	_, err := Totals(nil)
	require.Error(t, err)
	assert.Equal(t, AggregateTotals, apperrors.AggregateOf(err))
}

func TestUserShare(t *testing.T) {
	share, err := UserShare(testutil.SampleRecords())
	require.NoError(t, err)
	assert.InDelta(t, 100*360.0/1870.0, share.CasualPct, 1e-9)
	assert.InDelta(t, 100, share.CasualPct+share.RegisteredPct, 1e-9)

	_, err = UserShare([]domain.Record{testutil.HourRecord("2011-01-01", 0, 0, 0)})
	require.Error(t, err)
	assert.Equal(t, AggregateUserShare, apperrors.AggregateOf(err))
}

func TestDescribe(t *testing.T) {
	summaries, err := Describe(testutil.SampleRecords(), nil)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	total := summaries[2]
	assert.Equal(t, domain.MetricTotal, total.Field)
	assert.Equal(t, 8, total.Count)
	assert.InDelta(t, 233.75, total.Mean, 1e-9)
	assert.InDelta(t, 16, total.Min, 1e-9)
	assert.InDelta(t, 32.75, total.Q1, 1e-9)
	assert.InDelta(t, 39.5, total.Median, 1e-9)
	assert.InDelta(t, 492.5, total.Q3, 1e-9)
	assert.InDelta(t, 640, total.Max, 1e-9)
	assert.Greater(t, total.Std, 0.0)
}

func TestDescribe_SingleRecord(t *testing.T) {
	summaries, err := Describe([]domain.Record{testutil.HourRecord("2011-01-01", 0, 4, 6)}, []domain.Metric{domain.MetricTotal})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Zero(t, summaries[0].Std)
	assert.Equal(t, 10.0, summaries[0].Median)
}

func TestDescribe_Errors(t *testing.T) {
	_, err := Describe(nil, nil)
	assert.Equal(t, AggregateDescribe, apperrors.AggregateOf(err))

	_, err = Describe(testutil.SampleRecords(), []domain.Metric{"price"})
	assert.Equal(t, AggregateDescribe, apperrors.AggregateOf(err))
}

func TestValueCounts(t *testing.T) {
	view := sampleView(t)

	counts, err := ValueCounts(view, domain.DimWeekday)
	require.NoError(t, err)
	assert.Equal(t, []domain.ValueCount{
		{Code: 6, Count: 3},
		{Code: 0, Count: 2},
		{Code: 3, Count: 2},
		{Code: 4, Count: 1},
	}, counts)

	bins, err := ValueCounts(view, domain.DimTempBin)
	require.NoError(t, err)
	assert.Equal(t, []domain.ValueCount{
		{Code: 0, Count: 3},
		{Code: 2, Count: 3},
		{Code: 1, Count: 2},
	}, bins)
}

func TestValueCounts_Errors(t *testing.T) {
	view := sampleView(t)

	_, err := ValueCounts(view, "colour")
	assert.True(t, apperrors.IsDerivation(err))

	empty, err := Apply(testutil.SampleRecords(), domain.FilterCriteria{Months: []domain.Month{}})
	require.NoError(t, err)
	_, err = ValueCounts(empty, domain.DimSeason)
	assert.Equal(t, "value_counts(season)", apperrors.AggregateOf(err))
}

func TestDistribution(t *testing.T) {
	boxes, err := Distribution(sampleView(t), domain.BinTemp, domain.MetricTotal)
	require.NoError(t, err)
	require.Len(t, boxes, 3)

	low := boxes[0]
	assert.Equal(t, domain.BinLevel(0), low.Level)
	assert.Equal(t, 3, low.Count)
	assert.InDelta(t, 16, low.Min, 1e-9)
	assert.InDelta(t, 24, low.Q1, 1e-9)
	assert.InDelta(t, 32, low.Median, 1e-9)
	assert.InDelta(t, 36, low.Q3, 1e-9)
	assert.InDelta(t, 40, low.Max, 1e-9)
	assert.InDelta(t, 88.0/3.0, low.Mean, 1e-9)

	assert.Equal(t, 2, boxes[1].Count)
	assert.InDelta(t, 640, boxes[2].Max, 1e-9)
}

func TestDistribution_Errors(t *testing.T) {
	empty, err := Apply(testutil.SampleRecords(), domain.FilterCriteria{Years: []int{1999}})
	require.NoError(t, err)

	_, err = Distribution(empty, domain.BinTemp, domain.MetricTotal)
	assert.Equal(t, "distribution(total by temp)", apperrors.AggregateOf(err))

	_, err = Distribution(sampleView(t), "pressure", domain.MetricTotal)
	assert.True(t, apperrors.IsDerivation(err))
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.75, quantile(sorted, 0.25), 1e-9)
	assert.InDelta(t, 2.5, quantile(sorted, 0.5), 1e-9)
	assert.InDelta(t, 4, quantile(sorted, 1), 1e-9)
	assert.InDelta(t, 7, quantile([]float64{7}, 0.75), 1e-9)
}
