package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts/domain"
)

func TestLabels(t *testing.T) {
	en := Labels(domain.LocaleEnglish)
	id := Labels(domain.LocaleIndonesian)

	assert.Len(t, en.Dimensions[domain.DimMonth], 12)
	assert.Len(t, en.Dimensions[domain.DimWeekday], 7)
	assert.Len(t, en.Dimensions[domain.DimTempBin], domain.BinCount)
	assert.Equal(t, en.Dimensions[domain.DimSeason][1], domain.SeasonSpring.Label(domain.LocaleEnglish))
	assert.NotEqual(t, en.Dimensions[domain.DimSeason][1], id.Dimensions[domain.DimSeason][1])
}

func TestLabelTable(t *testing.T) {
	table, err := Aggregate(sampleView(t), domain.AggregateRequest{
		GroupBy: domain.DimSeason,
		Metrics: []domain.Metric{domain.MetricTotal},
		Ops:     []domain.AggregateOp{domain.OpSum},
	})
	require.NoError(t, err)

	LabelTable(table, domain.LocaleIndonesian)
	for _, row := range table.Rows {
		assert.Equal(t, domain.Season(row.Key).Label(domain.LocaleIndonesian), row.Label)
	}
}
