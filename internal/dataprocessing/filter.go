package dataprocessing

import (
	apperrors "github.com/ferdiansakti/proyek-analisis-data/internal/errors"
	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts/domain"
)

// AggregateFilter names the filter stage in derivation errors.
const AggregateFilter = "filter"

// Apply filters records by criteria and bins the retained population.
// The input slice is not modified.
func Apply(records []domain.Record, criteria domain.FilterCriteria) (*domain.FilteredView, error) {
	if err := criteria.Check(); err != nil {
		return nil, apperrors.WrapDerivationError(AggregateFilter, err)
	}

	kept := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if criteria.Match(r) {
			kept = append(kept, r)
		}
	}

	bins, edges, err := Bin(kept)
	if err != nil {
		return nil, err
	}

	return &domain.FilteredView{
		Criteria: criteria,
		Records:  kept,
		Bins:     bins,
		Edges:    edges,
	}, nil
}
