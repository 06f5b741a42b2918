// Package dataprocessing filters the rental record set and derives the
// aggregates shown on the dashboard.
//
// # Architecture
//
// Every function in the package is pure: it reads the records it is given
// and returns new values. The package is organized into four parts:
//
// 1. Filter: Apply keeps the records that satisfy every active criterion
// 2. Binning: population-relative equal-width bins plus fixed day parts
// 3. Aggregation: group-by reductions backed by gota dataframes
// 4. Summaries: totals, user share, describe, value counts, box plots, RFM
//
// # Usage
//
//	view, err := dataprocessing.Apply(set.Records, criteria)
//	if err != nil {
//	    return err
//	}
//
//	table, err := dataprocessing.Aggregate(view, domain.AggregateRequest{
//	    GroupBy: domain.DimSeason,
//	    Metrics: []domain.Metric{domain.MetricTotal},
//	    Ops:     []domain.AggregateOp{domain.OpMean},
//	})
//
// # Errors
//
// An empty selection is not an error for Apply. Functions that reduce a
// view return a derivation AppError naming the aggregate when there is
// nothing to reduce.
package dataprocessing
