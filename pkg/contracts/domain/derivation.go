package domain

import (
	"fmt"
	"time"
)

// FilteredView is the outcome of one filter-and-derive pass.
// Bins[i] belongs to Records[i].
type FilteredView struct {
	Criteria FilterCriteria  `json:"criteria"`
	Records  []Record        `json:"records"`
	Bins     []BinAssignment `json:"bins"`
	Edges    BinEdges        `json:"edges"`
}

// Len returns the number of retained records.
func (v *FilteredView) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Records)
}

// AggregateOp is a reduction applied per group.
type AggregateOp string

const (
	OpSum  AggregateOp = "sum"
	OpMean AggregateOp = "mean"
)

// ParseAggregateOp validates an aggregate operation name.
func ParseAggregateOp(s string) (AggregateOp, error) {
	switch AggregateOp(s) {
	case OpSum, OpMean:
		return AggregateOp(s), nil
	}
	return "", fmt.Errorf("unknown aggregate op %q", s)
}

// AggregateRequest asks for Ops over Metrics grouped by GroupBy.
type AggregateRequest struct {
	GroupBy Dimension     `json:"group_by" validate:"required"`
	Metrics []Metric      `json:"metrics" validate:"required,min=1"`
	Ops     []AggregateOp `json:"ops" validate:"required,min=1"`
}

// ValueKey is the column name of op over m in an AggregateRow.
func ValueKey(m Metric, op AggregateOp) string {
	return string(m) + "_" + string(op)
}

// AggregateRow holds the reductions of one group.
type AggregateRow struct {
	Key    int                `json:"key"`
	Label  string             `json:"label,omitempty"`
	Count  int                `json:"count"`
	Values map[string]float64 `json:"values"`
}

// Value returns op over m for the row.
func (r AggregateRow) Value(m Metric, op AggregateOp) float64 {
	return r.Values[ValueKey(m, op)]
}

// AggregateTable is a grouped reduction ordered by group key.
type AggregateTable struct {
	GroupBy Dimension      `json:"group_by"`
	Rows    []AggregateRow `json:"rows"`
}

// Totals summarises total_count over a view.
type Totals struct {
	Records    int     `json:"records"`
	Days       int     `json:"days"`
	Casual     int     `json:"casual"`
	Registered int     `json:"registered"`
	Total      int     `json:"total"`
	MeanDaily  float64 `json:"mean_daily"`
}

// UserShare is the percentage split between casual and registered riders.
type UserShare struct {
	CasualPct     float64 `json:"casual_pct"`
	RegisteredPct float64 `json:"registered_pct"`
}

// FieldSummary is the descriptive statistics of one metric.
type FieldSummary struct {
	Field  Metric  `json:"field"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// ValueCount is the number of records carrying one code of a dimension.
type ValueCount struct {
	Code  int    `json:"code"`
	Label string `json:"label,omitempty"`
	Count int    `json:"count"`
}

// BoxStats is the five-number summary of a metric within one bin.
type BoxStats struct {
	Level  BinLevel `json:"level"`
	Label  string   `json:"label,omitempty"`
	Count  int      `json:"count"`
	Min    float64  `json:"min"`
	Q1     float64  `json:"q1"`
	Median float64  `json:"median"`
	Q3     float64  `json:"q3"`
	Max    float64  `json:"max"`
	Mean   float64  `json:"mean"`
}

// Segment is the RFM tier of a group.
type Segment string

const (
	SegmentTop    Segment = "top"
	SegmentMiddle Segment = "middle"
	SegmentBottom Segment = "bottom"
)

// SegmentFor applies the fixed RFM threshold rules.
func SegmentFor(r, f, m int) Segment {
	switch {
	case r >= 3 && f >= 3 && m >= 3:
		return SegmentTop
	case r >= 2 && f >= 2:
		return SegmentMiddle
	default:
		return SegmentBottom
	}
}

// RFMScore is the recency/frequency/monetary profile of one group.
type RFMScore struct {
	Key       int     `json:"key"`
	Label     string  `json:"label,omitempty"`
	Recency   int     `json:"recency_days"`
	Frequency int     `json:"frequency"`
	Monetary  int     `json:"monetary"`
	R         int     `json:"r_score"`
	F         int     `json:"f_score"`
	M         int     `json:"m_score"`
	Segment   Segment `json:"segment"`
}

// RFMResult is the scored set of groups for one snapshot.
type RFMResult struct {
	GroupBy  Dimension  `json:"group_by"`
	Snapshot time.Time  `json:"snapshot"`
	Groups   []RFMScore `json:"groups"`
}
