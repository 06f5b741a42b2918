package dataprocessing

import (
	"fmt"
	"sort"
	"time"

	apperrors "github.com/ferdiansakti/proyek-analisis-data/internal/errors"
	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts/domain"
)

// AggregateRFM names the RFM scoring in derivation errors.
const AggregateRFM = "rfm"

// DefaultRFMGroup is the dimension RFM groups by when none is given.
const DefaultRFMGroup = domain.DimWeekday

// quartiles is the number of score buckets per RFM metric.
const quartiles = 4

type rfmGroup struct {
	key      int
	latest   time.Time
	count    int
	monetary int
}

// RFM scores every group of the view by recency, frequency and monetary
// value. The snapshot is one day after the latest date in the view.
func RFM(view *domain.FilteredView, groupBy domain.Dimension) (*domain.RFMResult, error) {
	if groupBy == "" {
		groupBy = DefaultRFMGroup
	}
	if _, err := domain.ParseDimension(string(groupBy)); err != nil {
		return nil, apperrors.WrapDerivationError(AggregateRFM, err)
	}

	byKey := make(map[int]*rfmGroup)
	var maxDate time.Time
	for i := 0; i < view.Len(); i++ {
		r := view.Records[i]
		code, ok := groupBy.Code(r, view.Bins[i])
		if !ok {
			continue
		}
		g := byKey[code]
		if g == nil {
			g = &rfmGroup{key: code}
			byKey[code] = g
		}
		g.count++
		g.monetary += r.Total
		if r.Date.After(g.latest) {
			g.latest = r.Date
		}
		if r.Date.After(maxDate) {
			maxDate = r.Date
		}
	}
	if len(byKey) == 0 {
		return nil, apperrors.NewDerivationError(AggregateRFM, fmt.Sprintf("no records to group by %s", groupBy))
	}

	groups := make([]*rfmGroup, 0, len(byKey))
	for _, g := range byKey {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].key < groups[j].key })

	snapshot := maxDate.AddDate(0, 0, 1)
	recency := make([]float64, len(groups))
	frequency := make([]float64, len(groups))
	monetary := make([]float64, len(groups))
	for i, g := range groups {
		recency[i] = float64(daysBetween(g.latest, snapshot))
		frequency[i] = float64(g.count)
		monetary[i] = float64(g.monetary)
	}

	// Fewer days since the last observation is better.
	rScores := quartileScores(recency, true)
	fScores := quartileScores(frequency, false)
	mScores := quartileScores(monetary, false)

	result := &domain.RFMResult{
		GroupBy:  groupBy,
		Snapshot: snapshot,
		Groups:   make([]domain.RFMScore, len(groups)),
	}
	for i, g := range groups {
		result.Groups[i] = domain.RFMScore{
			Key:       g.key,
			Recency:   int(recency[i]),
			Frequency: g.count,
			Monetary:  g.monetary,
			R:         rScores[i],
			F:         fScores[i],
			M:         mScores[i],
			Segment:   domain.SegmentFor(rScores[i], fScores[i], mScores[i]),
		}
	}
	return result, nil
}

// quartileScores ranks values and maps rank r of n to 1 + floor(4r/n).
// Equal values are ranked in the order they appear, so a metric that is
// the same for every group still spreads over the quartiles. With reverse
// set, the smallest value ranks highest.
func quartileScores(values []float64, reverse bool) []int {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if reverse {
			return values[order[a]] > values[order[b]]
		}
		return values[order[a]] < values[order[b]]
	})

	scores := make([]int, n)
	for rank, idx := range order {
		scores[idx] = 1 + quartiles*rank/n
	}
	return scores
}

func daysBetween(from, to time.Time) int {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
