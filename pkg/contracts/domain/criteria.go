package domain

import (
	"fmt"
	"strings"
	"time"
)

// FilterCriteria is the set of user selections applied to the record set.
//
// A nil slice leaves its dimension unconstrained. A non-nil empty slice
// selects nothing, so every record is rejected.
type FilterCriteria struct {
	Years       []int      `json:"years,omitempty"`
	Seasons     []Season   `json:"seasons,omitempty"`
	Months      []Month    `json:"months,omitempty"`
	Weathers    []Weather  `json:"weathers,omitempty"`
	WorkingDays []bool     `json:"working_days,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// Check reports codes outside the label tables and inverted date ranges.
func (c FilterCriteria) Check() error {
	for _, s := range c.Seasons {
		if !s.Valid() {
			return fmt.Errorf("unknown season code %d", int(s))
		}
	}
	for _, m := range c.Months {
		if !m.Valid() {
			return fmt.Errorf("unknown month code %d", int(m))
		}
	}
	for _, w := range c.Weathers {
		if !w.Valid() {
			return fmt.Errorf("unknown weather code %d", int(w))
		}
	}
	if c.StartDate != nil && c.EndDate != nil && dateOnly(*c.StartDate).After(dateOnly(*c.EndDate)) {
		return fmt.Errorf("start date %s is after end date %s",
			c.StartDate.Format(time.DateOnly), c.EndDate.Format(time.DateOnly))
	}
	return nil
}

// Match reports whether r satisfies every active criterion.
func (c FilterCriteria) Match(r Record) bool {
	if !inSet(c.Years, r.Year) ||
		!inSet(c.Seasons, r.Season) ||
		!inSet(c.Months, r.Month) ||
		!inSet(c.Weathers, r.Weather) ||
		!inSet(c.WorkingDays, r.WorkingDay) {
		return false
	}
	day := dateOnly(r.Date)
	if c.StartDate != nil && day.Before(dateOnly(*c.StartDate)) {
		return false
	}
	if c.EndDate != nil && day.After(dateOnly(*c.EndDate)) {
		return false
	}
	return true
}

// String renders the active criteria for logs.
func (c FilterCriteria) String() string {
	var parts []string
	add := func(name string, set any, active bool) {
		if active {
			parts = append(parts, fmt.Sprintf("%s=%v", name, set))
		}
	}
	add("year", c.Years, c.Years != nil)
	add("season", c.Seasons, c.Seasons != nil)
	add("month", c.Months, c.Months != nil)
	add("weather", c.Weathers, c.Weathers != nil)
	add("working_day", c.WorkingDays, c.WorkingDays != nil)
	if c.StartDate != nil {
		parts = append(parts, "start="+c.StartDate.Format(time.DateOnly))
	}
	if c.EndDate != nil {
		parts = append(parts, "end="+c.EndDate.Format(time.DateOnly))
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, " ")
}

func inSet[T comparable](set []T, v T) bool {
	if set == nil {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
