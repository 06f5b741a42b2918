package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	apierrors "github.com/ferdiansakti/proyek-analisis-data/internal/errors"
	"github.com/ferdiansakti/proyek-analisis-data/pkg/contracts/domain"
)

// Query parameters shared by every derivation endpoint.
const (
	ParamYear       = "year"
	ParamSeason     = "season"
	ParamMonth      = "month"
	ParamWeather    = "weather"
	ParamWorkingDay = "working_day"
	ParamStart      = "start"
	ParamEnd        = "end"
	ParamLang       = "lang"
	ParamLimit      = "limit"
)

// selectionQuery holds the raw scalar parameters checked by the validator.
type selectionQuery struct {
	Start string `query:"start" validate:"omitempty,iso8601"`
	End   string `query:"end" validate:"omitempty,iso8601"`
	Limit int    `query:"limit" validate:"gte=0"`
}

var localeMatcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Indonesian,
})

// localeOf picks the label language from ?lang= and then Accept-Language.
func localeOf(r *http.Request) domain.Locale {
	tag, _ := language.MatchStrings(localeMatcher, r.URL.Query().Get(ParamLang), r.Header.Get("Accept-Language"))
	if base, _ := tag.Base(); base.String() == string(domain.LocaleIndonesian) {
		return domain.LocaleIndonesian
	}
	return domain.LocaleEnglish
}

// parseCriteria builds filter criteria from comma separated lists. A
// parameter that is present but empty selects nothing.
func parseCriteria(q url.Values) (domain.FilterCriteria, error) {
	var c domain.FilterCriteria
	var err error

	if c.Years, err = parseList(q, ParamYear, domain.ParseYear); err != nil {
		return c, err
	}
	if c.Seasons, err = parseList(q, ParamSeason, codeParser[domain.Season]); err != nil {
		return c, err
	}
	if c.Months, err = parseList(q, ParamMonth, codeParser[domain.Month]); err != nil {
		return c, err
	}
	if c.Weathers, err = parseList(q, ParamWeather, codeParser[domain.Weather]); err != nil {
		return c, err
	}
	if c.WorkingDays, err = parseList(q, ParamWorkingDay, strconv.ParseBool); err != nil {
		return c, err
	}
	if c.StartDate, err = parseDate(q, ParamStart); err != nil {
		return c, err
	}
	if c.EndDate, err = parseDate(q, ParamEnd); err != nil {
		return c, err
	}
	return c, nil
}

func parseList[T any](q url.Values, param string, parse func(string) (T, error)) ([]T, error) {
	values, ok := q[param]
	if !ok {
		return nil, nil
	}

	out := []T{}
	for _, raw := range values {
		for _, item := range strings.Split(raw, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			v, err := parse(item)
			if err != nil {
				return nil, apierrors.ErrValidation(param, fmt.Sprintf("%s: invalid value %q", param, item))
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func codeParser[T ~int](s string) (T, error) {
	n, err := strconv.Atoi(s)
	return T(n), err
}

func parseDate(q url.Values, param string) (*time.Time, error) {
	s := strings.TrimSpace(q.Get(param))
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, apierrors.ErrValidation(param, fmt.Sprintf("%s must be a date in YYYY-MM-DD form", param))
	}
	return &t, nil
}

// splitParam returns the trimmed, non-empty comma separated items of param.
func splitParam(q url.Values, param string) []string {
	var out []string
	for _, raw := range q[param] {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func parseLimit(q url.Values) (int, error) {
	s := strings.TrimSpace(q.Get(ParamLimit))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apierrors.ErrValidation(ParamLimit, "limit must be a valid integer")
	}
	return n, nil
}

type selectionKey struct{}

func withSelection(ctx context.Context, c domain.FilterCriteria) context.Context {
	return context.WithValue(ctx, selectionKey{}, c)
}

// selectionFrom returns the criteria stored by SelectionCtx. Without them
// the whole record set is selected.
func selectionFrom(ctx context.Context) domain.FilterCriteria {
	c, _ := ctx.Value(selectionKey{}).(domain.FilterCriteria)
	return c
}
