package http

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"expensify/internal/analytics"
	"expensify/internal/core"
)

// RangeParams holds the resolved filter window and type filter for a
// report or analysis request.
type RangeParams struct {
	Range      core.DateRange
	TypeFilter string
	Preset     analytics.Preset
}

// ParseRangeParams resolves the date range from query parameters.
// Either a preset name ("thisMonth", "lastYear", ...) or an explicit
// start/end pair may be given; explicit bounds win over the preset.
// With no parameters at all the window defaults to the current month.
func ParseRangeParams(query url.Values, now time.Time) (RangeParams, error) {
	params := RangeParams{
		TypeFilter: analytics.TypeAll,
		Preset:     analytics.PresetThisMonth,
	}

	if v := strings.TrimSpace(query.Get("type")); v != "" {
		canonical, ok := canonicalTypeFilter(v)
		if !ok {
			return params, fmt.Errorf("invalid type filter %q", v)
		}
		params.TypeFilter = canonical
	}

	startStr := strings.TrimSpace(query.Get("start"))
	endStr := strings.TrimSpace(query.Get("end"))
	if startStr != "" || endStr != "" {
		if startStr == "" || endStr == "" {
			return params, fmt.Errorf("start and end must be given together")
		}
		start, err := core.ParseDate(startStr)
		if err != nil {
			return params, fmt.Errorf("invalid start date %q", startStr)
		}
		end, err := core.ParseDate(endStr)
		if err != nil {
			return params, fmt.Errorf("invalid end date %q", endStr)
		}
		params.Preset = ""
		params.Range = core.NewDateRange(start, end)
		return params, nil
	}

	if v := strings.TrimSpace(query.Get("preset")); v != "" {
		preset, err := analytics.ParsePreset(v)
		if err != nil {
			return params, err
		}
		params.Preset = preset
	}

	params.Range = params.Preset.Resolve(now)
	return params, nil
}

// canonicalTypeFilter maps a case-insensitive filter value onto the
// exact form ByType compares against, so "income" filters the same
// rows as "Income".
func canonicalTypeFilter(v string) (string, bool) {
	switch {
	case strings.EqualFold(v, analytics.TypeAll):
		return analytics.TypeAll, true
	case strings.EqualFold(v, string(core.Income)):
		return string(core.Income), true
	case strings.EqualFold(v, string(core.Expense)):
		return string(core.Expense), true
	default:
		return "", false
	}
}
