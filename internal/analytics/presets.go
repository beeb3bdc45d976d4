package analytics

import (
	"fmt"
	"strings"
	"time"

	"expensify/internal/core"
)

// Preset is a named shorthand for a concrete date range. Every preset
// resolves against an explicit reference time so that the resolution is
// pure and testable; nothing in this package reads the system clock.
type Preset string

const (
	PresetToday     Preset = "today"
	PresetThisWeek  Preset = "thisWeek"
	PresetThisMonth Preset = "thisMonth"
	PresetLastMonth Preset = "lastMonth"
	PresetThisYear  Preset = "thisYear"
	PresetLastYear  Preset = "lastYear"
	PresetWeek      Preset = "week"  // trailing 7 days
	PresetMonth     Preset = "month" // trailing calendar month
	PresetYear      Preset = "year"  // trailing calendar year
	PresetAll       Preset = "all"
)

// allEpoch is the start date the "all" preset resolves to.
var allEpoch = core.NewDate(2020, 1, 1)

// Presets lists every known preset name.
func Presets() []Preset {
	return []Preset{
		PresetToday, PresetThisWeek, PresetThisMonth, PresetLastMonth,
		PresetThisYear, PresetLastYear, PresetWeek, PresetMonth,
		PresetYear, PresetAll,
	}
}

// ParsePreset validates a preset name.
func ParsePreset(s string) (Preset, error) {
	for _, p := range Presets() {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown date range preset %q", s)
}

// Resolve converts the preset into a concrete inclusive range anchored
// at the given reference time. The "last*" presets end on the last day
// of the previous period and roll over year boundaries: lastMonth at
// 2025-01-15 resolves to 2024-12-01..2024-12-31.
func (p Preset) Resolve(now time.Time) core.DateRange {
	today := core.DateOf(now)
	year, month := now.Year(), now.Month()

	switch p {
	case PresetToday:
		return core.NewDateRange(today, today)
	case PresetThisWeek:
		// Week starts on Sunday, matching the dashboard calendar.
		start := today.AddDays(-int(now.Weekday()))
		return core.NewDateRange(start, today)
	case PresetThisMonth:
		return core.NewDateRange(core.NewDate(year, int(month), 1), today)
	case PresetLastMonth:
		// time.Date normalizes month 0 to December of the prior year.
		start := core.Date{Time: time.Date(year, month-1, 1, 0, 0, 0, 0, time.UTC)}
		end := core.Date{Time: time.Date(year, month, 0, 0, 0, 0, 0, time.UTC)}
		return core.NewDateRange(start, end)
	case PresetThisYear:
		return core.NewDateRange(core.NewDate(year, 1, 1), today)
	case PresetLastYear:
		return core.NewDateRange(core.NewDate(year-1, 1, 1), core.NewDate(year-1, 12, 31))
	case PresetWeek:
		return core.NewDateRange(today.AddDays(-7), today)
	case PresetMonth:
		start := core.Date{Time: today.Time.AddDate(0, -1, 0)}
		return core.NewDateRange(start, today)
	case PresetYear:
		start := core.Date{Time: today.Time.AddDate(-1, 0, 0)}
		return core.NewDateRange(start, today)
	case PresetAll:
		return core.NewDateRange(allEpoch, today)
	default:
		// Unknown presets behave like thisMonth, the UI default.
		return core.NewDateRange(core.NewDate(year, int(month), 1), today)
	}
}
