package analytics

import (
	"fmt"
	"time"

	"expensify/internal/core"
)

// TrendPoint is one bucket of a weekly trend series.
type TrendPoint struct {
	Label   string
	Income  core.Money
	Expense core.Money
	Balance core.Money
}

// MonthlyCategoryPoint is one calendar-month bucket of expense amounts
// per category. Amounts holds an entry for every category in the parent
// series, zero when the month has no matching transactions.
type MonthlyCategoryPoint struct {
	Month   time.Month
	Label   string
	Amounts map[core.Category]core.Money
}

// MonthlyCategorySeries is the 12-bucket Jan..Dec expense matrix behind
// the stacked monthly chart. Categories lists the distinct categories
// observed in the input, in first-seen order.
type MonthlyCategorySeries struct {
	Categories []core.Category
	Points     []MonthlyCategoryPoint
}

// WeeklyTrend partitions the trailing weekCount 7-day windows ending at
// the reference time into labeled buckets, oldest first ("Week 1" up to
// "Week N"). The windows tile the axis without overlap, so every
// transaction inside them lands in exactly one bucket; transactions
// older than the oldest window are excluded.
func WeeklyTrend(txs []core.Transaction, weekCount int, now time.Time) []TrendPoint {
	if weekCount <= 0 {
		return nil
	}
	today := core.DateOf(now)
	out := make([]TrendPoint, 0, weekCount)
	for i := 0; i < weekCount; i++ {
		end := today.AddDays(-(weekCount - 1 - i) * 7)
		start := end.AddDays(-6)
		window := core.NewDateRange(start, end)

		p := TrendPoint{Label: fmt.Sprintf("Week %d", i+1)}
		for _, tx := range txs {
			if !window.Contains(tx.Date) {
				continue
			}
			if tx.Type == core.Income {
				p.Income = p.Income.Add(tx.Amount)
			} else {
				p.Expense = p.Expense.Add(tx.Amount)
			}
		}
		p.Balance = p.Income.Sub(p.Expense)
		out = append(out, p)
	}
	return out
}

// MonthlyByCategory buckets expense transactions into the 12 fixed
// calendar months, regardless of year, summing per category. Months
// without transactions report zero for every observed category.
func MonthlyByCategory(txs []core.Transaction) MonthlyCategorySeries {
	var categories []core.Category
	seen := make(map[core.Category]bool)
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		c := tx.EffectiveCategory()
		if !seen[c] {
			seen[c] = true
			categories = append(categories, c)
		}
	}

	points := make([]MonthlyCategoryPoint, 12)
	for i := range points {
		m := time.Month(i + 1)
		amounts := make(map[core.Category]core.Money, len(categories))
		for _, c := range categories {
			amounts[c] = core.Money{}
		}
		points[i] = MonthlyCategoryPoint{
			Month:   m,
			Label:   m.String()[:3],
			Amounts: amounts,
		}
	}

	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		c := tx.EffectiveCategory()
		p := &points[tx.Date.Month()-1]
		p.Amounts[c] = p.Amounts[c].Add(tx.Amount)
	}

	return MonthlyCategorySeries{Categories: categories, Points: points}
}
