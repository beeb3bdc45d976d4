package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"expensify/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Totals is the income/expense/balance triple behind every dashboard
// header and report summary.
type Totals struct {
	Income   core.Money
	Expenses core.Money
	Balance  core.Money
}

// CategoryTotal is one entry of a per-category expense breakdown.
// Percent is the share of the expense total, unrounded; rounding is a
// presentation concern.
type CategoryTotal struct {
	Category core.Category
	Amount   core.Money
	Percent  decimal.Decimal
}

// CategoryStat carries the per-category figures of the stats view.
type CategoryStat struct {
	Category core.Category
	Total    core.Money
	Count    int
	Average  decimal.Decimal
	Max      core.Money
}

// ChartPoint is the name/value pair pie charts consume.
type ChartPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Sum accumulates income and expense totals in input order. Amounts are
// integer cents, so the summation is exact and order-independent; an
// empty input yields all zeros.
func Sum(txs []core.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		if tx.Type == core.Income {
			t.Income = t.Income.Add(tx.Amount)
		} else {
			t.Expenses = t.Expenses.Add(tx.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expenses)
	return t
}

// CategoryBreakdown groups expense transactions by category, summing
// amounts and computing each category's share of the expense total.
// Entries are sorted by descending amount; equal amounts keep their
// first-seen order (stable sort). A zero expense total yields zero
// percent for every entry, never a division by zero.
func CategoryBreakdown(txs []core.Transaction) []CategoryTotal {
	var order []core.Category
	sums := make(map[core.Category]core.Money)
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		c := tx.EffectiveCategory()
		if _, ok := sums[c]; !ok {
			order = append(order, c)
		}
		sums[c] = sums[c].Add(tx.Amount)
	}

	var total int64
	for _, m := range sums {
		total += m.Cents
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, c := range order {
		entry := CategoryTotal{Category: c, Amount: sums[c]}
		if total > 0 {
			entry.Percent = decimal.NewFromInt(sums[c].Cents).
				Mul(hundred).
				Div(decimal.NewFromInt(total))
		}
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	return out
}

// CategoryStats computes total, transaction count, average amount and
// largest single transaction per expense category, in first-seen order.
// The average guards the zero-count case and is left unrounded.
func CategoryStats(txs []core.Transaction) []CategoryStat {
	var order []core.Category
	stats := make(map[core.Category]*CategoryStat)
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		c := tx.EffectiveCategory()
		s, ok := stats[c]
		if !ok {
			s = &CategoryStat{Category: c}
			stats[c] = s
			order = append(order, c)
		}
		s.Total = s.Total.Add(tx.Amount)
		s.Count++
		if tx.Amount.Cents > s.Max.Cents {
			s.Max = tx.Amount
		}
	}

	out := make([]CategoryStat, 0, len(order))
	for _, c := range order {
		s := stats[c]
		if s.Count > 0 {
			// Average in currency units, unrounded.
			s.Average = decimal.NewFromInt(s.Total.Cents).
				Div(decimal.NewFromInt(int64(s.Count))).
				Div(hundred)
		}
		out = append(out, *s)
	}
	return out
}

// SavingsRate returns (income-expenses)/income*100, or zero when there
// is no income to rate against.
func SavingsRate(income, expenses core.Money) decimal.Decimal {
	if income.Cents == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(income.Cents - expenses.Cents).
		Mul(hundred).
		Div(decimal.NewFromInt(income.Cents))
}

// PiePoints converts a breakdown into the name/value series pie charts
// consume, preserving the breakdown's descending order.
func PiePoints(breakdown []CategoryTotal) []ChartPoint {
	out := make([]ChartPoint, 0, len(breakdown))
	for _, e := range breakdown {
		out = append(out, ChartPoint{Name: string(e.Category), Value: e.Amount.Float64()})
	}
	return out
}
