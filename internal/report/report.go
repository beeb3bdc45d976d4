// Package report assembles filtered snapshots into export-ready
// summaries and serializes them as CSV or a plain-text statement.
// Binary document encoding (PDF, XLSX) belongs to external renderers;
// this package guarantees the numbers they receive are final and
// rounding-consistent with on-screen display.
package report

import (
	"github.com/shopspring/decimal"

	"expensify/internal/analytics"
	"expensify/internal/core"
)

// Summary is the complete input of a rendered report: totals, the
// per-category breakdown and the filtered transaction list, all derived
// from one snapshot so the figures are mutually consistent.
type Summary struct {
	AccountLabel string
	Range        core.DateRange
	TypeFilter   string
	Totals       analytics.Totals
	SavingsRate  decimal.Decimal
	Breakdown    []analytics.CategoryTotal
	Transactions []core.Transaction
}

// Build narrows the snapshot to the range and type filter and computes
// every derived figure. It is a pure function; calling it twice with
// the same snapshot yields identical summaries.
func Build(txs []core.Transaction, r core.DateRange, typeFilter, accountLabel string) Summary {
	filtered := analytics.ByType(analytics.ByDateRange(txs, r), typeFilter)
	totals := analytics.Sum(filtered)
	return Summary{
		AccountLabel: accountLabel,
		Range:        r,
		TypeFilter:   typeFilter,
		Totals:       totals,
		SavingsRate:  analytics.SavingsRate(totals.Income, totals.Expenses),
		Breakdown:    analytics.CategoryBreakdown(filtered),
		Transactions: filtered,
	}
}
