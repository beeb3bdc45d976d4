// Package analytics turns transaction snapshots into the numeric
// summaries, breakdowns and trend series that charts and reports
// consume. Every function is pure: it reads the snapshot it is given,
// mutates nothing, and is total for well-formed input.
package analytics

import (
	"strings"

	"expensify/internal/core"
)

// TypeAll is the wildcard accepted by ByType.
const TypeAll = "all"

// ByDateRange retains transactions whose date falls within the range,
// boundaries included. An inverted range selects nothing; that is the
// whole error handling for it.
func ByDateRange(txs []core.Transaction, r core.DateRange) []core.Transaction {
	var out []core.Transaction
	for _, tx := range txs {
		if r.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out
}

// ByType retains transactions of the given type. The filter is either
// a TxType value or the wildcard "all", which selects everything.
func ByType(txs []core.Transaction, filter string) []core.Transaction {
	if strings.EqualFold(filter, TypeAll) || filter == "" {
		return txs
	}
	var out []core.Transaction
	for _, tx := range txs {
		if string(tx.Type) == filter {
			out = append(out, tx)
		}
	}
	return out
}
