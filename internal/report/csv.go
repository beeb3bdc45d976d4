package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"expensify/internal/core"
)

// csvHeader is the export contract shared with spreadsheet importers.
var csvHeader = []string{"Date", "Time", "Type", "Source", "Category", "Amount"}

// WriteCSV writes the transactions as CSV, one row per transaction in
// store order. Income rows leave the category column empty.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range txs {
		row := []string{
			tx.Date.String(),
			tx.Time,
			string(tx.Type),
			tx.Source,
			string(tx.Category),
			tx.Amount.String(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", tx.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// CSVFilename names a CSV export after its range, the way the UI names
// downloaded files.
func CSVFilename(r core.DateRange) string {
	return "transactions-" + r.Start.String() + "-to-" + r.End.String() + ".csv"
}

// StatementFilename names a statement export after its range.
func StatementFilename(r core.DateRange) string {
	return "statement-" + r.Start.String() + "-to-" + r.End.String() + ".txt"
}
