package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"expensify/internal/core"
)

// WriteStatement renders the summary as a plain-text account statement:
// period header, totals, category breakdown with percentages and the
// transaction table with signed amounts. All rounding to two decimals
// (one for percentages) happens here, never in the aggregation.
func WriteStatement(w io.Writer, s Summary) error {
	label := s.AccountLabel
	if label == "" {
		label = "Personal Account"
	}

	fmt.Fprintln(w, "ACCOUNT STATEMENT")
	fmt.Fprintf(w, "Account: %s\n", label)
	fmt.Fprintf(w, "Statement Period: %s to %s\n", s.Range.Start, s.Range.End)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "SUMMARY")
	fmt.Fprintf(w, "  Total Income:    %12s\n", s.Totals.Income)
	fmt.Fprintf(w, "  Total Expenses:  %12s\n", s.Totals.Expenses)
	fmt.Fprintf(w, "  Net Balance:     %12s\n", s.Totals.Balance)
	fmt.Fprintf(w, "  Savings Rate:    %11s%%\n", s.SavingsRate.Round(1))
	fmt.Fprintln(w)

	if len(s.Breakdown) > 0 {
		fmt.Fprintln(w, "EXPENSES BY CATEGORY")
		for _, e := range s.Breakdown {
			fmt.Fprintf(w, "  %-15s %12s  (%s%%)\n", e.Category, e.Amount, e.Percent.Round(1))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "TRANSACTIONS")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  DATE\tTIME\tTYPE\tSOURCE\tCATEGORY\tAMOUNT")
	for _, tx := range s.Transactions {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\n",
			tx.Date, tx.Time, tx.Type, tx.Source, tx.Category, signedAmount(tx))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush statement table: %w", err)
	}
	return nil
}

// signedAmount prefixes the amount with its direction, the way the
// on-screen transaction table shows it.
func signedAmount(tx core.Transaction) string {
	if tx.Type == core.Income {
		return "+" + tx.Amount.String()
	}
	return "-" + tx.Amount.String()
}
