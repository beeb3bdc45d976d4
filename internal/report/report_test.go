package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"expensify/internal/analytics"
	"expensify/internal/core"
)

func sampleTxs() []core.Transaction {
	return []core.Transaction{
		{ID: 1, Type: core.Income, Source: "Freelance Work", Amount: core.Money{Cents: 20000}, Date: core.NewDate(2025, 5, 1), Time: "10:00"},
		{ID: 2, Type: core.Expense, Source: "-", Category: core.CategoryFood, Amount: core.Money{Cents: 5000}, Date: core.NewDate(2025, 5, 2), Time: "12:30"},
		{ID: 3, Type: core.Expense, Source: "-", Category: core.CategoryTravel, Amount: core.Money{Cents: 3000}, Date: core.NewDate(2025, 6, 10), Time: "09:00"},
	}
}

func TestBuildFiltersAndComputes(t *testing.T) {
	r := core.NewDateRange(core.NewDate(2025, 5, 1), core.NewDate(2025, 5, 31))
	s := Build(sampleTxs(), r, analytics.TypeAll, "Personal Account")

	if len(s.Transactions) != 2 {
		t.Fatalf("expected 2 filtered transactions, got %d", len(s.Transactions))
	}
	if s.Totals.Income.Cents != 20000 || s.Totals.Expenses.Cents != 5000 || s.Totals.Balance.Cents != 15000 {
		t.Fatalf("totals: %+v", s.Totals)
	}
	if !s.SavingsRate.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("savings rate: %s", s.SavingsRate)
	}
	if len(s.Breakdown) != 1 || s.Breakdown[0].Category != core.CategoryFood {
		t.Fatalf("breakdown: %+v", s.Breakdown)
	}
}

func TestBuildTypeFilter(t *testing.T) {
	r := core.NewDateRange(core.NewDate(2025, 1, 1), core.NewDate(2025, 12, 31))
	s := Build(sampleTxs(), r, "Expense", "")
	if len(s.Transactions) != 2 || s.Totals.Income.Cents != 0 {
		t.Fatalf("expense-only summary: %+v", s)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleTxs()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "Date,Time,Type,Source,Category,Amount" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "2025-05-01,10:00,Income,Freelance Work,,200.00" {
		t.Fatalf("unexpected income row: %q", lines[1])
	}
	if lines[2] != "2025-05-02,12:30,Expense,-,Food,50.00" {
		t.Fatalf("unexpected expense row: %q", lines[2])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "Date,Time,Type,Source,Category,Amount" {
		t.Fatalf("empty export should still carry the header: %q", buf.String())
	}
}

func TestWriteStatement(t *testing.T) {
	r := core.NewDateRange(core.NewDate(2025, 5, 1), core.NewDate(2025, 5, 31))
	s := Build(sampleTxs(), r, analytics.TypeAll, "Personal Account")

	var buf bytes.Buffer
	if err := WriteStatement(&buf, s); err != nil {
		t.Fatalf("write statement: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Statement Period: 2025-05-01 to 2025-05-31",
		"Total Income:",
		"Total Expenses:",
		"Net Balance:",
		"150.00",
		"75%",
		"Food",
		"+200.00",
		"-50.00",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("statement missing %q:\n%s", want, out)
		}
	}
}

func TestFilenames(t *testing.T) {
	r := core.NewDateRange(core.NewDate(2025, 5, 1), core.NewDate(2025, 5, 31))
	if got := CSVFilename(r); got != "transactions-2025-05-01-to-2025-05-31.csv" {
		t.Fatalf("csv filename: %q", got)
	}
	if got := StatementFilename(r); got != "statement-2025-05-01-to-2025-05-31.txt" {
		t.Fatalf("statement filename: %q", got)
	}
}
