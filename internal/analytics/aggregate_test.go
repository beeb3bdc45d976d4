package analytics

import (
	"testing"

	"github.com/shopspring/decimal"

	"expensify/internal/core"
)

func TestSumScenario(t *testing.T) {
	// Income 200 on 05-01, Food expense 50 on 05-02.
	txs := []core.Transaction{
		income(20000, core.NewDate(2025, 5, 1)),
		expense(core.CategoryFood, 5000, core.NewDate(2025, 5, 2)),
	}
	got := Sum(txs)
	if got.Income.Cents != 20000 || got.Expenses.Cents != 5000 || got.Balance.Cents != 15000 {
		t.Fatalf("unexpected totals: %+v", got)
	}

	breakdown := CategoryBreakdown(txs)
	if len(breakdown) != 1 || breakdown[0].Category != core.CategoryFood {
		t.Fatalf("unexpected breakdown: %+v", breakdown)
	}
	if !breakdown[0].Percent.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("single category should be 100%%, got %s", breakdown[0].Percent)
	}
}

func TestSumEmpty(t *testing.T) {
	got := Sum(nil)
	if got.Income.Cents != 0 || got.Expenses.Cents != 0 || got.Balance.Cents != 0 {
		t.Fatalf("empty input must be all zeros: %+v", got)
	}
	if b := CategoryBreakdown(nil); len(b) != 0 {
		t.Fatalf("empty breakdown expected, got %+v", b)
	}
	if !SavingsRate(core.Money{}, core.Money{}).IsZero() {
		t.Fatalf("savings rate of nothing should be zero")
	}
}

func TestBalanceInvariant(t *testing.T) {
	txs := []core.Transaction{
		income(12345, core.NewDate(2025, 1, 1)),
		expense(core.CategoryBills, 678, core.NewDate(2025, 1, 2)),
		expense(core.CategoryOther, 910, core.NewDate(2025, 1, 3)),
		income(11, core.NewDate(2025, 1, 4)),
	}
	got := Sum(txs)
	if got.Balance.Cents != got.Income.Cents-got.Expenses.Cents {
		t.Fatalf("balance must equal income-expenses: %+v", got)
	}
}

func TestBreakdownPartitionsExpenseTotal(t *testing.T) {
	txs := []core.Transaction{
		expense(core.CategoryFood, 3000, core.NewDate(2025, 1, 1)),
		expense(core.CategoryFood, 7000, core.NewDate(2025, 1, 2)),
		expense(core.CategoryTravel, 10000, core.NewDate(2025, 1, 3)),
		expense("", 500, core.NewDate(2025, 1, 4)), // normalizes to Other
		income(99999, core.NewDate(2025, 1, 5)),
	}
	totals := Sum(txs)
	breakdown := CategoryBreakdown(txs)

	var sum int64
	percent := decimal.Zero
	for _, e := range breakdown {
		sum += e.Amount.Cents
		percent = percent.Add(e.Percent)
	}
	if sum != totals.Expenses.Cents {
		t.Fatalf("breakdown must partition the expense total: %d != %d", sum, totals.Expenses.Cents)
	}
	diff := percent.Sub(decimal.NewFromInt(100)).Abs()
	if diff.GreaterThan(decimal.NewFromFloat(0.0001)) {
		t.Fatalf("percentages should sum to ~100, got %s", percent)
	}
}

func TestBreakdownTieBreakFirstSeen(t *testing.T) {
	// Food 30+70 and Travel 100 tie at 100; Food appeared first.
	txs := []core.Transaction{
		expense(core.CategoryFood, 3000, core.NewDate(2025, 1, 1)),
		expense(core.CategoryFood, 7000, core.NewDate(2025, 1, 2)),
		expense(core.CategoryTravel, 10000, core.NewDate(2025, 1, 3)),
	}
	got := CategoryBreakdown(txs)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Category != core.CategoryFood || got[1].Category != core.CategoryTravel {
		t.Fatalf("ties keep first-seen order: %+v", got)
	}
	if !got[0].Percent.Equal(decimal.NewFromInt(50)) || !got[1].Percent.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected 50/50 split: %s / %s", got[0].Percent, got[1].Percent)
	}
}

func TestBreakdownSortedDescending(t *testing.T) {
	txs := []core.Transaction{
		expense(core.CategoryBills, 100, core.NewDate(2025, 1, 1)),
		expense(core.CategoryFood, 900, core.NewDate(2025, 1, 2)),
		expense(core.CategoryTravel, 500, core.NewDate(2025, 1, 3)),
	}
	got := CategoryBreakdown(txs)
	for i := 1; i < len(got); i++ {
		if got[i].Amount.Cents > got[i-1].Amount.Cents {
			t.Fatalf("not sorted descending: %+v", got)
		}
	}
}

func TestCategoryStats(t *testing.T) {
	txs := []core.Transaction{
		expense(core.CategoryFood, 3000, core.NewDate(2025, 1, 1)),
		expense(core.CategoryFood, 7000, core.NewDate(2025, 1, 2)),
		expense(core.CategoryTravel, 10000, core.NewDate(2025, 1, 3)),
	}
	got := CategoryStats(txs)
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	food := got[0]
	if food.Category != core.CategoryFood || food.Count != 2 || food.Total.Cents != 10000 {
		t.Fatalf("food stats: %+v", food)
	}
	if !food.Average.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("food average should be 50.00, got %s", food.Average)
	}
	if food.Max.Cents != 7000 {
		t.Fatalf("food max: %+v", food.Max)
	}
}

func TestSavingsRate(t *testing.T) {
	cases := []struct {
		income, expenses int64
		want             string
	}{
		{20000, 5000, "75"},
		{10000, 10000, "0"},
		{10000, 15000, "-50"},
		{0, 5000, "0"}, // no income, never a division by zero
	}
	for _, tc := range cases {
		got := SavingsRate(core.Money{Cents: tc.income}, core.Money{Cents: tc.expenses})
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("savings(%d,%d): expected %s, got %s", tc.income, tc.expenses, tc.want, got)
		}
	}
}

func TestPiePoints(t *testing.T) {
	txs := []core.Transaction{
		expense(core.CategoryShopping, 40000, core.NewDate(2025, 1, 1)),
		expense(core.CategoryFood, 30000, core.NewDate(2025, 1, 2)),
	}
	got := PiePoints(CategoryBreakdown(txs))
	if len(got) != 2 || got[0].Name != "Shopping" || got[0].Value != 400 {
		t.Fatalf("unexpected pie points: %+v", got)
	}
}
