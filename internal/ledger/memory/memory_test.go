package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"expensify/internal/core"
	"expensify/internal/ledger"
)

func tx(typ core.TxType, source string, cat core.Category, cents int64, date core.Date) core.Transaction {
	return core.Transaction{
		Type:     typ,
		Source:   source,
		Category: cat,
		Amount:   core.Money{Cents: cents},
		Date:     date,
	}
}

func TestAppendAllocatesMonotonicIDs(t *testing.T) {
	s := New()
	ctx := context.Background()

	id1, err := s.Append(ctx, tx(core.Income, "Salary", "", 100000, core.NewDate(2025, 5, 1)))
	if err != nil || id1 != 1 {
		t.Fatalf("first append: id=%d err=%v", id1, err)
	}
	id2, err := s.Append(ctx, tx(core.Expense, "Lunch", core.CategoryFood, 1200, core.NewDate(2025, 5, 2)))
	if err != nil || id2 != 2 {
		t.Fatalf("second append: id=%d err=%v", id2, err)
	}

	// Explicit id bumps the counter past it.
	want := tx(core.Expense, "Train", core.CategoryTravel, 900, core.NewDate(2025, 5, 3))
	want.ID = 10
	if _, err := s.Append(ctx, want); err != nil {
		t.Fatalf("explicit id append: %v", err)
	}
	id4, err := s.Append(ctx, tx(core.Income, "Refund", "", 500, core.NewDate(2025, 5, 4)))
	if err != nil || id4 != 11 {
		t.Fatalf("append after explicit id: id=%d err=%v", id4, err)
	}
}

func TestAppendRejectsDuplicateID(t *testing.T) {
	s := New()
	ctx := context.Background()
	first := tx(core.Income, "Salary", "", 100, core.NewDate(2025, 5, 1))
	first.ID = 7
	if _, err := s.Append(ctx, first); err != nil {
		t.Fatalf("append: %v", err)
	}
	dup := tx(core.Expense, "Lunch", core.CategoryFood, 100, core.NewDate(2025, 5, 2))
	dup.ID = 7
	if _, err := s.Append(ctx, dup); !errors.Is(err, ledger.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestAppendValidates(t *testing.T) {
	s := New()
	bad := tx(core.Expense, "Lunch", core.CategoryFood, 0, core.NewDate(2025, 5, 1))
	if _, err := s.Append(context.Background(), bad); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestRemovePreservesOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	for i, src := range []string{"a", "b", "c"} {
		if _, err := s.Append(ctx, tx(core.Income, src, "", 100, core.NewDate(2025, 5, i+1))); err != nil {
			t.Fatalf("append %q: %v", src, err)
		}
	}

	if err := s.Remove(ctx, 2); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("unexpected survivors: %+v", got)
	}

	if err := s.Remove(ctx, 99); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListReturnsSnapshot(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, err := s.Append(ctx, tx(core.Income, "Salary", "", 100, core.NewDate(2025, 5, 1))); err != nil {
		t.Fatalf("append: %v", err)
	}
	snap, _ := s.List(ctx)
	snap[0].Source = "mutated"
	again, _ := s.List(ctx)
	if again[0].Source != "Salary" {
		t.Fatalf("snapshot mutation leaked into store")
	}
}

func TestGet(t *testing.T) {
	s := New()
	ctx := context.Background()
	id, _ := s.Append(ctx, tx(core.Expense, "Lunch", core.CategoryFood, 1200, core.NewDate(2025, 5, 2)))
	got, err := s.Get(ctx, id)
	if err != nil || got.Source != "Lunch" {
		t.Fatalf("get: tx=%+v err=%v", got, err)
	}
	if _, err := s.Get(ctx, 42); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewFromFilesSeedsAndFallsBack(t *testing.T) {
	dir := t.TempDir()

	// No file -> built-in samples.
	s := NewFromFiles(dir)
	got, _ := s.List(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected sample pair, got %d", len(got))
	}

	seed := "date,time,type,source,category,amount\n" +
		"2025-05-01,10:00,Income,Freelance Work,,200\n" +
		"2025-05-02,12:30,Expense,-,Food,50\n" +
		"bogus,,,,,\n"
	if err := os.WriteFile(filepath.Join(dir, "seed_transactions.csv"), []byte(seed), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	s = NewFromFiles(dir)
	got, _ = s.List(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected 2 seeded transactions, got %d", len(got))
	}
	if got[0].Type != core.Income || got[0].Amount.Cents != 20000 {
		t.Fatalf("unexpected first seed: %+v", got[0])
	}
	if got[1].Category != core.CategoryFood {
		t.Fatalf("unexpected second seed: %+v", got[1])
	}
}
