package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"expensify/internal/core"
	"expensify/internal/ledger"
	"expensify/internal/storage"
)

func newTestService(t *testing.T) *TransactionService {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "svc.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	svc := NewTransactionService(repo, nil)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestCreateTransactionWithoutAMQP(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.CreateTransaction(context.Background(), core.Transaction{
		Type:   core.Income,
		Source: "Freelance Work",
		Amount: core.Money{Cents: 20000},
		Date:   core.NewDate(2025, 5, 1),
		Time:   "10:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}
}

func TestRemoveTransactionWithoutAMQP(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.CreateTransaction(ctx, core.Transaction{
		Type:     core.Expense,
		Source:   "-",
		Category: core.CategoryFood,
		Amount:   core.Money{Cents: 5000},
		Date:     core.NewDate(2025, 5, 2),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.RemoveTransaction(ctx, id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.RemoveTransaction(ctx, id); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCloseNilComponents(t *testing.T) {
	svc := &TransactionService{}
	if err := svc.Close(); err != nil {
		t.Fatalf("Close should not fail with nil components: %v", err)
	}
}
