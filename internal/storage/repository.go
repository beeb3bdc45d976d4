package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"expensify/internal/core"
	"expensify/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements ledger.TransactionAppender
func (r *SQLiteRepository) Append(ctx context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		TxType:      string(tx.Type),
		Source:      tx.Source,
		Category:    string(tx.Category),
		AmountCents: tx.Amount.Cents,
		TxDate:      tx.Date.String(),
		TxTime:      tx.Time,
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return 0, ledger.ErrDuplicateID
		}
		return 0, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", row.ID,
		"tx_type", row.TxType,
		"source", row.Source,
		"amount_cents", row.AmountCents,
		"date", row.TxDate)

	return row.ID, nil
}

// List implements ledger.TransactionLister
func (r *SQLiteRepository) List(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	txs := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := rowToTransaction(row)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// Get implements ledger.TransactionGetter
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, ledger.ErrNotFound
		}
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return rowToTransaction(row)
}

// GetAny fetches a transaction even if it was soft deleted
func (r *SQLiteRepository) GetAny(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransactionAny(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, ledger.ErrNotFound
		}
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return rowToTransaction(row)
}

// Remove implements ledger.TransactionRemover. Rows are soft deleted so
// the sync worker can still reconcile exports against them.
func (r *SQLiteRepository) Remove(ctx context.Context, id int64) error {
	affected, err := r.queries.SoftDeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if affected == 0 {
		return ledger.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction removed", "id", id)
	return nil
}

// PendingSyncTransaction represents minimal data needed for sync queue messages
type PendingSyncTransaction struct {
	ID        int64
	Version   int64
	CreatedAt time.Time
}

// GetPendingSyncTransactions returns transactions that still need to be
// exported to Google Sheets
func (r *SQLiteRepository) GetPendingSyncTransactions(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := r.queries.GetPendingSyncTransactions(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}

	pending := make([]PendingSyncTransaction, len(rows))
	for i, row := range rows {
		createdAt, _ := time.Parse("2006-01-02 15:04:05", row.CreatedAt)
		pending[i] = PendingSyncTransaction{
			ID:        row.ID,
			Version:   row.Version,
			CreatedAt: createdAt,
		}
	}
	return pending, nil
}

// MarkSynced marks a transaction as successfully exported
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if err := r.queries.MarkTransactionSynced(ctx, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}

	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError marks a transaction as having export errors
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if err := r.queries.MarkTransactionSyncError(ctx, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}

	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

func rowToTransaction(row TransactionRow) (core.Transaction, error) {
	date, err := core.ParseDate(row.TxDate)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", row.TxDate, err)
	}
	return core.Transaction{
		ID:       row.ID,
		Type:     core.TxType(row.TxType),
		Source:   row.Source,
		Category: core.Category(row.Category),
		Amount:   core.Money{Cents: row.AmountCents},
		Date:     date,
		Time:     row.TxTime,
	}, nil
}
