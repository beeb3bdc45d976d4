package storage

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB and *sql.Tx the queries need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// TransactionRow mirrors the transactions table.
type TransactionRow struct {
	ID          int64
	TxType      string
	Source      string
	Category    string
	AmountCents int64
	TxDate      string
	TxTime      string
	CreatedAt   string
	SyncStatus  string
	Version     int64
}

const createTransaction = `
INSERT INTO transactions (tx_type, source, category, amount_cents, tx_date, tx_time)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, tx_type, source, category, amount_cents, tx_date, tx_time, created_at, sync_status, version
`

type CreateTransactionParams struct {
	TxType      string
	Source      string
	Category    string
	AmountCents int64
	TxDate      string
	TxTime      string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (TransactionRow, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.TxType,
		arg.Source,
		arg.Category,
		arg.AmountCents,
		arg.TxDate,
		arg.TxTime,
	)
	var t TransactionRow
	err := row.Scan(
		&t.ID,
		&t.TxType,
		&t.Source,
		&t.Category,
		&t.AmountCents,
		&t.TxDate,
		&t.TxTime,
		&t.CreatedAt,
		&t.SyncStatus,
		&t.Version,
	)
	return t, err
}

const getTransaction = `
SELECT id, tx_type, source, category, amount_cents, tx_date, tx_time, created_at, sync_status, version
FROM transactions
WHERE id = ? AND deleted_at IS NULL
`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (TransactionRow, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id)
	var t TransactionRow
	err := row.Scan(
		&t.ID,
		&t.TxType,
		&t.Source,
		&t.Category,
		&t.AmountCents,
		&t.TxDate,
		&t.TxTime,
		&t.CreatedAt,
		&t.SyncStatus,
		&t.Version,
	)
	return t, err
}

const getTransactionAny = `
SELECT id, tx_type, source, category, amount_cents, tx_date, tx_time, created_at, sync_status, version
FROM transactions
WHERE id = ?
`

// GetTransactionAny fetches a row regardless of soft deletion. The sync
// worker uses it to reconcile deletes against the exported sheet.
func (q *Queries) GetTransactionAny(ctx context.Context, id int64) (TransactionRow, error) {
	row := q.db.QueryRowContext(ctx, getTransactionAny, id)
	var t TransactionRow
	err := row.Scan(
		&t.ID,
		&t.TxType,
		&t.Source,
		&t.Category,
		&t.AmountCents,
		&t.TxDate,
		&t.TxTime,
		&t.CreatedAt,
		&t.SyncStatus,
		&t.Version,
	)
	return t, err
}

const listTransactions = `
SELECT id, tx_type, source, category, amount_cents, tx_date, tx_time, created_at, sync_status, version
FROM transactions
WHERE deleted_at IS NULL
ORDER BY id
`

func (q *Queries) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []TransactionRow
	for rows.Next() {
		var t TransactionRow
		if err := rows.Scan(
			&t.ID,
			&t.TxType,
			&t.Source,
			&t.Category,
			&t.AmountCents,
			&t.TxDate,
			&t.TxTime,
			&t.CreatedAt,
			&t.SyncStatus,
			&t.Version,
		); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const softDeleteTransaction = `
UPDATE transactions
SET deleted_at = CURRENT_TIMESTAMP
WHERE id = ? AND deleted_at IS NULL
`

func (q *Queries) SoftDeleteTransaction(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, softDeleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getPendingSyncTransactions = `
SELECT id, tx_type, source, category, amount_cents, tx_date, tx_time, created_at, sync_status, version
FROM transactions
WHERE sync_status = 'pending' AND deleted_at IS NULL
ORDER BY id
LIMIT ?
`

func (q *Queries) GetPendingSyncTransactions(ctx context.Context, limit int64) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, getPendingSyncTransactions, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []TransactionRow
	for rows.Next() {
		var t TransactionRow
		if err := rows.Scan(
			&t.ID,
			&t.TxType,
			&t.Source,
			&t.Category,
			&t.AmountCents,
			&t.TxDate,
			&t.TxTime,
			&t.CreatedAt,
			&t.SyncStatus,
			&t.Version,
		); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const markTransactionSynced = `
UPDATE transactions
SET sync_status = 'synced', version = version + 1
WHERE id = ?
`

func (q *Queries) MarkTransactionSynced(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markTransactionSynced, id)
	return err
}

const markTransactionSyncError = `
UPDATE transactions
SET sync_status = 'error'
WHERE id = ?
`

func (q *Queries) MarkTransactionSyncError(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markTransactionSyncError, id)
	return err
}
