// Package ledger defines the ports every transaction backend implements.
// The analytics and report packages never talk to a backend directly;
// they operate on snapshots obtained through these interfaces.
package ledger

import (
	"context"
	"errors"

	"expensify/internal/core"
)

var (
	// ErrNotFound is returned when no transaction matches the given id.
	ErrNotFound = errors.New("transaction not found")

	// ErrDuplicateID is returned when appending a transaction whose id
	// already exists in the store.
	ErrDuplicateID = errors.New("duplicate transaction id")
)

type (
	// TransactionAppender persists a new transaction and returns its id.
	// When tx.ID is zero the store allocates the next id.
	TransactionAppender interface {
		Append(ctx context.Context, tx core.Transaction) (int64, error)
	}

	// TransactionLister returns all live transactions in insertion order.
	// Implementations return a snapshot the caller may hold without
	// locking; the store never mutates a returned slice.
	TransactionLister interface {
		List(ctx context.Context) ([]core.Transaction, error)
	}

	// TransactionRemover removes the transaction with the exact id.
	TransactionRemover interface {
		Remove(ctx context.Context, id int64) error
	}

	// TransactionGetter fetches a single transaction by id.
	TransactionGetter interface {
		Get(ctx context.Context, id int64) (core.Transaction, error)
	}

	// Store is the full read/write surface of a transaction backend.
	Store interface {
		TransactionAppender
		TransactionLister
		TransactionRemover
		TransactionGetter
	}
)
