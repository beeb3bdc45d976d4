package sheets

import (
	"context"

	"expensify/internal/core"
)

// TransactionExporter appends a transaction to an external sheet and
// returns a backend-specific reference for the written row.
type TransactionExporter interface {
	Export(ctx context.Context, tx core.Transaction) (string, error)
}

// TransactionEraser removes a previously exported transaction. Erasure is
// by row data rather than reference since spreadsheet rows shift.
type TransactionEraser interface {
	Erase(ctx context.Context, tx core.Transaction) error
}
