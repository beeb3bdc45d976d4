// Package memory provides an in-memory exporter used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"strconv"
	"sync"

	"expensify/internal/core"
)

type Exporter struct {
	mu   sync.Mutex
	rows []core.Transaction
}

func NewExporter() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Export(ctx context.Context, tx core.Transaction) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rows = append(e.rows, tx)
	return strconv.Itoa(len(e.rows)), nil
}

func (e *Exporter) Erase(ctx context.Context, tx core.Transaction) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, row := range e.rows {
		if row.ID == tx.ID {
			e.rows = append(e.rows[:i], e.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// Rows returns a snapshot of the exported rows
func (e *Exporter) Rows() []core.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]core.Transaction, len(e.rows))
	copy(out, e.rows)
	return out
}
