package worker

import (
	"context"
	"fmt"
	"log/slog"

	"expensify/internal/amqp"
	"expensify/internal/core"
	"expensify/internal/sheets"
	"expensify/internal/storage"
)

// SyncWorker mirrors locally stored transactions to Google Sheets
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	exporter  sheets.TransactionExporter
	eraser    sheets.TransactionEraser
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, exporter sheets.TransactionExporter, eraser sheets.TransactionEraser, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		exporter:  exporter,
		eraser:    eraser,
		batchSize: batchSize,
	}
}

// HandleMessage dispatches a single queue message by action
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	switch msg.Action {
	case amqp.ActionDelete:
		return w.handleDelete(ctx, msg)
	default:
		return w.handleSync(ctx, msg)
	}
}

func (w *SyncWorker) handleSync(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	tx, err := w.storage.Get(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	return w.exportTransaction(ctx, msg.ID, tx)
}

func (w *SyncWorker) handleDelete(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing delete message", "id", msg.ID)

	if w.eraser == nil {
		slog.WarnContext(ctx, "No eraser configured, skipping sheet deletion",
			"id", msg.ID)
		return nil
	}

	// The row is soft deleted locally but we still need its data to find
	// the matching sheet row.
	tx, err := w.storage.GetAny(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get removed transaction: %w", err)
	}

	if err := w.eraser.Erase(ctx, tx); err != nil {
		slog.ErrorContext(ctx, "Failed to erase transaction from sheet",
			"id", msg.ID,
			"error", err)
		return fmt.Errorf("erase transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction erased from sheet", "id", msg.ID)
	return nil
}

// ProcessPending exports any transactions that haven't been synced yet.
// This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, p := range pending {
		tx, err := w.storage.Get(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get transaction", "id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			continue
		}

		if err := w.exportTransaction(ctx, p.ID, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction", "id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck exports transactions missed while the worker was down.
// Uses a larger batch than the periodic pass.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		tx, err := w.storage.Get(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get transaction for startup sync",
				"id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			errorCount++
			continue
		}

		if err := w.exportTransaction(ctx, p.ID, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction during startup",
				"id", p.ID, "error", err)
			errorCount++
			continue
		}

		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) exportTransaction(ctx context.Context, id int64, tx core.Transaction) error {
	ref, err := w.exporter.Export(ctx, tx)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("export to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
		// Don't return error here - the export actually worked
	}

	slog.InfoContext(ctx, "Successfully synced transaction",
		"id", id,
		"sheets_ref", ref,
		"source", tx.Source,
		"amount_cents", tx.Amount.Cents)

	return nil
}
