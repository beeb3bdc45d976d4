package services

import (
	"context"
	"fmt"
	"log/slog"

	"expensify/internal/amqp"
	"expensify/internal/core"
	"expensify/internal/storage"
)

// TransactionService orchestrates transaction writes across SQLite and AMQP
type TransactionService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewTransactionService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateTransaction saves a transaction locally and publishes a sync message
func (s *TransactionService) CreateTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	// Save to SQLite first (fast, reliable)
	id, err := s.storage.Append(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	// Publish async sync message (non-blocking, version 1 for new transactions)
	if err := s.publishSyncMessage(ctx, id, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "error", err)
		// Don't fail the request - transaction is saved locally
	}

	return id, nil
}

// RemoveTransaction soft deletes a transaction locally and publishes a delete message
func (s *TransactionService) RemoveTransaction(ctx context.Context, id int64) error {
	if err := s.storage.Remove(ctx, id); err != nil {
		return err
	}

	if err := s.publishDeleteMessage(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"id", id, "error", err)
		// Don't fail the request - transaction is removed locally
	}

	return nil
}

// Append implements ledger.TransactionAppender via CreateTransaction
func (s *TransactionService) Append(ctx context.Context, tx core.Transaction) (int64, error) {
	return s.CreateTransaction(ctx, tx)
}

// Remove implements ledger.TransactionRemover via RemoveTransaction
func (s *TransactionService) Remove(ctx context.Context, id int64) error {
	return s.RemoveTransaction(ctx, id)
}

// List implements ledger.TransactionLister
func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	return s.storage.List(ctx)
}

// Get implements ledger.TransactionGetter
func (s *TransactionService) Get(ctx context.Context, id int64) (core.Transaction, error) {
	return s.storage.Get(ctx, id)
}

func (s *TransactionService) publishSyncMessage(ctx context.Context, id, version int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}

	return s.amqpClient.PublishTransactionSync(ctx, id, version)
}

func (s *TransactionService) publishDeleteMessage(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping delete message")
		return nil
	}

	return s.amqpClient.PublishTransactionDelete(ctx, id)
}

// Close closes both storage and AMQP connections
func (s *TransactionService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}

	return nil
}
