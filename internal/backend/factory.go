package backend

import (
	"context"
	"fmt"
	"log/slog"

	"expensify/internal/amqp"
	"expensify/internal/core"
	"expensify/internal/ledger"
	"expensify/internal/ledger/memory"
	"expensify/internal/services"
	"expensify/internal/sheets"
	gsheet "expensify/internal/sheets/google"
	"expensify/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	// AMQP is optional; without it writes stay local only
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	service := services.NewTransactionService(sqliteRepo, amqpClient)

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	return &BackendResult{
		Backend: service,
		Cleanup: service.Close,
	}, nil
}

// createSheetsBackend keeps SQLite as the source of truth and mirrors every
// write to the spreadsheet synchronously, skipping the queue entirely.
func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	cli, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		sqliteRepo.Close()
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend",
		"db_path", config.SQLiteDBPath)

	store := &exportingStore{
		repo:     sqliteRepo,
		exporter: cli,
		eraser:   cli,
	}

	return &BackendResult{
		Backend: store,
		Cleanup: sqliteRepo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}

	store := memory.NewFromFiles(dataDir)

	f.logger.Info("Initialized memory backend", "data_directory", dataDir)

	return &BackendResult{
		Backend: store,
		Cleanup: nil,
	}, nil
}

// exportingStore mirrors ledger writes to a spreadsheet. Export failures are
// logged but never fail the local write.
type exportingStore struct {
	repo     *storage.SQLiteRepository
	exporter sheets.TransactionExporter
	eraser   sheets.TransactionEraser
}

var _ ledger.Store = (*exportingStore)(nil)

func (s *exportingStore) Append(ctx context.Context, tx core.Transaction) (int64, error) {
	id, err := s.repo.Append(ctx, tx)
	if err != nil {
		return 0, err
	}

	stored, err := s.repo.Get(ctx, id)
	if err != nil {
		return id, nil
	}
	if _, err := s.exporter.Export(ctx, stored); err != nil {
		slog.ErrorContext(ctx, "Failed to export transaction to sheet",
			"id", id, "error", err)
		if markErr := s.repo.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return id, nil
	}
	if err := s.repo.MarkSynced(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}
	return id, nil
}

func (s *exportingStore) List(ctx context.Context) ([]core.Transaction, error) {
	return s.repo.List(ctx)
}

func (s *exportingStore) Get(ctx context.Context, id int64) (core.Transaction, error) {
	return s.repo.Get(ctx, id)
}

func (s *exportingStore) Remove(ctx context.Context, id int64) error {
	tx, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Remove(ctx, id); err != nil {
		return err
	}
	if err := s.eraser.Erase(ctx, tx); err != nil {
		slog.ErrorContext(ctx, "Failed to erase transaction from sheet",
			"id", id, "error", err)
	}
	return nil
}
