package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"expensify/internal/analytics"
	"expensify/internal/config"
	"expensify/internal/core"
	"expensify/internal/ledger"
	"expensify/internal/ledger/memory"
	"expensify/internal/report"
	"expensify/internal/storage"
)

type reportFlags struct {
	preset  string
	start   string
	end     string
	txType  string
	format  string
	out     string
	backend string
	dbPath  string
	dataDir string
	account string
}

func reportCmd() *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a CSV export or account statement",
		Long: `Reads transactions for the chosen period and writes either a CSV
export or a formatted account statement.

Explicit --start/--end bounds take precedence over --preset.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.preset, "preset", "p", "thisMonth", "Date range preset (today, thisWeek, thisMonth, lastMonth, thisYear, lastYear, week, month, year, all)")
	cmd.Flags().StringVar(&flags.start, "start", "", "Range start (YYYY-MM-DD, requires --end)")
	cmd.Flags().StringVar(&flags.end, "end", "", "Range end (YYYY-MM-DD, requires --start)")
	cmd.Flags().StringVarP(&flags.txType, "type", "t", "all", "Transaction type filter (all, Income, Expense)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "csv", "Output format (csv, statement)")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&flags.backend, "backend", "", "Data backend (memory, sqlite; default: DATA_BACKEND or memory)")
	cmd.Flags().StringVar(&flags.dbPath, "db", "", "SQLite database path (default: SQLITE_DB_PATH)")
	cmd.Flags().StringVar(&flags.dataDir, "data-dir", "data", "Seed data directory for the memory backend")
	cmd.Flags().StringVar(&flags.account, "account", "", "Account label on statements (default: ACCOUNT_LABEL)")

	return cmd
}

func runReport(cmd *cobra.Command, flags reportFlags) error {
	dateRange, err := resolveRange(flags, time.Now())
	if err != nil {
		return err
	}

	if !validType(flags.txType) {
		return fmt.Errorf("invalid type %q, expected all, Income or Expense", flags.txType)
	}

	store, closeStore, err := openStore(flags)
	if err != nil {
		return err
	}
	defer closeStore()

	txs, err := store.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	cfg := config.Load()
	label := flags.account
	if label == "" {
		label = cfg.AccountLabel
	}

	out, closeOut, err := openOutput(flags.out)
	if err != nil {
		return err
	}
	defer closeOut()

	switch flags.format {
	case "csv":
		filtered := analytics.ByType(analytics.ByDateRange(txs, dateRange), flags.txType)
		return report.WriteCSV(out, filtered)
	case "statement":
		summary := report.Build(txs, dateRange, flags.txType, label)
		return report.WriteStatement(out, summary)
	default:
		return fmt.Errorf("invalid format %q, expected csv or statement", flags.format)
	}
}

// resolveRange applies the explicit-bounds-over-preset rule.
func resolveRange(flags reportFlags, now time.Time) (core.DateRange, error) {
	if flags.start != "" || flags.end != "" {
		if flags.start == "" || flags.end == "" {
			return core.DateRange{}, fmt.Errorf("--start and --end must be provided together")
		}
		start, err := core.ParseDate(flags.start)
		if err != nil {
			return core.DateRange{}, fmt.Errorf("invalid --start: %w", err)
		}
		end, err := core.ParseDate(flags.end)
		if err != nil {
			return core.DateRange{}, fmt.Errorf("invalid --end: %w", err)
		}
		return core.NewDateRange(start, end), nil
	}

	preset, err := analytics.ParsePreset(flags.preset)
	if err != nil {
		return core.DateRange{}, err
	}
	return preset.Resolve(now), nil
}

func validType(t string) bool {
	switch {
	case strings.EqualFold(t, analytics.TypeAll):
		return true
	case t == string(core.Income), t == string(core.Expense):
		return true
	}
	return false
}

func openStore(flags reportFlags) (ledger.Store, func(), error) {
	cfg := config.Load()

	backend := flags.backend
	if backend == "" {
		backend = cfg.DataBackend
	}

	switch backend {
	case "sqlite", "sheets":
		dbPath := flags.dbPath
		if dbPath == "" {
			dbPath = cfg.SQLiteDBPath
		}
		repo, err := storage.NewSQLiteRepository(dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite ledger: %w", err)
		}
		return repo, func() { _ = repo.Close() }, nil
	default:
		return memory.NewFromFiles(flags.dataDir), func() {}, nil
	}
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
