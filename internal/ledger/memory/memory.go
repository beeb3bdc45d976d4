// Package memory provides the in-memory transaction store. It is the
// default backend: a mutex-guarded, insertion-ordered slice with
// monotonic id allocation.
package memory

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sync"

	"expensify/internal/core"
	"expensify/internal/ledger"
)

type Store struct {
	mu     sync.Mutex
	items  []core.Transaction
	nextID int64
}

func New() *Store {
	return &Store{nextID: 1}
}

// NewFromFiles seeds the store from seed_transactions.csv in the given
// directory (columns: date,time,type,source,category,amount). When the
// file is missing or empty a small sample pair is used instead so a
// fresh instance has something to show.
func NewFromFiles(base string) *Store {
	s := New()
	txs := readSeedFile(filepath.Join(base, "seed_transactions.csv"))
	if len(txs) == 0 {
		txs = sampleTransactions()
	}
	for _, tx := range txs {
		// Seed data is trusted; ids are allocated in file order.
		tx.ID = 0
		if _, err := s.Append(context.Background(), tx); err != nil {
			continue
		}
	}
	return s
}

// Append stores the transaction and returns its id. A zero id is
// replaced by the next monotonic id; an explicit id must be unique.
func (s *Store) Append(_ context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.ID == 0 {
		tx.ID = s.nextID
	} else {
		for _, have := range s.items {
			if have.ID == tx.ID {
				return 0, ledger.ErrDuplicateID
			}
		}
	}
	if tx.ID >= s.nextID {
		s.nextID = tx.ID + 1
	}
	s.items = append(s.items, tx)
	return tx.ID, nil
}

// List returns a copy of all transactions in insertion order.
func (s *Store) List(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out, nil
}

// Get returns the transaction with the given id.
func (s *Store) Get(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.items {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, ledger.ErrNotFound
}

// Remove deletes the transaction with the exact id, preserving the
// order of the remaining records.
func (s *Store) Remove(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tx := range s.items {
		if tx.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

func readSeedFile(path string) []core.Transaction {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 6
	var out []core.Transaction
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out
		}
		tx, ok := parseSeedRecord(rec)
		if !ok {
			continue // header or malformed row
		}
		out = append(out, tx)
	}
	return out
}

func parseSeedRecord(rec []string) (core.Transaction, bool) {
	date, err := core.ParseDate(rec[0])
	if err != nil {
		return core.Transaction{}, false
	}
	amount, err := core.ParseMoney(rec[5])
	if err != nil {
		return core.Transaction{}, false
	}
	tx := core.Transaction{
		Type:   core.TxType(rec[2]),
		Source: rec[3],
		Amount: amount,
		Date:   date,
		Time:   rec[1],
	}
	if tx.Type == core.Expense {
		tx.Category = core.ParseCategory(rec[4])
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, false
	}
	return tx, true
}

func sampleTransactions() []core.Transaction {
	return []core.Transaction{
		{
			Type:   core.Income,
			Source: "Freelance Work",
			Amount: core.Money{Cents: 20000},
			Date:   core.NewDate(2025, 5, 1),
			Time:   "10:00",
		},
		{
			Type:     core.Expense,
			Source:   "-",
			Category: core.CategoryFood,
			Amount:   core.Money{Cents: 5000},
			Date:     core.NewDate(2025, 5, 2),
			Time:     "12:30",
		},
	}
}
