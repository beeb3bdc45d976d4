package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"expensify/internal/analytics"
	"expensify/internal/core"
	"expensify/internal/ledger"
)

type transactionResponse struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Source   string `json:"source"`
	Category string `json:"category,omitempty"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
	Time     string `json:"time,omitempty"`
}

func toTransactionResponse(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:       tx.ID,
		Type:     string(tx.Type),
		Source:   tx.Source,
		Category: string(tx.Category),
		Amount:   tx.Amount.String(),
		Date:     tx.Date.String(),
		Time:     tx.Time,
	}
}

type createTransactionRequest struct {
	Type     string `json:"type"`
	Source   string `json:"source"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTransactions(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	params, err := ParseRangeParams(r.URL.Query(), s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := s.store.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction list error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	filtered := analytics.ByType(analytics.ByDateRange(txs, params.Range), params.TypeFilter)
	out := make([]transactionResponse, 0, len(filtered))
	for _, tx := range filtered {
		out = append(out, toTransactionResponse(tx))
	}

	writeJSON(w, http.StatusOK, struct {
		Start        string                `json:"start"`
		End          string                `json:"end"`
		Type         string                `json:"type"`
		Count        int                   `json:"count"`
		Transactions []transactionResponse `json:"transactions"`
	}{
		Start:        params.Range.Start.String(),
		End:          params.Range.End.String(),
		Type:         params.TypeFilter,
		Count:        len(out),
		Transactions: out,
	})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	date, err := core.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
		return
	}

	tx := core.Transaction{
		Type:     core.TxType(strings.TrimSpace(req.Type)),
		Source:   sanitizeInput(req.Source),
		Category: core.ParseCategory(req.Category),
		Amount:   core.Money{Cents: cents},
		Date:     date,
		Time:     sanitizeInput(req.Time),
	}
	if tx.Type == core.Income {
		tx.Category = ""
	}
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.store.Append(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction append error",
			"error", err,
			"source", tx.Source,
			"amount_cents", tx.Amount.Cents)
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}
	tx.ID = id

	s.invalidateAnalysis()
	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/transactions/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		tx, err := s.store.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				writeError(w, http.StatusNotFound, "transaction not found")
				return
			}
			slog.ErrorContext(r.Context(), "Transaction get error", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load transaction")
			return
		}
		writeJSON(w, http.StatusOK, toTransactionResponse(tx))

	case http.MethodDelete:
		if err := s.store.Remove(r.Context(), id); err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				writeError(w, http.StatusNotFound, "transaction not found")
				return
			}
			slog.ErrorContext(r.Context(), "Transaction remove error", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to remove transaction")
			return
		}
		s.invalidateAnalysis()
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "GET, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
