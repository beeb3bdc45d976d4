package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"expensify/internal/report"
)

func (s *Server) handleCSVReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filtered, params, status, err := s.loadFiltered(r)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, filtered); err != nil {
		slog.ErrorContext(r.Context(), "CSV export error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build export")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", report.CSVFilename(params.Range)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleStatementReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

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

	summary := report.Build(txs, params.Range, params.TypeFilter, s.accountLabel)

	var buf bytes.Buffer
	if err := report.WriteStatement(&buf, summary); err != nil {
		slog.ErrorContext(r.Context(), "Statement export error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build statement")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", report.StatementFilename(params.Range)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
