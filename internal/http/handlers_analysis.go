package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"expensify/internal/analytics"
	"expensify/internal/core"
)

type rangeResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func toRangeResponse(r core.DateRange) rangeResponse {
	return rangeResponse{Start: r.Start.String(), End: r.End.String()}
}

type totalsResponse struct {
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Balance  string `json:"balance"`
}

func toTotalsResponse(t analytics.Totals) totalsResponse {
	return totalsResponse{
		Income:   t.Income.String(),
		Expenses: t.Expenses.String(),
		Balance:  t.Balance.String(),
	}
}

// loadFiltered fetches the ledger snapshot and narrows it to the request's
// window and type filter. The returned status distinguishes a bad query
// from a backend failure.
func (s *Server) loadFiltered(r *http.Request) ([]core.Transaction, RangeParams, int, error) {
	params, err := ParseRangeParams(r.URL.Query(), s.now())
	if err != nil {
		return nil, params, http.StatusBadRequest, err
	}

	txs, err := s.store.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction list error", "error", err)
		return nil, params, http.StatusInternalServerError, fmt.Errorf("failed to list transactions")
	}

	return analytics.ByType(analytics.ByDateRange(txs, params.Range), params.TypeFilter), params, http.StatusOK, nil
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.serveCachedJSON(w, r, func() (any, int, error) {
		filtered, params, status, err := s.loadFiltered(r)
		if err != nil {
			return nil, status, err
		}

		totals := analytics.Sum(filtered)
		return struct {
			Account     string         `json:"account"`
			Range       rangeResponse  `json:"range"`
			Type        string         `json:"type"`
			Count       int            `json:"count"`
			Totals      totalsResponse `json:"totals"`
			SavingsRate string         `json:"savings_rate"`
		}{
			Account:     s.accountLabel,
			Range:       toRangeResponse(params.Range),
			Type:        params.TypeFilter,
			Count:       len(filtered),
			Totals:      toTotalsResponse(totals),
			SavingsRate: analytics.SavingsRate(totals.Income, totals.Expenses).Round(1).String(),
		}, http.StatusOK, nil
	})
}

func (s *Server) handleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.serveCachedJSON(w, r, func() (any, int, error) {
		filtered, params, status, err := s.loadFiltered(r)
		if err != nil {
			return nil, status, err
		}

		breakdown := analytics.CategoryBreakdown(filtered)
		type entry struct {
			Category string `json:"category"`
			Amount   string `json:"amount"`
			Percent  string `json:"percent"`
		}
		entries := make([]entry, 0, len(breakdown))
		for _, b := range breakdown {
			entries = append(entries, entry{
				Category: string(b.Category),
				Amount:   b.Amount.String(),
				Percent:  b.Percent.Round(1).String(),
			})
		}

		return struct {
			Range      rangeResponse         `json:"range"`
			Categories []entry               `json:"categories"`
			Pie        []analytics.ChartPoint `json:"pie"`
		}{
			Range:      toRangeResponse(params.Range),
			Categories: entries,
			Pie:        analytics.PiePoints(breakdown),
		}, http.StatusOK, nil
	})
}

func (s *Server) handleCategoryStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.serveCachedJSON(w, r, func() (any, int, error) {
		filtered, params, status, err := s.loadFiltered(r)
		if err != nil {
			return nil, status, err
		}

		stats := analytics.CategoryStats(filtered)
		type entry struct {
			Category string `json:"category"`
			Total    string `json:"total"`
			Count    int    `json:"count"`
			Average  string `json:"average"`
			Max      string `json:"max"`
		}
		entries := make([]entry, 0, len(stats))
		for _, st := range stats {
			entries = append(entries, entry{
				Category: string(st.Category),
				Total:    st.Total.String(),
				Count:    st.Count,
				Average:  st.Average.Round(2).String(),
				Max:      st.Max.String(),
			})
		}

		return struct {
			Range rangeResponse `json:"range"`
			Stats []entry       `json:"stats"`
		}{
			Range: toRangeResponse(params.Range),
			Stats: entries,
		}, http.StatusOK, nil
	})
}

func (s *Server) handleWeeklyTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.serveCachedJSON(w, r, func() (any, int, error) {
		txs, err := s.store.List(r.Context())
		if err != nil {
			return nil, http.StatusInternalServerError, fmt.Errorf("failed to list transactions")
		}

		trend := analytics.WeeklyTrend(txs, s.trendWeeks, s.now())
		type point struct {
			Label   string `json:"label"`
			Income  string `json:"income"`
			Expense string `json:"expense"`
			Balance string `json:"balance"`
		}
		points := make([]point, 0, len(trend))
		for _, p := range trend {
			points = append(points, point{
				Label:   p.Label,
				Income:  p.Income.String(),
				Expense: p.Expense.String(),
				Balance: p.Balance.String(),
			})
		}

		return struct {
			Weeks  int     `json:"weeks"`
			Points []point `json:"points"`
		}{Weeks: s.trendWeeks, Points: points}, http.StatusOK, nil
	})
}

func (s *Server) handleMonthlyByCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.serveCachedJSON(w, r, func() (any, int, error) {
		filtered, params, status, err := s.loadFiltered(r)
		if err != nil {
			return nil, status, err
		}

		series := analytics.MonthlyByCategory(filtered)

		categories := make([]string, 0, len(series.Categories))
		for _, c := range series.Categories {
			categories = append(categories, string(c))
		}

		type point struct {
			Month   int               `json:"month"`
			Label   string            `json:"label"`
			Amounts map[string]string `json:"amounts"`
		}
		points := make([]point, 0, len(series.Points))
		for _, p := range series.Points {
			amounts := make(map[string]string, len(p.Amounts))
			for c, amt := range p.Amounts {
				amounts[string(c)] = amt.String()
			}
			points = append(points, point{
				Month:   int(p.Month),
				Label:   p.Label,
				Amounts: amounts,
			})
		}

		return struct {
			Range      rangeResponse `json:"range"`
			Categories []string      `json:"categories"`
			Points     []point       `json:"points"`
		}{
			Range:      toRangeResponse(params.Range),
			Categories: categories,
			Points:     points,
		}, http.StatusOK, nil
	})
}
