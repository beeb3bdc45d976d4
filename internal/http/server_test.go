package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"expensify/internal/core"
	"expensify/internal/ledger/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store := memory.New()
	ctx := context.Background()
	seed := []core.Transaction{
		{Type: core.Income, Source: "Freelance Work", Amount: core.Money{Cents: 20000}, Date: core.NewDate(2025, 5, 1), Time: "10:00"},
		{Type: core.Expense, Source: "-", Category: core.CategoryFood, Amount: core.Money{Cents: 5000}, Date: core.NewDate(2025, 5, 2), Time: "12:30"},
		{Type: core.Expense, Source: "-", Category: core.CategoryTravel, Amount: core.Money{Cents: 3000}, Date: core.NewDate(2025, 4, 10)},
	}
	for _, tx := range seed {
		if _, err := store.Append(ctx, tx); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	s := NewServer(":0", store, Options{AccountLabel: "Personal Account", TrendWeeks: 12})
	s.now = func() time.Time { return time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(t, s, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s returned %d", path, rec.Code)
		}
	}
}

func TestListTransactionsDefaultsToThisMonth(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/transactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Count        int `json:"count"`
		Transactions []struct {
			Source string `json:"source"`
			Amount string `json:"amount"`
		} `json:"transactions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// April expense falls outside the May window
	if resp.Count != 2 {
		t.Fatalf("expected 2 transactions in May, got %d", resp.Count)
	}
	if resp.Transactions[0].Amount != "200.00" {
		t.Errorf("unexpected amount formatting: %q", resp.Transactions[0].Amount)
	}
}

func TestListTransactionsTypeFilter(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/transactions?preset=all&type=Expense", "")
	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("expected 2 expenses, got %d", resp.Count)
	}
}

func TestListTransactionsLowercaseTypeFilter(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/transactions?preset=all&type=income", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Type         string `json:"type"`
		Count        int    `json:"count"`
		Transactions []struct {
			Type string `json:"type"`
		} `json:"transactions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Type != "Income" {
		t.Errorf("filter should be echoed canonically, got %q", resp.Type)
	}
	if resp.Count != 1 {
		t.Fatalf("lowercase type filter matched %d transactions, want 1", resp.Count)
	}
	if resp.Transactions[0].Type != "Income" {
		t.Fatalf("unexpected transaction type: %q", resp.Transactions[0].Type)
	}
}

func TestCreateTransaction(t *testing.T) {
	s := newTestServer(t)

	body := `{"type":"Expense","source":"Cinema","category":"Entertainment","amount":"15.50","date":"2025-05-10","time":"20:00"}`
	rec := doRequest(t, s, http.MethodPost, "/transactions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}

	var resp struct {
		ID       int64  `json:"id"`
		Amount   string `json:"amount"`
		Category string `json:"category"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID == 0 || resp.Amount != "15.50" || resp.Category != "Entertainment" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCreateTransactionRejectsBadInput(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"bad amount", `{"type":"Expense","source":"x","category":"Food","amount":"abc","date":"2025-05-10"}`, http.StatusUnprocessableEntity},
		{"negative amount", `{"type":"Expense","source":"x","category":"Food","amount":"-5","date":"2025-05-10"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"type":"Expense","source":"x","category":"Food","amount":"5","date":"10/05/2025"}`, http.StatusUnprocessableEntity},
		{"bad type", `{"type":"Transfer","source":"x","category":"Food","amount":"5","date":"2025-05-10"}`, http.StatusUnprocessableEntity},
		{"empty source", `{"type":"Expense","source":"","category":"Food","amount":"5","date":"2025-05-10"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, "/transactions", tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestGetAndDeleteTransaction(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/transactions/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodDelete, "/transactions/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/transactions/1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodDelete, "/transactions/999", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing id, got %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/transactions/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/summary?preset=thisMonth", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Totals struct {
			Income   string `json:"income"`
			Expenses string `json:"expenses"`
			Balance  string `json:"balance"`
		} `json:"totals"`
		SavingsRate string `json:"savings_rate"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Totals.Income != "200.00" || resp.Totals.Expenses != "50.00" || resp.Totals.Balance != "150.00" {
		t.Fatalf("unexpected totals: %+v", resp.Totals)
	}
	if resp.SavingsRate != "75" {
		t.Fatalf("unexpected savings rate: %q", resp.SavingsRate)
	}
}

func TestCategoryBreakdownEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/analysis/categories?preset=all", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Categories []struct {
			Category string `json:"category"`
			Amount   string `json:"amount"`
			Percent  string `json:"percent"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(resp.Categories))
	}
	if resp.Categories[0].Category != "Food" || resp.Categories[0].Percent != "62.5" {
		t.Fatalf("unexpected leading category: %+v", resp.Categories[0])
	}
}

func TestWeeklyTrendEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/analysis/weekly", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Weeks  int `json:"weeks"`
		Points []struct {
			Label string `json:"label"`
		} `json:"points"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Weeks != 12 || len(resp.Points) != 12 {
		t.Fatalf("expected 12 weekly buckets, got %d/%d", resp.Weeks, len(resp.Points))
	}
	if resp.Points[0].Label != "Week 1" {
		t.Fatalf("unexpected first label: %q", resp.Points[0].Label)
	}
}

func TestMonthlyEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/analysis/monthly?preset=thisYear", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Categories []string `json:"categories"`
		Points     []struct {
			Label   string            `json:"label"`
			Amounts map[string]string `json:"amounts"`
		} `json:"points"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Points) != 12 {
		t.Fatalf("expected 12 monthly buckets, got %d", len(resp.Points))
	}
	if resp.Points[0].Label != "Jan" {
		t.Fatalf("unexpected first month label: %q", resp.Points[0].Label)
	}
}

func TestCSVReportEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/reports/csv?preset=thisMonth", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type: %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "transactions-2025-05-01-to-2025-05-15.csv") {
		t.Fatalf("unexpected disposition: %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "Freelance Work") {
		t.Fatal("expected income row in CSV body")
	}
}

func TestStatementReportEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/reports/statement?preset=thisMonth", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	for _, want := range []string{"ACCOUNT STATEMENT", "Personal Account", "150.00", "75%"} {
		if !strings.Contains(body, want) {
			t.Fatalf("statement missing %q:\n%s", want, body)
		}
	}
}

func TestInvalidQueryParams(t *testing.T) {
	s := newTestServer(t)

	for _, target := range []string{
		"/summary?preset=fortnight",
		"/transactions?start=2025-01-01",
		"/analysis/categories?type=Transfer",
	} {
		rec := doRequest(t, s, http.MethodGet, target, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestAnalysisCacheInvalidation(t *testing.T) {
	s := newTestServer(t)

	first := doRequest(t, s, http.MethodGet, "/summary?preset=thisMonth", "")
	if first.Code != http.StatusOK {
		t.Fatalf("status %d", first.Code)
	}

	body := `{"type":"Income","source":"Bonus","amount":"100","date":"2025-05-12"}`
	if rec := doRequest(t, s, http.MethodPost, "/transactions", body); rec.Code != http.StatusCreated {
		t.Fatalf("create status %d: %s", rec.Code, rec.Body)
	}

	second := doRequest(t, s, http.MethodGet, "/summary?preset=thisMonth", "")
	var resp struct {
		Totals struct {
			Income string `json:"income"`
		} `json:"totals"`
	}
	if err := json.Unmarshal(second.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Totals.Income != "300.00" {
		t.Fatalf("cache not invalidated after write, income %q", resp.Totals.Income)
	}
}

// failingStore errors on every read, standing in for a broken backend.
type failingStore struct{}

func (failingStore) Append(context.Context, core.Transaction) (int64, error) {
	return 0, errors.New("backend down")
}

func (failingStore) List(context.Context) ([]core.Transaction, error) {
	return nil, errors.New("backend down")
}

func (failingStore) Get(context.Context, int64) (core.Transaction, error) {
	return core.Transaction{}, errors.New("backend down")
}

func (failingStore) Remove(context.Context, int64) error {
	return errors.New("backend down")
}

func TestBackendFailureReturns500(t *testing.T) {
	s := NewServer(":0", failingStore{}, Options{})
	s.now = func() time.Time { return time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { s.Shutdown(context.Background()) })

	for _, target := range []string{
		"/summary",
		"/analysis/categories",
		"/analysis/stats",
		"/analysis/monthly",
		"/reports/csv",
	} {
		rec := doRequest(t, s, http.MethodGet, target, "")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s: expected 500 on backend failure, got %d", target, rec.Code)
		}
	}

	// A bad query on the same endpoints is still the client's fault.
	rec := doRequest(t, s, http.MethodGet, "/summary?preset=fortnight", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad preset, got %d", rec.Code)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/summary", "")
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("expected security headers on responses")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPut, "/transactions", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	rec = doRequest(t, s, http.MethodPost, "/summary", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for POST /summary, got %d", rec.Code)
	}
}
