// Package http exposes the transaction ledger and its analytics over a
// JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"expensify/internal/cache"
	"expensify/internal/ledger"
	"expensify/internal/middleware/ratelimit"
	"expensify/internal/middleware/security"
	"expensify/internal/middleware/trace"
)

// Options tunes server behavior
type Options struct {
	AccountLabel      string
	TrendWeeks        int
	RequestsPerMinute int
}

type Server struct {
	http.Server

	store        ledger.Store
	accountLabel string
	trendWeeks   int

	limiter    *ratelimit.Limiter
	traceMW    *trace.Middleware
	securityMW *security.HeadersMiddleware

	// Analysis and summary responses cached per query string, flushed on
	// every write.
	analysisCache *cache.LRUCache[[]byte]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once

	// now is replaceable in tests
	now func() time.Time
}

// NewServer configures routes and middleware, returning a ready-to-run server
func NewServer(addr string, store ledger.Store, opts Options) *Server {
	if opts.AccountLabel == "" {
		opts.AccountLabel = "Personal Account"
	}
	if opts.TrendWeeks <= 0 {
		opts.TrendWeeks = 12
	}

	mux := http.NewServeMux()

	s := &Server{
		store:        store,
		accountLabel: opts.AccountLabel,
		trendWeeks:   opts.TrendWeeks,

		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RequestsPerMinute,
		}),
		traceMW:    trace.NewMiddleware(extractClientIP),
		securityMW: security.NewHeadersMiddleware(security.DefaultHeadersConfig()),

		analysisCache: cache.NewLRUCache[[]byte](200, 5*time.Minute),
		cacheManager:  cache.NewManager(),

		now: time.Now,
	}

	s.cacheManager.Register(s.analysisCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/transactions", s.handleTransactions)
	mux.HandleFunc("/transactions/", s.handleTransactionByID)

	mux.HandleFunc("/summary", s.handleSummary)
	mux.HandleFunc("/analysis/categories", s.handleCategoryBreakdown)
	mux.HandleFunc("/analysis/stats", s.handleCategoryStats)
	mux.HandleFunc("/analysis/weekly", s.handleWeeklyTrend)
	mux.HandleFunc("/analysis/monthly", s.handleMonthlyByCategory)

	mux.HandleFunc("/reports/csv", s.handleCSVReport)
	mux.HandleFunc("/reports/statement", s.handleStatementReport)

	// Writes are rate limited per client; reads are not.
	limited := s.limiter.Middleware(extractClientIP, nil)
	writeGuard := func(next http.Handler) http.Handler {
		guarded := limited(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost || r.Method == http.MethodDelete {
				guarded.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	s.Server = http.Server{
		Addr:    addr,
		Handler: s.securityMW.Middleware(s.traceMW.Middleware(writeGuard(mux))),
	}

	return s
}

// Handler exposes the full middleware chain, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

// Shutdown gracefully shuts down the server and its cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// invalidateAnalysis drops every cached aggregate after a write
func (s *Server) invalidateAnalysis() {
	s.analysisCache.Clear()
}

// serveCachedJSON returns the cached response body for the request URI,
// or computes, caches and writes it.
func (s *Server) serveCachedJSON(w http.ResponseWriter, r *http.Request, compute func() (any, int, error)) {
	key := r.URL.RequestURI()
	if body, ok := s.analysisCache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	v, status, err := compute()
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	body, err := marshalJSON(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	s.analysisCache.Set(key, body)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
