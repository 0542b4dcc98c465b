// Package http exposes the JSON API: authentication, transaction CRUD,
// dashboard aggregates, exchange rates, preferences and insights.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/cdJohnEl/PocketLens/internal/auth"
	"github.com/cdJohnEl/PocketLens/internal/backend"
	"github.com/cdJohnEl/PocketLens/internal/insights"
	"github.com/cdJohnEl/PocketLens/internal/middleware/ratelimit"
	"github.com/cdJohnEl/PocketLens/internal/middleware/security"
	"github.com/cdJohnEl/PocketLens/internal/middleware/trace"
	"github.com/cdJohnEl/PocketLens/internal/prefs"
	"github.com/cdJohnEl/PocketLens/internal/rates"
	"github.com/cdJohnEl/PocketLens/internal/services"
)

type contextKey string

const userContextKey contextKey = "user"

// Deps carries everything the server needs.
type Deps struct {
	Auth         *auth.Service
	Transactions *services.TransactionService
	Store        backend.Store
	Prefs        *prefs.Service
	Insights     *insights.Service
	Rates        *rates.Gateway
}

type Server struct {
	http.Server

	auth     *auth.Service
	txns     *services.TransactionService
	store    backend.Store
	prefs    *prefs.Service
	insights *insights.Service
	rates    *rates.Gateway

	limiter      *ratelimit.Limiter
	detector     *security.Detector
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		auth:     deps.Auth,
		txns:     deps.Transactions,
		store:    deps.Store,
		prefs:    deps.Prefs,
		insights: deps.Insights,
		rates:    deps.Rates,
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector: security.NewDetector(),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/auth/signup", s.handleSignUp)
	mux.HandleFunc("POST /api/auth/signin", s.handleSignIn)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/auth/me", s.requireUser(s.handleMe))

	mux.HandleFunc("GET /api/transactions", s.requireUser(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.requireUser(s.handleCreateTransaction))
	mux.HandleFunc("PATCH /api/transactions/{id}", s.requireUser(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.requireUser(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/dashboard", s.requireUser(s.handleDashboard))
	mux.HandleFunc("GET /api/reports", s.requireUser(s.handleReports))

	mux.HandleFunc("GET /api/exchange-rates", s.handleExchangeRates)
	mux.HandleFunc("GET /api/categories", s.handleCategories)

	mux.HandleFunc("GET /api/ai-insights", s.requireUser(s.handleCachedInsight))
	mux.HandleFunc("POST /api/ai-insights", s.requireUser(s.handleGenerateTips))
	mux.HandleFunc("POST /api/scan-receipt", s.requireUser(s.handleScanReceipt))

	mux.HandleFunc("GET /api/preferences", s.requireUser(s.handleGetPreferences))
	mux.HandleFunc("PUT /api/preferences", s.requireUser(s.handlePutPreferences))

	// Rate limit writes only; reads are cheap and cache-backed.
	limited := s.limitWrites(mux)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	traced := trace.NewMiddleware(s.detector.ExtractClientIP)

	s.Server = http.Server{
		Addr:    addr,
		Handler: traced.Middleware(headers.Middleware(s.flagSuspicious(limited))),
	}
	return s
}

// flagSuspicious logs requests matching known probe patterns. They are
// served normally; the signal is for operators, not enforcement.
func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Suspicious request pattern",
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", s.detector.ExtractClientIP(r))
		}
		next.ServeHTTP(w, r)
	})
}

// limitWrites applies the per-IP limiter to mutating methods only.
func (s *Server) limitWrites(next http.Handler) http.Handler {
	writeLimiter := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		writeError(w, r, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
	})(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			writeLimiter.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// requireUser resolves the bearer token to a user and stores it on the
// request context.
func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, r, http.StatusUnauthorized, "missing bearer token")
			return
		}
		user, err := s.auth.CurrentUser(token)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "invalid or expired session")
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// currentUser returns the user placed on the context by requireUser.
func currentUser(r *http.Request) auth.User {
	user, _ := r.Context().Value(userContextKey).(auth.User)
	return user
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.ListTransactions(r.Context(), "readiness-probe"); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown stops the HTTP server and background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
