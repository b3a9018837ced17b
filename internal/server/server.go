// Package server assembles the HTTP API: routes, middleware chain, and
// lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pairdesk/pairtrader/internal/server/handler"
	"github.com/pairdesk/pairtrader/internal/server/middleware"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // empty disables authentication
}

// Handlers aggregates the HTTP handlers the server registers.
type Handlers struct {
	Health       *handler.HealthHandler
	Analysis     *handler.AnalysisHandler
	Transactions *handler.TransactionsHandler
	LedgerAdmin  *handler.LedgerAdminHandler
}

// Server is the headless HTTP API for the pair trading advisor.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a Server with all routes registered and the middleware
// chain (request id, logging, CORS, auth) applied.
func NewServer(cfg Config, handlers Handlers, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check (no auth required by clients, but the auth middleware is
	// global; operators probe with the key).
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Advisory endpoints.
	mux.HandleFunc("POST /api/analysis", handlers.Analysis.Analyze)
	mux.HandleFunc("GET /api/analysis/chart", handlers.Analysis.Chart)

	// Transaction log endpoints.
	mux.HandleFunc("GET /api/transactions", handlers.Transactions.List)
	mux.HandleFunc("POST /api/transactions", handlers.Transactions.Record)
	mux.HandleFunc("GET /api/holdings", handlers.Transactions.Holdings)

	// Ledger administration.
	mux.HandleFunc("POST /api/ledger/archive", handlers.LedgerAdmin.Archive)
	mux.HandleFunc("POST /api/ledger/import", handlers.LedgerAdmin.Import)

	var h http.Handler = mux
	h = middleware.Auth(cfg.APIKey)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.RequestID()(h)
	h = corsMiddleware(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// errors or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests up to
// the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// corsMiddleware sets CORS headers for the allowed origins; an empty list
// allows all origins.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" {
				allowed := len(allowedOrigins) == 0
				for _, o := range allowedOrigins {
					if strings.EqualFold(o, "*") || strings.EqualFold(o, origin) {
						allowed = true
						break
					}
				}

				if allowed {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")
					w.Header().Set("Access-Control-Max-Age", "86400")
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
