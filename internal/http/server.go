// Package http exposes the ledger over a JSON API: free-text queries,
// file imports and insight reports.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"vibe/internal/cache"
	"vibe/internal/core"
	"vibe/internal/log"
	"vibe/internal/middleware/ratelimit"
	"vibe/internal/middleware/security"
	"vibe/internal/middleware/trace"
	"vibe/internal/services"
)

// queryAnswer is the cached result of one free-text query.
type queryAnswer struct {
	Summary string
	Results core.Ledger
}

// Options tunes the server's cache and rate limiting.
type Options struct {
	CacheSize          int
	CacheTTL           time.Duration
	RateLimitPerMinute int
	Logger             *log.Logger
}

// DefaultOptions returns the settings used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		CacheSize:          128,
		CacheTTL:           time.Minute,
		RateLimitPerMinute: 60,
		Logger:             log.New(log.DefaultConfig()),
	}
}

type Server struct {
	http.Server
	svc          *services.LedgerService
	rateLimiter  *ratelimit.Limiter
	queryCache   *cache.LRUCache[queryAnswer]
	cacheManager *cache.Manager
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, svc *services.LedgerService, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}

	mux := http.NewServeMux()

	s := &Server{
		svc: svc,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		queryCache:   cache.NewLRUCache[queryAnswer](opts.CacheSize, opts.CacheTTL),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.queryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)
	mux.HandleFunc("POST /api/query", s.handleQuery)
	mux.HandleFunc("POST /api/import", s.handleImport)
	mux.HandleFunc("GET /api/insights/overview", s.handleOverview)
	mux.HandleFunc("GET /api/insights/anomalies", s.handleAnomalies)
	mux.HandleFunc("GET /api/insights/forecast", s.handleForecast)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(clientIP)
	limited := s.rateLimiter.Middleware(clientIP, nil)

	handler := headers.Middleware(tracer.Middleware(limited(log.Middleware(opts.Logger.WithComponent(log.ComponentHTTP))(mux))))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
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
