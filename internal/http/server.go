// Package http serves the reconciliation API. Views are recomputed
// per request from the record set and cached briefly per session;
// mutations invalidate by bumping a generation folded into the cache
// key.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"ricevute/internal/cache"
	"ricevute/internal/middleware/ratelimit"
	"ricevute/internal/middleware/security"
	"ricevute/internal/middleware/trace"
	"ricevute/internal/services"
	"ricevute/internal/session"
)

type Server struct {
	http.Server

	views    *services.ViewService
	reviews  *services.ReviewService
	sessions *session.Manager

	limiter   *ratelimit.Limiter
	detector  *security.Detector
	snapCache *cache.LRUCache[*services.Snapshot]
	cacheMgr  *cache.Manager

	// generation invalidates cached snapshots after any mutation.
	generation   int64
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, views *services.ViewService, reviews *services.ReviewService, sessions *session.Manager) *Server {
	mux := http.NewServeMux()

	s := &Server{
		views:     views,
		reviews:   reviews,
		sessions:  sessions,
		limiter:   ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:  security.NewDetector(),
		snapCache: cache.NewLRUCache[*services.Snapshot](500, 30*time.Second),
		cacheMgr:  cache.NewManager(),
	}
	s.cacheMgr.Register(s.snapCache)
	s.cacheMgr.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /api/periods", s.handlePeriods)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/aggregates", s.handleAggregates)
	mux.HandleFunc("GET /api/chart", s.handleChart)
	mux.HandleFunc("GET /api/audit", s.handleAudit)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/records/{id}", s.handleGetRecord)
	mux.HandleFunc("POST /api/budget", s.handleSetBudget)
	mux.HandleFunc("POST /api/audit/resolve", s.handleResolveRisk)
	mux.HandleFunc("POST /api/pay", s.handleRecordPayment)
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	headers := security.NewHeadersMiddleware(apiHeadersConfig())
	tracer := trace.NewMiddleware(s.detector.ExtractClientIP)

	var handler http.Handler = mux
	handler = s.postRateLimit(handler)
	handler = s.suspicionLog(handler)
	handler = headers.Middleware(handler)
	handler = tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func apiHeadersConfig() security.HeadersConfig {
	cfg := security.DefaultHeadersConfig()
	// JSON API, no scripts or styles served.
	cfg.CSP = "default-src 'none'; frame-ancestors 'none'"
	return cfg
}

// suspicionLog records requests matching known probe patterns. They
// are logged, not blocked.
func (s *Server) suspicionLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Suspicious request detected",
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", s.detector.ExtractClientIP(r))
		}
		next.ServeHTTP(w, r)
	})
}

// postRateLimit limits mutations only; reads are cached and cheap.
func (s *Server) postRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && !s.limiter.Allow(s.detector.ExtractClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) bumpGeneration() {
	atomic.AddInt64(&s.generation, 1)
}

func (s *Server) snapshotKey(sessionID string, params viewParams) string {
	gen := atomic.LoadInt64(&s.generation)
	return fmt.Sprintf("%s|%d|%s|%s|%t", sessionID, gen, params.Period, params.Sort.Key, params.Sort.Descending)
}

// Shutdown stops background cleanup and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheMgr.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
