// Package http exposes the dashboard API: JSON view endpoints computed by
// the analytics service plus record ingest endpoints.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"gradeview/internal/metrics"
	"gradeview/internal/middleware/ratelimit"
	"gradeview/internal/middleware/security"
	"gradeview/internal/middleware/trace"
	"gradeview/internal/services"
)

type Server struct {
	http.Server

	analytics *services.AnalyticsService
	records   *services.RecordService

	limiter  *ratelimit.Limiter
	detector *security.Detector

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, analytics *services.AnalyticsService, records *services.RecordService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		analytics: analytics,
		records:   records,
		limiter:   ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:  security.NewDetector(),
	}

	// View endpoints
	mux.HandleFunc("GET /api/orders/calendar", s.handleOrdersCalendar)
	mux.HandleFunc("GET /api/orders/monthly", s.handleOrdersMonthly)
	mux.HandleFunc("GET /api/orders/sellers", s.handleTopSellers)
	mux.HandleFunc("GET /api/posts/calendar", s.handlePostsCalendar)
	mux.HandleFunc("GET /api/scans/calendar", s.handleScansCalendar)
	mux.HandleFunc("GET /api/scans/grades", s.handleScanGrades)
	mux.HandleFunc("GET /api/dashboard/summary", s.handleDashboardSummary)

	// Ingest endpoints, rate limited per client IP
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimit)
	mux.Handle("POST /api/orders", limited(http.HandlerFunc(s.handleCreateOrder)))
	mux.Handle("POST /api/posts", limited(http.HandlerFunc(s.handleCreatePost)))
	mux.Handle("POST /api/scans", limited(http.HandlerFunc(s.handleCreateScan)))
	mux.Handle("POST /api/reports/export", limited(http.HandlerFunc(s.handleRequestExport)))

	// Operational endpoints
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /ready", handleReady)
	mux.Handle("GET /metrics", metrics.Handler())

	tracer := trace.NewMiddleware(s.detector.ExtractClientIP, metrics.ObserveRequest)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	s.Server = http.Server{
		Addr:    addr,
		Handler: headers.Middleware(tracer.Middleware(s.guard(mux))),
	}

	return s
}

// guard rejects requests that look like scanner probes before they reach
// the router.
func (s *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "60")
	http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
}

// Shutdown stops the HTTP server and the rate limiter cleanup goroutine.
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

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// requestTimeout bounds every handler's downstream work.
const requestTimeout = 7 * time.Second
