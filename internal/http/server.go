// Package http exposes the trip, payment, calendar, and assistant
// operations as a JSON API. Handlers stay thin: decode, call the
// service, encode. Anything resembling business logic lives below.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"guideos/internal/cache"
	"guideos/internal/core"
	"guideos/internal/log"
	"guideos/internal/services"
	"guideos/internal/store"
)

type Server struct {
	http.Server
	trips     *services.Trips
	payments  *services.Payments
	assistant *services.Assistant
	st        *store.Store
	logger    *log.Logger

	rateLimiter *rateLimiter
	gridCache   *cache.LRUCache[calendarResponse]
	now         func() time.Time

	stopInvalidation func()
	shutdownOnce     sync.Once
}

// Option configures a Server.
type Option func(*Server)

// WithClock replaces the wall clock used for "today" in the calendar
// grid. Tests pin it to get stable IsToday cells.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer configures routes and starts the cache invalidation
// listener, returning a ready-to-run server.
func NewServer(addr string, trips *services.Trips, payments *services.Payments, assistant *services.Assistant, st *store.Store, logger *log.Logger, opts ...Option) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		trips:       trips,
		payments:    payments,
		assistant:   assistant,
		st:          st,
		logger:      logger.WithComponent(log.ComponentHTTP),
		rateLimiter: newRateLimiter(),
		gridCache:   newGridCache(),
		now:         time.Now,
	}
	for _, o := range opts {
		o(s)
	}

	// Any rewrite of either collection may change a cached grid.
	ch, cancel := st.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range ch {
			s.gridCache.Purge()
		}
	}()
	s.stopInvalidation = func() {
		cancel()
		<-done
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/trips", s.withChrome(s.handleListTrips))
	mux.HandleFunc("POST /api/trips", s.withChrome(s.handleUpsertTrip))
	mux.HandleFunc("DELETE /api/trips/{id}", s.withChrome(s.handleDeleteTrip))
	mux.HandleFunc("POST /api/trips/{id}/toggle", s.withChrome(s.handleToggleTrip))

	mux.HandleFunc("GET /api/payments", s.withChrome(s.handleListPayments))
	mux.HandleFunc("POST /api/payments", s.withChrome(s.handleUpsertPayment))
	mux.HandleFunc("DELETE /api/payments/{id}", s.withChrome(s.handleDeletePayment))
	mux.HandleFunc("GET /api/payments/totals", s.withChrome(s.handlePaymentTotals))

	mux.HandleFunc("GET /api/calendar/{year}/{month}", s.withChrome(s.handleCalendar))

	mux.HandleFunc("POST /api/assistant/chat", s.withChrome(s.handleAssistantChat))
	mux.HandleFunc("POST /api/assistant/plan", s.withChrome(s.handleAssistantPlan))

	mux.HandleFunc("GET /api/events", s.handleEvents)

	return s
}

func newGridCache() *cache.LRUCache[calendarResponse] {
	// Small TTL so IsToday rolls over without a write; 36 months covers
	// any realistic amount of back-and-forth browsing.
	return cache.NewLRUCache[calendarResponse](36, time.Minute)
}

// withChrome adds request ids, security headers, rate limiting on
// writes, and request logging.
func (s *Server) withChrome(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ip := clientIP(r)
		requestID := generateRequestID()
		logger := s.logger.With(log.FieldRequestID, requestID)
		ctx := log.WithLogger(r.Context(), logger)
		r = r.WithContext(ctx)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(ip) {
			logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, ip,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		fields := log.NewFields().
			WithHTTPRequest(r.Method, r.URL.Path).
			WithHTTPResponse(rw.statusCode, time.Since(start).Milliseconds()).
			WithClientIP(ip)
		logger.InfoContext(ctx, "Request completed", fields.ToSlice()...)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Shutdown stops the invalidation listener and rate limiter before
// draining in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.stopInvalidation != nil {
			s.stopInvalidation()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready once the store answers. A broken backend
// shows up here as a failed (and logged) load, not a hang.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	store.Load[core.Trip](r.Context(), s.st, store.TripsKey)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
