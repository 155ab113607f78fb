// Package httpapi exposes the licensing agent over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/brolli/brolli/internal/agent"
	"github.com/brolli/brolli/internal/apierr"
	"github.com/brolli/brolli/internal/catalog"
	"github.com/brolli/brolli/internal/chat"
	"github.com/brolli/brolli/internal/metrics"
	"github.com/brolli/brolli/internal/risk"
	"github.com/brolli/brolli/internal/voucher"
	"github.com/brolli/brolli/internal/worker"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 20

// Options wires the services behind the router. Limiter and Metrics may be
// nil.
type Options struct {
	Catalog   *catalog.Catalog
	Issuer    *voucher.Issuer
	Engine    *risk.Engine
	Responder *agent.Responder
	Chat      *chat.Service
	Limiter   *worker.Limiter
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

type Server struct {
	catalog   *catalog.Catalog
	issuer    *voucher.Issuer
	engine    *risk.Engine
	responder *agent.Responder
	chat      *chat.Service
	limiter   *worker.Limiter
	log       *zap.Logger
	metrics   *metrics.Metrics
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Server{
		catalog:   opts.Catalog,
		issuer:    opts.Issuer,
		engine:    opts.Engine,
		responder: opts.Responder,
		chat:      opts.Chat,
		limiter:   opts.Limiter,
		log:       opts.Logger,
		metrics:   opts.Metrics,
	}
}

// Handler builds the chi router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, apierr.New(http.StatusNotFound, "not_found", errors.New("Not found")))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, apierr.New(http.StatusMethodNotAllowed, "method_not_allowed", errors.New("Method not allowed")))
	})

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimit)

		r.Post("/license/authorize", s.handleIssue(voucher.VariantAgent))
		r.Post("/license/purchase", s.handleIssue(voucher.VariantPurchase))
		r.Post("/license/purchase-human", s.handleIssue(voucher.VariantHuman))
		r.Post("/agents/purchase-batch", s.handleBatch)

		r.Get("/risk/assess", s.handleListVerticals)
		r.Post("/risk/assess", s.handleAssess)

		r.Post("/brolli/chat", s.handleChat)
		r.Post("/brolli/classify", s.handleClassify)
		r.Post("/brolli/coverage", s.handleCoverage)
	})

	return r
}

// SweepLimiter drops idle rate-limit buckets every interval until ctx ends
func (s *Server) SweepLimiter(ctx context.Context, interval time.Duration) {
	if s.limiter == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.limiter.Sweep(); n > 0 {
				s.log.Debug("rate limiter swept", zap.Int("removed", n))
			}
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.metrics.ObserveHTTP(r.Method, route, status, elapsed)

		s.log.Info("http request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("elapsed", elapsed))
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientKey(r)) {
			w.Header().Set("Retry-After", "1")
			writeError(w, apierr.New(http.StatusTooManyRequests, "rate_limited", errors.New("Too many requests")))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError renders {error, code, ...details}
func writeError(w http.ResponseWriter, err error) {
	ae := apierr.As(err)
	body := make(map[string]any, len(ae.Details)+2)
	for k, v := range ae.Details {
		body[k] = v
	}
	body["error"] = ae.Error()
	body["code"] = ae.Code
	writeJSON(w, ae.Status, body)
}

// decodeJSON reads a size-bounded JSON body into dst. An empty body decodes
// as an empty object.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apierr.New(http.StatusRequestEntityTooLarge, "body_too_large", errors.New("Request body too large"))
		}
		return apierr.Validation("invalid_json", errors.New("Invalid JSON body"))
	}
	return nil
}
