package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"digestbot/internal/observability/tracing"
)

// Server exposes the worker's operational endpoints:
//   - GET /metrics: Prometheus metrics
//   - GET /health: liveness, always 200
//   - GET /health/ready: readiness, 200 once SetReady(true) was called, else 503
//   - GET /health/channels: the enabled delivery channels
type Server struct {
	addr     string
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	channels func() []string
	ready    atomic.Bool
}

type healthResponse struct {
	Status string `json:"status"`
}

type channelsResponse struct {
	Channels []string `json:"channels"`
}

// NewServer creates a server listening on addr. channels lists the enabled
// delivery channels and may be nil.
func NewServer(addr string, logger *slog.Logger, gatherer prometheus.Gatherer, channels func() []string) *Server {
	if channels == nil {
		channels = func() []string { return nil }
	}
	return &Server{
		addr:     addr,
		logger:   logger,
		gatherer: gatherer,
		channels: channels,
	}
}

// Handler returns the traced HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /health", s.handleLiveness)
	mux.HandleFunc("GET /health/ready", s.handleReadiness)
	mux.HandleFunc("GET /health/channels", s.handleChannels)
	return tracing.Middleware(mux)
}

// Start serves until ctx is cancelled, then shuts down within five seconds.
// It returns nil after a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("worker server starting", slog.String("addr", s.addr))
		errChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("worker server shutting down")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Info("worker server stopped")
		return nil

	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// SetReady changes the answer of /health/ready.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
	s.logger.Info("worker readiness changed", slog.Bool("ready", ready))
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	if s.ready.Load() {
		s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
		return
	}
	s.writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "not ready"})
}

func (s *Server) handleChannels(w http.ResponseWriter, _ *http.Request) {
	channels := s.channels()
	if channels == nil {
		channels = []string{}
	}
	s.writeJSON(w, http.StatusOK, channelsResponse{Channels: channels})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", slog.Any("error", err))
	}
}
