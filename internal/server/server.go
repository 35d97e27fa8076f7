// Package server exposes a contact book over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nonibytes/contactrank/contactrank"
	"github.com/nonibytes/contactrank/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// Server serves search requests against one Book.
type Server struct {
	book     *contactrank.Book
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// New wires the handlers. reg receives the search metrics and backs /metrics.
func New(book *contactrank.Book, reg *prometheus.Registry, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := metrics.NewMetrics()
	if err := m.Register(reg); err != nil {
		return nil, err
	}
	return &Server{book: book, metrics: m, gatherer: reg, logger: logger}, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return mux
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "backend", s.book.Backend())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type searchResponse struct {
	Items []contactrank.Contact `json:"items"`
	Count int                   `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("q") {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing q parameter"})
		return
	}
	limit := contactrank.DefaultSearchLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	start := time.Now()
	matches, err := s.book.Search(r.Context(), q.Get("q"), contactrank.SearchOptions{Limit: limit})
	elapsed := time.Since(start)

	switch {
	case contactrank.IsKind(err, contactrank.ErrNoMatches):
		s.metrics.ObserveSearch(metrics.OutcomeNoMatches, elapsed, 0)
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no entries found"})
		return
	case err != nil:
		s.metrics.ObserveSearch(metrics.OutcomeError, elapsed, 0)
		s.logger.Error("search failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	s.metrics.ObserveSearch(metrics.OutcomeMatched, elapsed, len(matches))
	resp := searchResponse{Items: make([]contactrank.Contact, 0, len(matches)), Count: len(matches)}
	for _, m := range matches {
		resp.Items = append(resp.Items, m.Contact)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.book.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", "error", err)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
