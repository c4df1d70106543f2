// Package api serves the read-only query surface next to the ingestion task.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trungle-dev/ethtribute/internal/core/domain"
	"github.com/trungle-dev/ethtribute/internal/infra/storage"
)

// HealthFunc reports whether the storage backend is reachable.
type HealthFunc func(ctx context.Context) error

// Server provides HTTP endpoints for recorded transfers and donations.
type Server struct {
	transfers storage.TransferRepository
	donations storage.DonationRepository
	health    HealthFunc // may be nil
	server    *http.Server
}

// NewServer creates the API server on the given port.
func NewServer(transfers storage.TransferRepository, donations storage.DonationRepository, health HealthFunc, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		transfers: transfers,
		donations: donations,
		health:    health,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("/transfers", s.handleTransfers)
	mux.HandleFunc("/donations", s.handleDonations)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) handleTransfers(w http.ResponseWriter, r *http.Request) {
	rows, err := s.transfers.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if rows == nil {
		rows = []*domain.Transfer{}
	}
	writeJSON(w, rows)
}

func (s *Server) handleDonations(w http.ResponseWriter, r *http.Request) {
	rows, err := s.donations.ListActive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if rows == nil {
		rows = []*domain.Donation{}
	}
	writeJSON(w, rows)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			writeError(w, err)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
