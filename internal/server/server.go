// Package server exposes the published snapshot as a small read-only
// JSON API. It never writes to the store.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cwarden/dmarc-report-viewer/internal/dmarc"
	"github.com/cwarden/dmarc-report-viewer/internal/state"
)

type Server struct {
	store  *state.Store
	logger *log.Logger
	srv    *http.Server
}

func New(addr string, store *state.Store, logger *log.Logger) *Server {
	s := &Server{store: store, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/mails", s.handleMails)
	mux.HandleFunc("GET /api/reports", s.handleReports)
	mux.HandleFunc("GET /api/xml-errors", s.handleXMLErrors)

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the route table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", s.srv.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	s.writeJSON(w, snap.Summary)
}

func (s *Server) handleMails(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	if snap.Mails == nil {
		snap.Mails = []state.MailInfo{}
	}
	s.writeJSON(w, snap.Mails)
}

func (s *Server) handleReports(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	if snap.Reports == nil {
		snap.Reports = []dmarc.Report{}
	}
	s.writeJSON(w, snap.Reports)
}

func (s *Server) handleXMLErrors(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	if snap.XMLErrors == nil {
		snap.XMLErrors = []dmarc.XMLError{}
	}
	s.writeJSON(w, snap.XMLErrors)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("could not write response", "err", err)
	}
}
