// Package server exposes the simulation over HTTP for dashboards and
// scripted experiments.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Server is the HTTP adapter around a Hub.
type Server struct {
	hub  *Hub
	addr string
	http *http.Server
}

// NewServer creates a Server listening on addr.
func NewServer(hub *Hub, addr string) *Server {
	s := &Server{hub: hub, addr: addr}
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // websocket streams stay open
	}
	return s
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	r.HandleFunc("/ws", s.handleWS).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/setup", s.handleSetup).Methods("POST")
	api.HandleFunc("/go", s.handleGo).Methods("POST")
	api.HandleFunc("/halt", s.handleHalt).Methods("POST")
	api.HandleFunc("/status", s.handleStatus).Methods("GET")
	api.HandleFunc("/totals", s.handleTotals).Methods("GET")
	api.HandleFunc("/series", s.handleSeries).Methods("GET")
	api.HandleFunc("/snapshot", s.handleSnapshot).Methods("GET")
	return r
}

// Start begins serving. Blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	log.Printf("[INFO] http server listening on %s", s.addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown halts any running simulation and drains the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	// Pre-fill with the loaded config so a partial body overrides only
	// the fields it names. An empty body re-initializes from config.
	base := s.hub.cfg.Simulation
	req := SetupRequest{Simulation: &base}
	if err := dec.Decode(&req); err != nil && err != io.EOF {
		s.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	status, err := s.hub.Setup(req)
	if err != nil {
		if errors.Is(err, ErrRunInProgress) {
			s.respondError(w, http.StatusConflict, err.Error())
			return
		}
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleGo(w http.ResponseWriter, r *http.Request) {
	status, err := s.hub.Go()
	if err != nil {
		s.respondError(w, http.StatusConflict, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleHalt(w http.ResponseWriter, r *http.Request) {
	status, err := s.hub.Halt()
	if err != nil {
		s.respondError(w, http.StatusConflict, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.hub.Status())
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.hub.Totals())
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	series := s.hub.Series()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(series),
		"series": series,
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.hub.Snapshot()
	if err != nil {
		s.respondError(w, http.StatusConflict, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, snap)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
