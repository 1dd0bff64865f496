package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"racebell/internal/race"
)

// Server exposes the current race listing as JSON over a local HTTP socket,
// re-fetching on a cron cadence. It keeps the latest snapshot in memory and
// swaps it wholesale on each refresh.
type Server struct {
	source race.Source
	mux    *http.ServeMux
	cron   *cron.Cron

	mu   sync.RWMutex
	last race.FetchResult
}

func New(source race.Source) *Server {
	s := &Server{
		source: source,
		mux:    http.NewServeMux(),
		cron:   cron.New(),
	}
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/races", s.handleRaces)
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Refresh fetches a new listing and replaces the snapshot. Fetch never
// errors; a transport failure comes back as an empty, mock-tagged result.
func (s *Server) Refresh(ctx context.Context) {
	res := s.source.Fetch(ctx)

	s.mu.Lock()
	s.last = res
	s.mu.Unlock()

	log.Printf("refreshed listing: %d races (source=%s)", len(res.Races), res.Source)
}

func (s *Server) snapshot() race.FetchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Run serves until ctx is cancelled, refreshing once up front and then on the
// given cron spec.
func (s *Server) Run(ctx context.Context, listen, cronSpec string) error {
	s.Refresh(ctx)

	if _, err := s.cron.AddFunc(cronSpec, func() {
		s.Refresh(context.Background())
	}); err != nil {
		return fmt.Errorf("invalid refresh cron %q: %w", cronSpec, err)
	}
	s.cron.Start()
	defer s.cron.Stop()

	srv := &http.Server{
		Addr:    listen,
		Handler: s.mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRaces(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	res := s.snapshot()
	if res.Races == nil {
		res.Races = []race.Race{}
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
