// Package api provides the HTTP API for observing the village.
// All endpoints are GET and read-only; the simulation cannot be steered
// over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nashvale/villagesim/internal/journal"
	"github.com/nashvale/villagesim/internal/villager"
	"github.com/nashvale/villagesim/internal/world"
)

// Server serves village state over HTTP.
type Server struct {
	Clock     *world.Clock
	Villagers []*villager.Villager
	Journal   *journal.Journal // optional
	Port      int

	started time.Time
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	s.started = time.Now()

	// The journal endpoints hit SQLite per request; cap them per client.
	journalLimiter := NewRateLimiter(120, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/villagers", s.handleVillagers)
	mux.HandleFunc("/api/v1/villager/", s.handleVillagerDetail)
	mux.HandleFunc("/api/v1/journal", RateLimitMiddleware(journalLimiter, s.handleJournal))
	mux.HandleFunc("/api/v1/trades", RateLimitMiddleware(journalLimiter, s.handleTrades))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, corsMiddleware(mux)); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins. Set
// CORS_ORIGINS to a comma-separated list; localhost dev servers are always
// allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"sim_hour":   s.Clock.CurrentHour(),
		"sim_minute": s.Clock.CurrentMinute(),
		"villagers":  len(s.Villagers),
		"uptime_sec": int(time.Since(s.started).Seconds()),
	})
}

func (s *Server) handleVillagers(w http.ResponseWriter, r *http.Request) {
	snaps := make([]villager.Snapshot, 0, len(s.Villagers))
	for _, v := range s.Villagers {
		snaps = append(snaps, v.Status())
	}
	writeJSON(w, snaps)
}

func (s *Server) handleVillagerDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/villager/")
	for _, v := range s.Villagers {
		if v.ID() == id {
			writeJSON(w, v.Status())
			return
		}
	}
	http.Error(w, "villager not found", http.StatusNotFound)
}

func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	if s.Journal == nil {
		writeJSON(w, []journal.Entry{})
		return
	}
	entries, err := s.Journal.Recent(queryLimit(r, 50))
	if err != nil {
		slog.Warn("journal query failed", "error", err)
		http.Error(w, "journal unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, entries)
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	if s.Journal == nil {
		writeJSON(w, []journal.Trade{})
		return
	}
	trades, err := s.Journal.RecentTrades(queryLimit(r, 50))
	if err != nil {
		slog.Warn("trade query failed", "error", err)
		http.Error(w, "journal unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, trades)
}

func queryLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > 500 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
