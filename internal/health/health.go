package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/nikhilmenon/auctiond/internal/clock"
)

// Status is the body of a probe response.
type Status struct {
	Status    string            `json:"status"`
	Uptime    string            `json:"uptime,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp string            `json:"timestamp"`
}

// Checker is a named readiness check.
type Checker struct {
	Name  string
	Check func(ctx context.Context) error
}

// Handler serves liveness and readiness probes. Readiness stays false until
// the process has finished startup (and, when leader election is on, holds
// the lease).
type Handler struct {
	mu       sync.RWMutex
	ready    bool
	checkers []Checker
	clock    clock.Clock
	started  time.Time
}

// NewHandler creates a Handler with the given readiness checkers.
func NewHandler(clk clock.Clock, checkers ...Checker) *Handler {
	return &Handler{checkers: checkers, clock: clk, started: clk.Now()}
}

// SetReady flips the readiness gate.
func (h *Handler) SetReady(ready bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ready = ready
}

// Liveness reports that the process is up.
func (h *Handler) Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := h.clock.Now()
		writeJSON(w, http.StatusOK, Status{
			Status:    "ok",
			Uptime:    now.Sub(h.started).Round(time.Second).String(),
			Timestamp: now.UTC().Format(time.RFC3339),
		})
	}
}

// Readiness reports whether the service should receive traffic, running all
// checkers when the readiness gate is open.
func (h *Handler) Readiness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.mu.RLock()
		ready := h.ready
		h.mu.RUnlock()

		now := h.clock.Now()
		if !ready {
			writeJSON(w, http.StatusServiceUnavailable, Status{
				Status:    "not_ready",
				Timestamp: now.UTC().Format(time.RFC3339),
			})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := make(map[string]string)
		code := http.StatusOK
		status := "ready"
		for _, c := range h.checkers {
			if err := c.Check(ctx); err != nil {
				checks[c.Name] = err.Error()
				code = http.StatusServiceUnavailable
				status = "not_ready"
			} else {
				checks[c.Name] = "ok"
			}
		}

		writeJSON(w, code, Status{
			Status:    status,
			Checks:    checks,
			Timestamp: now.UTC().Format(time.RFC3339),
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
