// Package adminhttp wires the simulation core's HTTP-facing surface: the
// websocket upgrade endpoint, a small polling REST API over the cached
// admin snapshot, and the metrics/pprof debug server. None of it mutates
// World state directly — everything routes through Engine's already
// cross-thread-safe entry points (§5).
package adminhttp

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fight-club-core/internal/sim"
	"fight-club-core/internal/transport"
)

// RouterConfig carries the dependencies NewRouter needs.
type RouterConfig struct {
	Engine          *sim.Engine
	RateLimiter     *IPRateLimiter
	RateLimitConfig *RateLimitConfig
	CORSOrigins     []string
	DisableLogging  bool
}

// NewRouter builds the chi mux. Pure: starts no goroutines beyond what
// rate-limiter cleanup and the router's own websocket upgrades need, and is
// safe to exercise with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	limiter := cfg.RateLimiter
	if limiter == nil {
		rlCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rlCfg = *cfg.RateLimitConfig
		}
		limiter = NewIPRateLimiter(rlCfg)
	}
	r.Use(limiter.Middleware)

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	var activeConns int32
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		transport.HandleWebSocket(cfg.Engine, &activeConns)(w, req)
	})

	h := &handlers{engine: cfg.Engine}
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleGetState)
		r.Get("/stats", h.handleGetStats)
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

type handlers struct {
	engine *sim.Engine
}

func (h *handlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	gs := h.engine.LastSnapshot()
	writeJSON(w, gs)
	RecordRequest(r.Method, "/api/state", http.StatusOK)
}

func (h *handlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]interface{}{
		"connectedPlayers": h.engine.ConnectedPlayerCount(),
	}
	writeJSON(w, stats)
	RecordRequest(r.Method, "/api/stats", http.StatusOK)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "encode error", http.StatusInternalServerError)
	}
}

// UpdateConnectedPlayersLoop periodically syncs the connected-player gauge
// from the engine; run as a background goroutine from main.
func UpdateConnectedPlayersLoop(engine *sim.Engine, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			UpdateConnectedPlayers(engine.ConnectedPlayerCount())
		case <-stop:
			return
		}
	}
}
