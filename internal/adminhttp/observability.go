package adminhttp

import (
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fight-club-core/internal/corelog"
)

// Metrics use only bounded-cardinality labels (no per-player/per-entity
// labels), matching the teacher's DoS-conscious metric design.
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "core_tick_duration_seconds",
		Help:    "Time spent in one simulation tick",
		Buckets: []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1},
	})

	connectedPlayers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "core_connected_players",
		Help: "Currently connected players",
	})

	eventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "core_events_dropped_total",
		Help: "Events dropped by the event bus rate limiter",
	}, []string{"reason"})

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "core_http_requests_total",
		Help: "Total admin HTTP requests",
	}, []string{"method", "endpoint", "status"})
)

// RecordTick records one tick's wall-clock duration.
func RecordTick(d time.Duration) { tickDuration.Observe(d.Seconds()) }

// UpdateConnectedPlayers sets the connected-player gauge.
func UpdateConnectedPlayers(n int) { connectedPlayers.Set(float64(n)) }

// RecordEventDropped increments the dropped-event counter for a bounded reason.
func RecordEventDropped(reason string) { eventsDropped.WithLabelValues(reason).Inc() }

// RecordRequest records one admin HTTP request's outcome.
func RecordRequest(method, endpoint string, status int) {
	requestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

// DebugServerConfig configures the pprof/metrics debug listener.
type DebugServerConfig struct {
	Enabled    bool
	ListenAddr string // should be loopback-only; see StartDebugServer
}

// StartDebugServer launches the pprof+metrics server in the background.
// It refuses to bind to a non-loopback address unless the caller
// explicitly opts in via allowExternal, mirroring the teacher's
// "never expose pprof to the internet" rule.
func StartDebugServer(cfg DebugServerConfig, allowExternal bool) {
	if !cfg.Enabled {
		corelog.Info("debug server disabled")
		return
	}
	addr := cfg.ListenAddr
	host, _, err := net.SplitHostPort(addr)
	if !allowExternal && (err != nil || (host != "127.0.0.1" && host != "localhost")) {
		corelog.Warn("debug server forced to loopback (got %q)", addr)
		addr = "127.0.0.1:9090"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	go func() {
		corelog.Info("debug server listening on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			corelog.Error("debug server stopped: %v", err)
		}
	}()
}
