// Command coreserver runs the authoritative simulation core as a
// standalone process: it loads configuration, builds the World/Engine,
// starts the tick orchestrator, and serves the websocket + admin HTTP
// surface until terminated.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fight-club-core/internal/adminhttp"
	"fight-club-core/internal/catalog"
	"fight-club-core/internal/config"
	"fight-club-core/internal/corelog"
	"fight-club-core/internal/sim"
)

func main() {
	if err := godotenv.Load(); err != nil {
		corelog.Info("no .env file found, using environment variables only")
	}

	appCfg := config.Load()

	cat := catalog.Default()
	world := sim.NewWorld(cat, appCfg.Sim.WorldWidth, appCfg.Sim.WorldHeight, appCfg.Spatial.GridCellSize, time.Now().UnixNano())
	world.ConfigureLimits(appCfg.Limits.MaxUnitsPerPlayer, appCfg.Limits.MaxBuildingsPerPlayer,
		appCfg.Limits.MaxWallSegments, appCfg.Limits.MaxFieldEffectsLive)

	biome := getEnvWithDefault("CORE_BIOME", "default")
	tickRate := 1000 / appCfg.Sim.TickIntervalMS
	engine := sim.NewEngine(world, tickRate, biome,
		appCfg.Limits.MaxProjectilesLive, appCfg.Limits.MaxBeamsLive, appCfg.Limits.MaxFieldEffectsLive)

	engine.Start()
	corelog.Info("simulation core started: %d ms tick, world %.0fx%.0f, biome %q",
		appCfg.Sim.TickIntervalMS, appCfg.Sim.WorldWidth, appCfg.Sim.WorldHeight, biome)

	adminhttp.StartDebugServer(adminhttp.DebugServerConfig{
		Enabled:    appCfg.Observability.Enabled,
		ListenAddr: fmt.Sprintf("127.0.0.1:%d", appCfg.HTTP.DebugPort),
	}, !appCfg.Observability.BindLocalOnly)

	router := adminhttp.NewRouter(adminhttp.RouterConfig{
		Engine:      engine,
		CORSOrigins: appCfg.HTTP.AllowedOrigins,
	})

	statsStop := make(chan struct{})
	go adminhttp.UpdateConnectedPlayersLoop(engine, 5*time.Second, statsStop)

	addr := fmt.Sprintf(":%d", appCfg.HTTP.Port)
	httpServer := &http.Server{Addr: addr, Handler: router}
	go func() {
		corelog.Info("admin HTTP surface listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			corelog.Error("admin HTTP server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	corelog.Info("shutting down")
	close(statsStop)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	httpServer.Shutdown(ctx)
	engine.Stop()
	corelog.Info("shutdown complete")
}

func getEnvWithDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
