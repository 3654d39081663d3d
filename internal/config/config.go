// Package config provides centralized configuration management.
// This is the single source of truth for simulation, limits, and ambient
// server settings.
//
// IMPORTANT: when changing values, only modify this file.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig holds the tick-loop and world-sizing settings.
type SimConfig struct {
	TickIntervalMS           int // Fixed tick cadence, 20ms per spec
	MaxDeltaMS               int // Δt clamp value; not read by the engine, which clamps with its own fixed 100ms
	WorldWidth               float64
	WorldHeight              float64
	EconomySampleEveryNTicks int // not read by the engine; economy sampling runs every tick
	WinGracePeriodSec        float64
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickIntervalMS:           20,
		MaxDeltaMS:               100,
		WorldWidth:               4096,
		WorldHeight:              4096,
		EconomySampleEveryNTicks: 60,
		WinGracePeriodSec:        5.0,
	}
}

// SimFromEnv returns simulation configuration with environment overrides.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()
	if v := getEnvInt("SIM_TICK_MS", 0); v > 0 {
		cfg.TickIntervalMS = v
	}
	if v := getEnvFloat("SIM_WORLD_WIDTH", 0); v > 0 {
		cfg.WorldWidth = v
	}
	if v := getEnvFloat("SIM_WORLD_HEIGHT", 0); v > 0 {
		cfg.WorldHeight = v
	}
	return cfg
}

// =============================================================================
// RESOURCE LIMITS (DoS protection)
// =============================================================================

// LimitsConfig controls hard caps on live entity counts.
type LimitsConfig struct {
	MaxTotalPlayers       int
	MaxUnitsPerPlayer     int
	MaxBuildingsPerPlayer int
	MaxProjectilesLive    int
	MaxBeamsLive          int
	MaxFieldEffectsLive   int
	MaxWallSegments       int
}

// DefaultLimits returns production-safe default limits.
func DefaultLimits() LimitsConfig {
	return LimitsConfig{
		MaxTotalPlayers:       16,
		MaxUnitsPerPlayer:     400,
		MaxBuildingsPerPlayer: 120,
		MaxProjectilesLive:    2000,
		MaxBeamsLive:          200,
		MaxFieldEffectsLive:   500,
		MaxWallSegments:       2000,
	}
}

// =============================================================================
// SPATIAL CONFIGURATION
// =============================================================================

// SpatialConfig holds spatial-indexing settings for the physics facade.
type SpatialConfig struct {
	GridCellSize float64 // should equal the largest common query radius
}

// DefaultSpatial returns the default spatial configuration.
func DefaultSpatial() SpatialConfig {
	return SpatialConfig{
		GridCellSize: 200,
	}
}

// =============================================================================
// HTTP / DEBUG SURFACE CONFIGURATION
// =============================================================================

// HTTPConfig holds the admin/debug HTTP listener settings.
type HTTPConfig struct {
	Port           int
	DebugPort      int
	AllowedOrigins []string
}

// DefaultHTTP returns default HTTP configuration.
func DefaultHTTP() HTTPConfig {
	return HTTPConfig{
		Port:           8080,
		DebugPort:      9090,
		AllowedOrigins: []string{"http://localhost:3000"},
	}
}

// HTTPFromEnv returns HTTP configuration with environment overrides.
func HTTPFromEnv() HTTPConfig {
	cfg := DefaultHTTP()
	if p := getEnvInt("CORE_HTTP_PORT", 0); p > 0 {
		cfg.Port = p
	}
	if p := getEnvInt("CORE_DEBUG_PORT", 0); p > 0 {
		cfg.DebugPort = p
	}
	return cfg
}

// =============================================================================
// OBSERVABILITY CONFIGURATION
// =============================================================================

// ObservabilityConfig controls the debug/metrics server.
type ObservabilityConfig struct {
	Enabled       bool
	BindLocalOnly bool
	BasicAuthUser string
	BasicAuthPass string
}

// DefaultObservability returns the default observability configuration.
// Binding localhost-only is deliberate: the debug server exposes pprof and
// unauthenticated metrics by default, neither of which should face the internet.
func DefaultObservability() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:       true,
		BindLocalOnly: true,
	}
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Sim           SimConfig
	Limits        LimitsConfig
	Spatial       SpatialConfig
	HTTP          HTTPConfig
	Observability ObservabilityConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Sim:           SimFromEnv(),
		Limits:        DefaultLimits(),
		Spatial:       DefaultSpatial(),
		HTTP:          HTTPFromEnv(),
		Observability: DefaultObservability(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
