package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Engine holds the tunables of the routing engine.
type Engine struct {
	// Great-circle distances below this many meters are accepted without
	// consulting the external road-distance provider.
	ProviderThresholdMeters float64 `yaml:"provider_threshold_meters"`

	// Service time spent at each stop.
	StopServiceMinutes int `yaml:"stop_service_minutes"`

	// Average travel speed used to turn distance into time, km/h.
	AverageSpeedKmh float64 `yaml:"average_speed_kmh"`

	// Search budget per strategy in milliseconds:
	// base + per-order + per-vehicle.
	BudgetBaseMs       int `yaml:"budget_base_ms"`
	BudgetPerOrderMs   int `yaml:"budget_per_order_ms"`
	BudgetPerVehicleMs int `yaml:"budget_per_vehicle_ms"`
}

// Server holds process-level settings.
type Server struct {
	Port         string `yaml:"port"`
	DatabaseURL  string `yaml:"database_url"`
	RedisAddr    string `yaml:"redis_addr"`
	CacheBackend string `yaml:"cache_backend"` // postgres or redis

	ProviderBaseURL string `yaml:"provider_base_url"`
	ProviderAPIKey  string `yaml:"provider_api_key"`

	Engine Engine `yaml:"engine"`
}

// DefaultEngine returns the engine settings used when no config file
// overrides them.
func DefaultEngine() Engine {
	return Engine{
		ProviderThresholdMeters: 1000,
		StopServiceMinutes:      15,
		AverageSpeedKmh:         30,
		BudgetBaseMs:            500,
		BudgetPerOrderMs:        20,
		BudgetPerVehicleMs:      50,
	}
}

// Load reads settings from a YAML file when path is non-empty, then applies
// environment overrides. Missing file with empty path is not an error.
func Load(path string) (Server, error) {
	cfg := Server{
		Port:         Get("PORT", "8080"),
		CacheBackend: Get("CACHE_BACKEND", "postgres"),
		Engine:       DefaultEngine(),
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Server{}, fmt.Errorf("load config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Server{}, fmt.Errorf("load config: parse %q: %w", path, err)
		}
	}

	// Environment always wins over file values for credentials and URLs.
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("ROAD_DISTANCE_API_KEY"); v != "" {
		cfg.ProviderAPIKey = v
	}
	if v := os.Getenv("ROAD_DISTANCE_BASE_URL"); v != "" {
		cfg.ProviderBaseURL = v
	}

	return cfg, nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
