package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"smartrouting/internal/adapters/cache"
	"smartrouting/internal/adapters/distance"
	"smartrouting/internal/adapters/store"
	"smartrouting/internal/api"
	"smartrouting/internal/config"
	"smartrouting/internal/metrics"
	"smartrouting/internal/platform/db"
	"smartrouting/internal/ports"
	"smartrouting/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, the road-distance API) behind
// ports and starts the HTTP server.
func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(os.Stderr)

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("CONFIG_PATH", ""))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	metrics.RegisterDefault()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := db.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer pool.Close()

	if err := store.InitSchema(pool); err != nil {
		log.Fatal().Err(err).Msg("init schema")
	}

	addresses := store.NewPostgresAddressStore(pool)

	var distanceCache ports.DistanceCacheStore
	switch cfg.CacheBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		distanceCache = cache.NewRedisDistanceCache(rdb)
		log.Info().Str("addr", cfg.RedisAddr).Msg("distance cache on redis")
	default:
		distanceCache = store.NewPostgresDistanceCache(pool)
		log.Info().Msg("distance cache on postgres")
	}

	provider := distance.NewHTTPRoadDistanceProvider(cfg.ProviderBaseURL, cfg.ProviderAPIKey)
	engine := services.NewEngine(addresses, distanceCache, provider, cfg.Engine, log.Logger)

	router := api.NewRouter(engine, addresses)

	// Timeouts are tuned for cold-cache calculations (external API latency).
	log.Info().Str("addr", ":"+cfg.Port).Msg("server listening")
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal().Err(srv.ListenAndServe()).Msg("server stopped")
}
