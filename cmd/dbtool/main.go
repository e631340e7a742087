package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"smartrouting/internal/adapters/distance"
	"smartrouting/internal/adapters/store"
	"smartrouting/internal/config"
	"smartrouting/internal/domain"
	"smartrouting/internal/platform/db"
	"smartrouting/internal/services"
)

const (
	warmWorkers  = 4
	listPageSize = 500
)

// dbtool initializes the schema and, with the "warm" subcommand, pre-fills
// the distance cache for every stored address pair whose great-circle
// distance is long enough to need the road-distance provider.
func main() {
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := db.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer pool.Close()

	log.Info().Msg("initializing schema")
	if err := store.InitSchema(pool); err != nil {
		log.Fatal().Err(err).Msg("init schema")
	}
	log.Info().Msg("schema ready")

	if len(os.Args) > 1 && os.Args[1] == "warm" {
		if err := warmCache(context.Background(), pool, cfg); err != nil {
			log.Fatal().Err(err).Msg("warm cache")
		}
	}
}

// warmCache queries the provider for every uncached long pair so the first
// live calculations start from a hot cache. Short pairs are skipped; the
// resolver answers those from the great-circle estimate without a lookup.
func warmCache(ctx context.Context, pool *sql.DB, cfg config.Server) error {
	addresses, err := loadAddresses(ctx, store.NewPostgresAddressStore(pool))
	if err != nil {
		return fmt.Errorf("warm cache: %w", err)
	}

	located := make([]domain.Address, 0, len(addresses))
	for _, a := range addresses {
		if a.Location != nil {
			located = append(located, a)
		}
	}

	points := make([]domain.GeoPoint, len(located))
	ids := make([]int, len(located))
	for i, a := range located {
		points[i] = *a.Location
		ids[i] = a.ID
	}
	direct := services.Pairwise(points)

	cacheStore := store.NewPostgresDistanceCache(pool)
	cached := make(map[[2]int]bool)
	entries, err := cacheStore.Get(ctx, ids)
	if err != nil {
		return fmt.Errorf("warm cache: %w", err)
	}
	for _, e := range entries {
		cached[[2]int{e.Loc1, e.Loc2}] = true
	}

	provider := distance.NewHTTPRoadDistanceProvider(cfg.ProviderBaseURL, cfg.ProviderAPIKey)

	var warmed, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(warmWorkers)

	for i := range located {
		for j := i + 1; j < len(located); j++ {
			if direct[i][j] < cfg.Engine.ProviderThresholdMeters {
				continue
			}
			l1, l2 := domain.CanonicalPair(located[i].ID, located[j].ID)
			if cached[[2]int{l1, l2}] {
				continue
			}

			origin, dest := points[i], points[j]
			g.Go(func() error {
				meters, err := provider.Query(gctx, origin, dest)
				if err != nil {
					failed.Add(1)
					log.Warn().Int("loc1", l1).Int("loc2", l2).Err(err).Msg("provider query failed")
					return nil
				}
				if err := cacheStore.Upsert(gctx, l1, l2, meters); err != nil {
					return fmt.Errorf("cache pair %d-%d: %w", l1, l2, err)
				}
				warmed.Add(1)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("warm cache: %w", err)
	}

	log.Info().
		Int("addresses", len(located)).
		Int64("warmed", warmed.Load()).
		Int64("failed", failed.Load()).
		Msg("cache warm-up complete")
	return nil
}

func loadAddresses(ctx context.Context, s *store.PostgresAddressStore) ([]domain.Address, error) {
	var all []domain.Address
	for offset := 0; ; offset += listPageSize {
		page, total, err := s.List(ctx, offset, listPageSize, "")
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) == 0 || len(all) >= total {
			return all, nil
		}
	}
}
