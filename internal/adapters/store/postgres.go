package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smartrouting/internal/domain"
)

// Postgres-backed implementations of the AddressStore and
// DistanceCacheStore ports.
type PostgresAddressStore struct{ DB *sql.DB }

func NewPostgresAddressStore(db *sql.DB) *PostgresAddressStore {
	return &PostgresAddressStore{DB: db}
}

// Find returns the known addresses among the given ids; unknown ids are
// absent from the result.
func (s *PostgresAddressStore) Find(ctx context.Context, ids []int) ([]domain.Address, error) {
	if s.DB == nil {
		return nil, errors.New("address store: db is nil")
	}
	if len(ids) == 0 {
		return []domain.Address{}, nil
	}

	q := `
	SELECT id, name, latitude, longitude
	FROM addresses
	WHERE id = ANY($1::int[]);
	`
	rows, err := s.DB.QueryContext(ctx, q, intArray(ids))
	if err != nil {
		return nil, fmt.Errorf("find addresses: query addresses table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Address, 0, len(ids))
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("find addresses: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find addresses: row iteration: %w", err)
	}
	return out, nil
}

// List returns one page of addresses ordered by id, plus the total match
// count. search filters on name, case-insensitively; empty matches all.
func (s *PostgresAddressStore) List(ctx context.Context, offset, limit int, search string) ([]domain.Address, int, error) {
	if s.DB == nil {
		return nil, 0, errors.New("address store: db is nil")
	}

	pattern := "%" + search + "%"

	var total int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM addresses WHERE name ILIKE $1;`, pattern,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("list addresses: count: %w", err)
	}

	q := `
	SELECT id, name, latitude, longitude
	FROM addresses
	WHERE name ILIKE $1
	ORDER BY id
	OFFSET $2 LIMIT $3;
	`
	rows, err := s.DB.QueryContext(ctx, q, pattern, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list addresses: query addresses table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Address, 0, limit)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("list addresses: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list addresses: row iteration: %w", err)
	}
	return out, total, nil
}

func scanAddress(rows *sql.Rows) (domain.Address, error) {
	var a domain.Address
	var lat, lon sql.NullFloat64
	if err := rows.Scan(&a.ID, &a.Name, &lat, &lon); err != nil {
		return domain.Address{}, fmt.Errorf("scan row: %w", err)
	}
	if lat.Valid && lon.Valid {
		a.Location = &domain.GeoPoint{Lat: lat.Float64, Lon: lon.Float64}
	}
	return a, nil
}

// PostgresDistanceCache persists resolved distances keyed by canonical
// (loc1 < loc2) address pairs.
type PostgresDistanceCache struct{ DB *sql.DB }

func NewPostgresDistanceCache(db *sql.DB) *PostgresDistanceCache {
	return &PostgresDistanceCache{DB: db}
}

// Get returns every cached entry whose pair is drawn from the given ids.
func (s *PostgresDistanceCache) Get(ctx context.Context, ids []int) ([]domain.DistanceCacheEntry, error) {
	if s.DB == nil {
		return nil, errors.New("distance cache: db is nil")
	}
	if len(ids) == 0 {
		return []domain.DistanceCacheEntry{}, nil
	}

	q := `
	SELECT loc1, loc2, distance_meters
	FROM distance_cache
	WHERE loc1 = ANY($1::int[]) AND loc2 = ANY($1::int[]);
	`
	rows, err := s.DB.QueryContext(ctx, q, intArray(ids))
	if err != nil {
		return nil, fmt.Errorf("get distance cache: query distance_cache table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.DistanceCacheEntry, 0, len(ids))
	for rows.Next() {
		var e domain.DistanceCacheEntry
		var dist sql.NullFloat64
		if err := rows.Scan(&e.Loc1, &e.Loc2, &dist); err != nil {
			return nil, fmt.Errorf("get distance cache: scan row: %w", err)
		}
		if dist.Valid {
			v := dist.Float64
			e.Distance = &v
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get distance cache: row iteration: %w", err)
	}
	return out, nil
}

// Upsert stores a distance for the canonical pair. ON CONFLICT keeps the
// write atomic per pair under concurrent writers.
func (s *PostgresDistanceCache) Upsert(ctx context.Context, loc1, loc2 int, meters float64) error {
	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}

	l1, l2 := domain.CanonicalPair(loc1, loc2)
	q := `
	INSERT INTO distance_cache (loc1, loc2, distance_meters)
	VALUES ($1, $2, $3)
	ON CONFLICT (loc1, loc2) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters;
	`
	if _, err := s.DB.ExecContext(ctx, q, l1, l2, meters); err != nil {
		return fmt.Errorf("upsert distance cache (%d,%d): %w", l1, l2, err)
	}
	return nil
}

// intArray renders ids as a Postgres array literal, usable with ANY($1).
func intArray(ids []int) string {
	out := "{"
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%d", id)
	}
	return out + "}"
}
