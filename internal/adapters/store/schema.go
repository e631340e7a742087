package store

import (
	"database/sql"
	"fmt"
)

// InitSchema creates the address and distance-cache tables when missing.
// The unique (loc1, loc2) constraint is what makes Upsert atomic per pair.
func InitSchema(db *sql.DB) error {
	stmts := []string{
		`
		CREATE TABLE IF NOT EXISTS addresses (
			id        INTEGER PRIMARY KEY,
			name      TEXT NOT NULL DEFAULT '',
			latitude  DOUBLE PRECISION,
			longitude DOUBLE PRECISION
		);`,
		`
		CREATE TABLE IF NOT EXISTS distance_cache (
			loc1            INTEGER NOT NULL,
			loc2            INTEGER NOT NULL,
			distance_meters DOUBLE PRECISION,
			PRIMARY KEY (loc1, loc2),
			CHECK (loc1 < loc2)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
