package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres database schema.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS restaurants (
			restaurant_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			location INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id INTEGER PRIMARY KEY,
			restaurant_id INTEGER NOT NULL REFERENCES restaurants(restaurant_id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			location INTEGER NOT NULL,
			time_limit INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS distance_cache (
			graph_key TEXT NOT NULL,
			origin BIGINT NOT NULL,
			row_json TEXT NOT NULL,
			PRIMARY KEY (graph_key, origin)
		);`,
		`CREATE TABLE IF NOT EXISTS plans (
			plan_id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			plan_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_orders_restaurant ON orders(restaurant_id, order_id);`,
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init postgres schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init postgres schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init postgres schema: commit tx: %w", err)
	}
	return nil
}

// Replace the stored restaurants and orders in Postgres with the contents of a JSON seed file.
func SeedPostgresFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	restaurants, err := readSeed(jsonPath)
	if err != nil {
		return fmt.Errorf("seed postgres restaurants: %w", err)
	}
	if err := replaceRestaurants(ctx, db, postgresDialect, restaurants); err != nil {
		return fmt.Errorf("seed postgres restaurants: %w", err)
	}
	return nil
}
