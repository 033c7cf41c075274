package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"food-delivery-service/internal/domain"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRestaurantsQuery := `
	CREATE TABLE IF NOT EXISTS restaurants (
		restaurant_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		location INTEGER NOT NULL
	);
	`

	createOrdersQuery := `
	CREATE TABLE IF NOT EXISTS orders (
		order_id INTEGER PRIMARY KEY,
		restaurant_id INTEGER NOT NULL REFERENCES restaurants(restaurant_id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		location INTEGER NOT NULL,
		time_limit INTEGER NOT NULL
	);
	`

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS distance_cache (
		graph_key TEXT NOT NULL,
		origin INTEGER NOT NULL,
		row_json TEXT NOT NULL,
		PRIMARY KEY (graph_key, origin)
	);
	`

	createPlansQuery := `
	CREATE TABLE IF NOT EXISTS plans (
		plan_id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		plan_json TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_orders_restaurant
	ON orders(restaurant_id, order_id);
	`

	statements := []string{
		createRestaurantsQuery,
		createOrdersQuery,
		createDistanceCacheQuery,
		createPlansQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Read a seed file and validate the restaurants it holds. Grid size and
// riders are not stored, so only names and ranges independent of the grid
// are checked here.
func readSeed(jsonPath string) ([]*domain.Restaurant, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", jsonPath, err)
	}

	f, err := ParseScenario(data, "json")
	if err != nil {
		return nil, err
	}

	restaurants := f.ToScenario().Restaurants
	for i, r := range restaurants {
		if r.Name == "" {
			return nil, fmt.Errorf("restaurant at index %d: name cannot be empty", i+1)
		}
		if r.Location < 1 {
			return nil, fmt.Errorf("restaurant %q: invalid location %d", r.Name, r.Location)
		}
		for j, o := range r.Orders {
			if o.Name == "" {
				return nil, fmt.Errorf("restaurant %q order at index %d: name cannot be empty", r.Name, j+1)
			}
			if o.Location < 1 || o.TimeLimit < 0 {
				return nil, fmt.Errorf("restaurant %q order %q: invalid location %d or time limit %d", r.Name, o.Name, o.Location, o.TimeLimit)
			}
		}
	}
	return restaurants, nil
}

// Replace the stored restaurants and orders with the contents of a JSON seed file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	restaurants, err := readSeed(jsonPath)
	if err != nil {
		return fmt.Errorf("seed restaurants: %w", err)
	}
	if err := replaceRestaurants(context.Background(), db, sqliteDialect, restaurants); err != nil {
		return fmt.Errorf("seed restaurants: %w", err)
	}
	return nil
}

// Insert restaurants in slice order so ids preserve first-seen order on read.
func replaceRestaurants(ctx context.Context, db *sql.DB, d dialect, restaurants []*domain.Restaurant) error {
	if db == nil {
		return errors.New("DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{`DELETE FROM orders`, `DELETE FROM restaurants`} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("clear tables: %w", err)
		}
	}

	restStmt, err := tx.PrepareContext(ctx, d.rebind(`
	INSERT INTO restaurants (restaurant_id, name, location)
	VALUES (?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("prepare restaurant insert: %w", err)
	}
	defer restStmt.Close()

	orderStmt, err := tx.PrepareContext(ctx, d.rebind(`
	INSERT INTO orders (order_id, restaurant_id, name, location, time_limit)
	VALUES (?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("prepare order insert: %w", err)
	}
	defer orderStmt.Close()

	orderID := 0
	for i, r := range restaurants {
		restaurantID := i + 1
		if _, err := restStmt.ExecContext(ctx, restaurantID, r.Name, int(r.Location)); err != nil {
			return fmt.Errorf("insert restaurant %q: %w", r.Name, err)
		}
		for _, o := range r.Orders {
			orderID++
			if _, err := orderStmt.ExecContext(ctx, orderID, restaurantID, o.Name, int(o.Location), o.TimeLimit); err != nil {
				return fmt.Errorf("insert order %q of %q: %w", o.Name, r.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
