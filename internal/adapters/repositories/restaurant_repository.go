package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"food-delivery-service/internal/domain"
	"food-delivery-service/internal/platform/obs"
)

// SQL-backed implementation of the RestaurantRepository port.
// One type serves SQLite and Postgres; only placeholders differ.
type SQLRestaurantRepository struct {
	DB      *sql.DB
	dialect dialect
}

func NewSqliteRestaurantRepository(db *sql.DB) *SQLRestaurantRepository {
	return &SQLRestaurantRepository{DB: db, dialect: sqliteDialect}
}

func NewPostgresRestaurantRepository(db *sql.DB) *SQLRestaurantRepository {
	return &SQLRestaurantRepository{DB: db, dialect: postgresDialect}
}

// Return all restaurants in insertion order, each with its orders in insertion order.
func (s *SQLRestaurantRepository) ListRestaurants(ctx context.Context) (_ []*domain.Restaurant, err error) {
	defer obs.Time(ctx, "repo.ListRestaurants")(&err)

	if s.DB == nil {
		return nil, errors.New("restaurant repository: DB is nil")
	}

	query := `
	SELECT
		restaurant_id,
		name,
		location
	FROM restaurants
	ORDER BY restaurant_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: query restaurants table: %w", err)
	}
	defer rows.Close()

	restaurants := make([]*domain.Restaurant, 0, 16)
	byID := make(map[int64]*domain.Restaurant)
	for rows.Next() {
		var id, loc int64
		var name string
		if err := rows.Scan(&id, &name, &loc); err != nil {
			return nil, fmt.Errorf("list restaurants: scan row: %w", err)
		}
		r := domain.NewRestaurant(name, domain.Node(loc))
		restaurants = append(restaurants, r)
		byID[id] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list restaurants: row iteration: %w", err)
	}
	// Release the connection before the second query; single-connection pools would block.
	rows.Close()

	orderQuery := `
	SELECT
		restaurant_id,
		name,
		location,
		time_limit
	FROM orders
	ORDER BY restaurant_id, order_id;
	`
	orderRows, err := s.DB.QueryContext(ctx, orderQuery)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: query orders table: %w", err)
	}
	defer orderRows.Close()

	for orderRows.Next() {
		var restaurantID, loc int64
		var name string
		var limit int
		if err := orderRows.Scan(&restaurantID, &name, &loc, &limit); err != nil {
			return nil, fmt.Errorf("list restaurants: scan order row: %w", err)
		}
		r, ok := byID[restaurantID]
		if !ok {
			return nil, fmt.Errorf("list restaurants: order %q references unknown restaurant %d", name, restaurantID)
		}
		r.AddOrder(domain.Order{Name: name, Location: domain.Node(loc), TimeLimit: limit})
	}
	if err := orderRows.Err(); err != nil {
		return nil, fmt.Errorf("list restaurants: order row iteration: %w", err)
	}

	return restaurants, nil
}

// Replace every stored restaurant and order.
func (s *SQLRestaurantRepository) ReplaceRestaurants(ctx context.Context, restaurants []*domain.Restaurant) error {
	if err := replaceRestaurants(ctx, s.DB, s.dialect, restaurants); err != nil {
		return fmt.Errorf("replace restaurants: %w", err)
	}
	return nil
}
