package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"food-delivery-service/internal/domain"
	"food-delivery-service/internal/platform/obs"
)

// SQLite backed cache of single-source BFS rows.
// Rows are keyed by (graph_key, origin); graph_key is produced by
// citygraph.Graph.Key so rows from different grid shapes never mix.
type SqliteDistanceCache struct {
	DB *sql.DB
}

func NewSqliteDistanceCache(db *sql.DB) *SqliteDistanceCache {
	return &SqliteDistanceCache{DB: db}
}

// Fetch cached rows for multiple origins of one graph.
func (s *SqliteDistanceCache) GetMany(
	ctx context.Context,
	graphKey string,
	origins []domain.Node,
) (_ map[domain.Node][]int, err error) {
	defer obs.Time(ctx, "distance.cache.sqlite.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("distance cache: db is nil")
	}
	if graphKey == "" {
		return nil, errors.New("get distance cache: graph key must not be empty")
	}

	uniq := uniqueOrigins(origins)
	if len(uniq) == 0 {
		return map[domain.Node][]int{}, nil
	}

	ph := make([]string, len(uniq))
	args := make([]any, 0, 1+len(uniq))
	args = append(args, graphKey)
	for i, o := range uniq {
		ph[i] = "?"
		args = append(args, int64(o))
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT origin, row_json
	FROM distance_cache
	WHERE graph_key = ?
		AND origin IN (%s);
	`, strings.Join(ph, ","))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get distance cache: query distance_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.Node][]int, len(uniq))
	for rows.Next() {
		var origin int64
		var raw string
		if err := rows.Scan(&origin, &raw); err != nil {
			return nil, fmt.Errorf("get distance cache: scan rows: %w", err)
		}
		row, err := decodeRow(raw)
		if err != nil {
			return nil, fmt.Errorf("get distance cache origin=%d: %w", origin, err)
		}
		out[domain.Node(origin)] = row
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get distance cache: row iteration: %w", err)
	}

	return out, nil
}

// Store many rows for one graph in a single transaction.
func (s *SqliteDistanceCache) PutMany(
	ctx context.Context,
	graphKey string,
	results map[domain.Node][]int,
) (err error) {
	defer obs.Time(ctx, "distance.cache.sqlite.PutMany")(&err)

	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}
	if graphKey == "" {
		return errors.New("insert distance cache: graph key must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert distance cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO distance_cache (graph_key, origin, row_json)
	VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("insert distance cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for origin, row := range results {
		raw, err := encodeRow(row)
		if err != nil {
			return fmt.Errorf("insert distance cache origin=%d: %w", origin, err)
		}
		if _, err := stmt.ExecContext(ctx, graphKey, int64(origin), raw); err != nil {
			return fmt.Errorf("insert distance cache origin=%d: %w", origin, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert distance cache commit: %w", err)
	}

	return nil
}
