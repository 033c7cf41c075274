package ports

import (
	"context"

	"food-delivery-service/internal/domain"
)

// Persistent store of single-source BFS rows.
// graphKey identifies the grid shape; rows are only valid for that shape.
type DistanceCache interface {
	// Return the cached rows found for the given origins. Missing origins
	// are absent from the result.
	GetMany(ctx context.Context, graphKey string, origins []domain.Node) (map[domain.Node][]int, error)
	// Store rows keyed by origin.
	PutMany(ctx context.Context, graphKey string, rows map[domain.Node][]int) error
}
