package ports

import (
	"context"

	"food-delivery-service/internal/domain"
)

// Port: a boundary for retrieving restaurants and their orders from a data source.
type RestaurantRepository interface {
	// Retrieve all restaurants, each with its orders, in a stable order.
	ListRestaurants(ctx context.Context) ([]*domain.Restaurant, error)
}
