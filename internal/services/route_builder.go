package services

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"food-delivery-service/internal/domain"
	"food-delivery-service/internal/ports"
)

type restaurantGroup struct {
	restaurant *domain.Restaurant
	orders     []domain.Order
}

// Build a rider route using a greedy two-level nearest-neighbor algorithm.
//
// Assignments are grouped by restaurant. The first restaurant seen is
// visited first at no cost; afterwards the rider always moves to the
// nearest unvisited restaurant, then delivers that restaurant's orders by
// repeatedly moving to the nearest undelivered customer.
//
// Ties are stable: restaurants by first appearance in assignments, orders
// by their position among the restaurant's assignments.
// Errors from the oracle are returned as-is; nothing is summed on failure.
func BuildRoute(oracle ports.DistanceOracle, assignments []domain.Assignment) ([]domain.Stop, int, error) {
	if len(assignments) == 0 {
		return []domain.Stop{}, 0, nil
	}
	if oracle == nil {
		return nil, 0, errors.New("build route: oracle must be non-nil")
	}

	groups := make([]*restaurantGroup, 0, len(assignments))
	byRestaurant := make(map[*domain.Restaurant]*restaurantGroup)
	for i, a := range assignments {
		if a.Restaurant == nil {
			return nil, 0, fmt.Errorf("build route: assignment %d has nil restaurant", i)
		}
		g, ok := byRestaurant[a.Restaurant]
		if !ok {
			g = &restaurantGroup{restaurant: a.Restaurant}
			byRestaurant[a.Restaurant] = g
			groups = append(groups, g)
		}
		g.orders = append(g.orders, a.Order)
	}

	stops := make([]domain.Stop, 0, len(groups)+len(assignments))
	total := 0

	// The rider starts at the first restaurant, so reaching it costs nothing.
	remaining := groups
	current := remaining[0].restaurant.Location
	for len(remaining) > 0 {
		// Select the next restaurant by minimum travel time (greedy step).
		bestIdx := -1
		bestDist := math.MaxInt
		for i, g := range remaining {
			d, err := oracle.Distance(current, g.restaurant.Location)
			if err != nil {
				return nil, 0, fmt.Errorf("build route: to restaurant %q: %w", g.restaurant.Name, err)
			}
			if d < bestDist {
				bestDist = d
				bestIdx = i
			}
		}

		next := remaining[bestIdx]
		total += bestDist
		current = next.restaurant.Location
		stops = append(stops, domain.Stop{
			Node: current,
			Name: next.restaurant.Name,
			Kind: domain.StopRestaurant,
		})

		undelivered := append([]domain.Order(nil), next.orders...)
		for len(undelivered) > 0 {
			oi := -1
			od := math.MaxInt
			for i, o := range undelivered {
				d, err := oracle.Distance(current, o.Location)
				if err != nil {
					return nil, 0, fmt.Errorf("build route: to order %q: %w", o.Name, err)
				}
				if d < od {
					od = d
					oi = i
				}
			}

			order := undelivered[oi]
			total += od
			current = order.Location
			stops = append(stops, domain.Stop{
				Node: current,
				Name: order.Name,
				Kind: domain.StopCustomer,
			})
			undelivered = slices.Delete(undelivered, oi, oi+1)
		}

		remaining = slices.Delete(remaining, bestIdx, bestIdx+1)
	}

	return stops, total, nil
}

// Build the route of one rider. Rider is the 1-based rider number.
func BuildRiderRoute(oracle ports.DistanceOracle, rider int, assignments []domain.Assignment) (domain.Route, error) {
	stops, total, err := BuildRoute(oracle, assignments)
	if err != nil {
		return domain.Route{}, fmt.Errorf("build rider route: rider %d: %w", rider, err)
	}
	return domain.Route{Rider: rider, Stops: stops, TotalTime: total}, nil
}
