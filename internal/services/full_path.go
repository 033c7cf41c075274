package services

import (
	"errors"
	"fmt"

	"food-delivery-service/internal/domain"
	"food-delivery-service/internal/ports"
)

// Expand a route into every grid node the rider walks.
//
// The first stop is emitted as-is. For every following stop the shortest
// path from the previous stop is appended without its first node;
// intermediate nodes carry no name or kind.
func ExpandRoute(finder ports.PathFinder, route domain.Route) ([]domain.PathStep, error) {
	if len(route.Stops) == 0 {
		return []domain.PathStep{}, nil
	}
	if finder == nil {
		return nil, errors.New("expand route: path finder must be non-nil")
	}

	first := route.Stops[0]
	steps := []domain.PathStep{{Node: first.Node, Name: first.Name, Kind: first.Kind}}

	prev := first.Node
	for _, stop := range route.Stops[1:] {
		path, err := finder.Path(prev, stop.Node)
		if err != nil {
			return nil, fmt.Errorf("expand route: rider %d: from %d to %d: %w", route.Rider, prev, stop.Node, err)
		}

		// Consecutive stops on the same node still produce a step for the stop.
		if len(path) == 1 {
			steps = append(steps, domain.PathStep{Node: stop.Node, Name: stop.Name, Kind: stop.Kind})
		}
		for i, n := range path[1:] {
			if i == len(path)-2 {
				steps = append(steps, domain.PathStep{Node: n, Name: stop.Name, Kind: stop.Kind})
				continue
			}
			steps = append(steps, domain.PathStep{Node: n})
		}
		prev = stop.Node
	}

	return steps, nil
}
