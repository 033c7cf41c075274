package domain

import (
	"fmt"
	"strings"
)

// A complete optimization input: the city size, the rider pool and the
// restaurants with their orders.
type Scenario struct {
	Name        string
	GridSize    int
	Riders      int
	Restaurants []*Restaurant
}

// Describes the first problem found while validating a Scenario.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid scenario: %s: %s", e.Field, e.Reason)
}

// Check that the scenario can be handed to the optimizer: positive grid
// size and rider count, every location inside the grid and non-negative
// time limits.
func ValidateScenario(s *Scenario) error {
	if s == nil {
		return &ValidationError{Field: "scenario", Reason: "must be non-nil"}
	}
	if s.GridSize <= 0 {
		return &ValidationError{Field: "grid_size", Reason: fmt.Sprintf("must be positive, got %d", s.GridSize)}
	}
	if s.Riders <= 0 {
		return &ValidationError{Field: "riders", Reason: fmt.Sprintf("must be positive, got %d", s.Riders)}
	}

	maxNode := Node(s.GridSize * s.GridSize)
	for i, r := range s.Restaurants {
		if r == nil {
			return &ValidationError{Field: fmt.Sprintf("restaurants[%d]", i), Reason: "must be non-nil"}
		}
		if strings.TrimSpace(r.Name) == "" {
			return &ValidationError{Field: fmt.Sprintf("restaurants[%d].name", i), Reason: "must be non-empty"}
		}
		if r.Location < 1 || r.Location > maxNode {
			return &ValidationError{
				Field:  fmt.Sprintf("restaurants[%d].location", i),
				Reason: fmt.Sprintf("%d out of grid bounds [1, %d]", r.Location, maxNode),
			}
		}

		for j, o := range r.Orders {
			field := fmt.Sprintf("restaurants[%d].orders[%d]", i, j)
			if strings.TrimSpace(o.Name) == "" {
				return &ValidationError{Field: field + ".name", Reason: "must be non-empty"}
			}
			if o.Location < 1 || o.Location > maxNode {
				return &ValidationError{
					Field:  field + ".location",
					Reason: fmt.Sprintf("%d out of grid bounds [1, %d]", o.Location, maxNode),
				}
			}
			if o.TimeLimit < 0 {
				return &ValidationError{
					Field:  field + ".time_limit",
					Reason: fmt.Sprintf("must be non-negative, got %d", o.TimeLimit),
				}
			}
		}
	}

	return nil
}

// Return the total number of orders across all restaurants.
func (s *Scenario) OrderCount() int {
	n := 0
	for _, r := range s.Restaurants {
		n += r.OrderCount()
	}
	return n
}
