package domain

import "time"

// A (restaurant, order) pair queued for a rider.
type Assignment struct {
	Restaurant *Restaurant
	Order      Order
}

// Why an order was left out of every route.
type UnassignedReason string

const (
	// Restaurant to customer distance exceeds the order's time limit.
	ReasonTimeLimitExceeded UnassignedReason = "time_limit_exceeded"
	// The order is feasible but the rider pool is empty.
	ReasonNoRiders UnassignedReason = "no_riders"
)

// An order that appears in no rider's route.
// Distance is the restaurant to customer travel time.
type UnassignedOrder struct {
	Restaurant string
	Order      Order
	Distance   int
	Reason     UnassignedReason
}

// Represents the result of one optimization run.
// Routes holds exactly one entry per rider, including riders with no stops.
// ClosedNodes lists the blocked cells of the city the plan was computed for.
type Plan struct {
	ID          string
	GridSize    int
	ClosedNodes []Node
	Riders      int
	Routes      []Route
	Unassigned  []UnassignedOrder
	CreatedAt   time.Time
}

// Return the sum of all per-rider route times.
func (p *Plan) TotalTime() int {
	total := 0
	for _, r := range p.Routes {
		total += r.TotalTime
	}
	return total
}

// Return the number of orders that appear in some rider's route.
func (p *Plan) DeliveredCount() int {
	n := 0
	for _, r := range p.Routes {
		n += len(r.Deliveries())
	}
	return n
}
