package domain

// Kind of stop a rider makes along a route.
type StopKind string

const (
	StopRestaurant StopKind = "restaurant"
	StopCustomer   StopKind = "customer"
)

// Represents a single stop in a rider's route.
// A Stop is either a restaurant pickup or a customer drop-off.
type Stop struct {
	Node Node
	Name string
	Kind StopKind
}

// Represents the planned route for a single rider.
// Rider is 1-based. TotalTime is the number of grid edges travelled,
// starting at the first restaurant.
type Route struct {
	Rider     int
	Stops     []Stop
	TotalTime int
}

// Return the customer stops of the route in visiting order.
func (r Route) Deliveries() []Stop {
	out := make([]Stop, 0, len(r.Stops))
	for _, s := range r.Stops {
		if s.Kind == StopCustomer {
			out = append(out, s)
		}
	}
	return out
}

// One grid node walked by a rider. Name and Kind are empty for the
// intermediate nodes between two stops.
type PathStep struct {
	Node Node
	Name string
	Kind StopKind
}

// IsStop reports whether the step is a restaurant or customer stop.
func (p PathStep) IsStop() bool { return p.Kind != "" }
