package domain

// A single customer order placed at a restaurant.
// TimeLimit is the maximum travel time allowed from the order's restaurant
// to Location, measured in grid edges.
type Order struct {
	Name      string
	Location  Node
	TimeLimit int
}
