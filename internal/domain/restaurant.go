package domain

// A restaurant located on the grid that owns the orders placed with it.
type Restaurant struct {
	Name     string
	Location Node
	Orders   []Order
}

func NewRestaurant(name string, location Node) *Restaurant {
	return &Restaurant{Name: name, Location: location}
}

// Append an order to the restaurant. Orders are only added while loading input.
func (r *Restaurant) AddOrder(o Order) {
	r.Orders = append(r.Orders, o)
}

// Return the number of orders placed with the restaurant.
func (r *Restaurant) OrderCount() int {
	return len(r.Orders)
}
