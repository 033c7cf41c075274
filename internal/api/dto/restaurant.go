package dto

type OrderDTO struct {
	Name      string `json:"name"`
	Location  int    `json:"location"`
	TimeLimit int    `json:"time_limit"`
}

type RestaurantDTO struct {
	Name     string     `json:"name"`
	Location int        `json:"location"`
	Orders   []OrderDTO `json:"orders"`
}

type ListRestaurantsResponse struct {
	Restaurants []RestaurantDTO `json:"restaurants"`
}
