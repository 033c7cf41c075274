package dto

import "time"

type PlanRequest struct {
	GridSize     int             `json:"grid_size"`
	Riders       int             `json:"riders"`
	Restaurants  []RestaurantDTO `json:"restaurants"`
	ClosedNodes  []int           `json:"closed_nodes"`
	IncludePaths bool            `json:"include_paths"`
}

type StopResponse struct {
	Node int    `json:"node"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type PathStepResponse struct {
	Node int    `json:"node"`
	Name string `json:"name,omitempty"`
	Kind string `json:"kind,omitempty"`
}

type RouteResponse struct {
	Rider     int                `json:"rider"`
	TotalTime int                `json:"total_time"`
	Stops     []StopResponse     `json:"stops"`
	Path      []PathStepResponse `json:"path,omitempty"`
}

type UnassignedResponse struct {
	Restaurant string   `json:"restaurant"`
	Order      OrderDTO `json:"order"`
	Distance   int      `json:"distance"`
	Reason     string   `json:"reason"`
}

type PlanResponse struct {
	ID          string               `json:"id,omitempty"`
	GridSize    int                  `json:"grid_size"`
	ClosedNodes []int                `json:"closed_nodes,omitempty"`
	Riders      int                  `json:"riders"`
	TotalTime   int                  `json:"total_time"`
	Routes      []RouteResponse      `json:"routes"`
	Unassigned  []UnassignedResponse `json:"unassigned"`
	CreatedAt   time.Time            `json:"created_at"`
}
