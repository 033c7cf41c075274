package dto

import (
	"food-delivery-service/internal/domain"

	"github.com/samber/lo"
)

func FromRestaurant(r *domain.Restaurant) RestaurantDTO {
	return RestaurantDTO{
		Name:     r.Name,
		Location: int(r.Location),
		Orders:   lo.Map(r.Orders, func(o domain.Order, _ int) OrderDTO { return FromOrder(o) }),
	}
}

func FromOrder(o domain.Order) OrderDTO {
	return OrderDTO{Name: o.Name, Location: int(o.Location), TimeLimit: o.TimeLimit}
}

// ToRestaurants converts request restaurants into domain values, keeping order.
func ToRestaurants(in []RestaurantDTO) []*domain.Restaurant {
	out := make([]*domain.Restaurant, 0, len(in))
	for _, rd := range in {
		r := domain.NewRestaurant(rd.Name, domain.Node(rd.Location))
		for _, od := range rd.Orders {
			r.AddOrder(domain.Order{Name: od.Name, Location: domain.Node(od.Location), TimeLimit: od.TimeLimit})
		}
		out = append(out, r)
	}
	return out
}

func ToNodes(ids []int) []domain.Node {
	return lo.Map(ids, func(id int, _ int) domain.Node { return domain.Node(id) })
}

// FromPlan builds the response body. paths is indexed like plan.Routes and may be nil.
func FromPlan(plan *domain.Plan, paths [][]domain.PathStep) PlanResponse {
	res := PlanResponse{
		ID:          plan.ID,
		GridSize:    plan.GridSize,
		ClosedNodes: lo.Map(plan.ClosedNodes, func(n domain.Node, _ int) int { return int(n) }),
		Riders:      plan.Riders,
		TotalTime:   plan.TotalTime(),
		Routes:      make([]RouteResponse, 0, len(plan.Routes)),
		Unassigned:  make([]UnassignedResponse, 0, len(plan.Unassigned)),
		CreatedAt:   plan.CreatedAt,
	}

	for i, r := range plan.Routes {
		rr := RouteResponse{
			Rider:     r.Rider,
			TotalTime: r.TotalTime,
			Stops: lo.Map(r.Stops, func(s domain.Stop, _ int) StopResponse {
				return StopResponse{Node: int(s.Node), Name: s.Name, Kind: string(s.Kind)}
			}),
		}
		if i < len(paths) {
			rr.Path = lo.Map(paths[i], func(s domain.PathStep, _ int) PathStepResponse {
				return PathStepResponse{Node: int(s.Node), Name: s.Name, Kind: string(s.Kind)}
			})
		}
		res.Routes = append(res.Routes, rr)
	}

	for _, u := range plan.Unassigned {
		res.Unassigned = append(res.Unassigned, UnassignedResponse{
			Restaurant: u.Restaurant,
			Order:      FromOrder(u.Order),
			Distance:   u.Distance,
			Reason:     string(u.Reason),
		})
	}
	return res
}
