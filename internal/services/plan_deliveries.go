package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"food-delivery-service/internal/citygraph"
	"food-delivery-service/internal/domain"
	"food-delivery-service/internal/metrics"
	"food-delivery-service/internal/platform/obs"
	"food-delivery-service/internal/ports"

	"github.com/sirupsen/logrus"
)

type PlanDeliveriesRequest struct {
	GridSize int
	Riders   int
	// Restaurants to plan for. When nil the repository is queried.
	Restaurants []*domain.Restaurant
	ClosedNodes []domain.Node
	Parallelism int
}

// PlanDeliveries loads the restaurants, builds the grid city, prewarms the
// distances every route can ask for and runs the optimizer.
func PlanDeliveries(
	ctx context.Context,
	req PlanDeliveriesRequest,
	repo ports.RestaurantRepository,
	cache ports.DistanceCache,
) (_ *domain.Plan, err error) {
	defer obs.Time(ctx, "plan.Deliveries")(&err)
	start := time.Now()

	restaurants := req.Restaurants
	if restaurants == nil {
		if repo == nil {
			return nil, errors.New("plan deliveries: no restaurants given and repository is nil")
		}
		restaurants, err = repo.ListRestaurants(ctx)
		if err != nil {
			return nil, fmt.Errorf("plan deliveries: list restaurants: %w", err)
		}
	}

	scenario := &domain.Scenario{GridSize: req.GridSize, Riders: req.Riders, Restaurants: restaurants}
	if err := domain.ValidateScenario(scenario); err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	graph, err := citygraph.New(req.GridSize, citygraph.WithClosedNodes(req.ClosedNodes...))
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: build graph: %w", err)
	}

	// Every distance a route can ask for starts at a restaurant or a customer.
	nodes := make([]domain.Node, 0, len(restaurants)+scenario.OrderCount())
	for _, r := range restaurants {
		nodes = append(nodes, r.Location)
		for _, o := range r.Orders {
			nodes = append(nodes, o.Location)
		}
	}

	table, err := PrewarmDistances(ctx, graph, cache, nodes)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	log := logrus.WithField("req_id", obs.RequestID(ctx))
	optimizer, err := NewRouteOptimizer(table, restaurants, req.Riders,
		WithParallelism(req.Parallelism),
		WithLogger(log.WithField("module", "optimizer")),
	)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	plan, err := optimizer.Optimize(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}
	plan.GridSize = req.GridSize
	plan.ClosedNodes = slices.Clone(req.ClosedNodes)
	plan.CreatedAt = time.Now().UTC()

	metrics.ObservePlan(plan, time.Since(start))
	log.WithFields(logrus.Fields{
		"grid_size":  req.GridSize,
		"riders":     req.Riders,
		"delivered":  plan.DeliveredCount(),
		"unassigned": len(plan.Unassigned),
		"total_time": plan.TotalTime(),
	}).Info("plan deliveries complete")

	return plan, nil
}
