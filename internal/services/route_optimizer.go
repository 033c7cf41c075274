package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"food-delivery-service/internal/domain"
	"food-delivery-service/internal/ports"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// RouteOptimizer distributes every order across a fixed rider pool and
// sequences each rider's stops with BuildRoute.
//
// Orders are assigned greedily, tightest time limit first. An order whose
// restaurant to customer distance exceeds its time limit is infeasible for
// every rider and is reported in Plan.Unassigned. Otherwise every rider is
// evaluated by rebuilding its route with the order appended, and the rider
// with the smallest additional time wins (lowest rider index on ties).
//
// Each evaluation rebuilds the rider's whole route, so one run costs
// O(orders × riders × route rebuild).
type RouteOptimizer struct {
	oracle      ports.DistanceOracle
	restaurants []*domain.Restaurant
	riders      int
	parallelism int
	log         logrus.FieldLogger

	assigned   [][]domain.Assignment
	routeTimes []int
	routes     []domain.Route
	unassigned []domain.UnassignedOrder
}

type OptimizerOption func(*RouteOptimizer)

// WithParallelism evaluates up to n riders concurrently per order.
// Values below 2 keep evaluation sequential.
func WithParallelism(n int) OptimizerOption {
	return func(o *RouteOptimizer) { o.parallelism = n }
}

// WithLogger replaces the default module logger.
func WithLogger(l logrus.FieldLogger) OptimizerOption {
	return func(o *RouteOptimizer) { o.log = l }
}

func NewRouteOptimizer(
	oracle ports.DistanceOracle,
	restaurants []*domain.Restaurant,
	riders int,
	opts ...OptimizerOption,
) (*RouteOptimizer, error) {
	if oracle == nil {
		return nil, errors.New("new route optimizer: oracle must be non-nil")
	}
	if riders < 0 {
		return nil, fmt.Errorf("new route optimizer: riders must be non-negative, got %d", riders)
	}

	o := &RouteOptimizer{
		oracle:      oracle,
		restaurants: restaurants,
		riders:      riders,
		parallelism: 1,
		log:         logrus.WithField("module", "optimizer"),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.reset()
	return o, nil
}

func (o *RouteOptimizer) reset() {
	o.assigned = make([][]domain.Assignment, o.riders)
	o.routeTimes = make([]int, o.riders)
	o.routes = make([]domain.Route, o.riders)
	for i := range o.routes {
		o.routes[i] = domain.Route{Rider: i + 1, Stops: []domain.Stop{}}
	}
	o.unassigned = []domain.UnassignedOrder{}
}

// Optimize assigns every order and returns one route per rider.
// Calling it again discards the previous result and recomputes from scratch.
func (o *RouteOptimizer) Optimize(ctx context.Context) (*domain.Plan, error) {
	o.reset()

	pending := make([]domain.Assignment, 0)
	for _, r := range o.restaurants {
		if r == nil {
			continue
		}
		for _, ord := range r.Orders {
			pending = append(pending, domain.Assignment{Restaurant: r, Order: ord})
		}
	}

	// Stable sort keeps input order among equal limits.
	slices.SortStableFunc(pending, func(a, b domain.Assignment) int {
		return a.Order.TimeLimit - b.Order.TimeLimit
	})

	for _, a := range pending {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("optimize: %w", err)
		}
		if err := o.assign(ctx, a); err != nil {
			return nil, fmt.Errorf("optimize: %w", err)
		}
	}

	for i := 0; i < o.riders; i++ {
		if len(o.assigned[i]) == 0 {
			continue
		}
		route, err := BuildRiderRoute(o.oracle, i+1, o.assigned[i])
		if err != nil {
			return nil, fmt.Errorf("optimize: %w", err)
		}
		o.routes[i] = route
		o.routeTimes[i] = route.TotalTime
	}

	o.log.WithFields(logrus.Fields{
		"riders":     o.riders,
		"orders":     len(pending),
		"unassigned": len(o.unassigned),
		"total_time": o.TotalTime(),
	}).Debug("optimization finished")

	return &domain.Plan{
		Riders:     o.riders,
		Routes:     slices.Clone(o.routes),
		Unassigned: slices.Clone(o.unassigned),
	}, nil
}

func (o *RouteOptimizer) assign(ctx context.Context, a domain.Assignment) error {
	direct, err := o.oracle.Distance(a.Restaurant.Location, a.Order.Location)
	if err != nil {
		return fmt.Errorf("feasibility of order %q at %q: %w", a.Order.Name, a.Restaurant.Name, err)
	}

	// The limit covers restaurant to customer only, so it gates every rider alike.
	if direct > a.Order.TimeLimit {
		o.drop(a, direct, domain.ReasonTimeLimitExceeded)
		return nil
	}
	if o.riders == 0 {
		o.drop(a, direct, domain.ReasonNoRiders)
		return nil
	}

	times, err := o.evaluate(ctx, a)
	if err != nil {
		return err
	}

	best := -1
	minAdditional := math.MaxInt
	for i, t := range times {
		additional := t - o.routeTimes[i]
		if additional < minAdditional {
			minAdditional = additional
			best = i
		}
	}

	o.assigned[best] = append(o.assigned[best], a)
	o.routeTimes[best] = times[best]

	o.log.WithFields(logrus.Fields{
		"order":      a.Order.Name,
		"restaurant": a.Restaurant.Name,
		"rider":      best + 1,
		"additional": minAdditional,
	}).Debug("order assigned")
	return nil
}

// evaluate returns, per rider, the total route time the rider would have
// with a appended. It never mutates rider state.
func (o *RouteOptimizer) evaluate(ctx context.Context, a domain.Assignment) ([]int, error) {
	times := make([]int, o.riders)

	hypothetical := func(i int) error {
		// Clip forces append to copy instead of writing into the shared backing array.
		test := append(slices.Clip(o.assigned[i]), a)
		_, t, err := BuildRoute(o.oracle, test)
		if err != nil {
			return fmt.Errorf("evaluate rider %d for order %q: %w", i+1, a.Order.Name, err)
		}
		times[i] = t
		return nil
	}

	if o.parallelism < 2 || o.riders < 2 {
		for i := 0; i < o.riders; i++ {
			if err := hypothetical(i); err != nil {
				return nil, err
			}
		}
		return times, nil
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)
	for i := 0; i < o.riders; i++ {
		g.Go(func() error { return hypothetical(i) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return times, nil
}

func (o *RouteOptimizer) drop(a domain.Assignment, direct int, reason domain.UnassignedReason) {
	o.unassigned = append(o.unassigned, domain.UnassignedOrder{
		Restaurant: a.Restaurant.Name,
		Order:      a.Order,
		Distance:   direct,
		Reason:     reason,
	})
	o.log.WithFields(logrus.Fields{
		"order":      a.Order.Name,
		"restaurant": a.Restaurant.Name,
		"distance":   direct,
		"time_limit": a.Order.TimeLimit,
		"reason":     reason,
	}).Debug("order left unassigned")
}

// Routes returns the routes of the last Optimize run, one per rider.
func (o *RouteOptimizer) Routes() []domain.Route { return slices.Clone(o.routes) }

// RouteTimes returns the per-rider total times of the last Optimize run.
func (o *RouteOptimizer) RouteTimes() []int { return slices.Clone(o.routeTimes) }

// Unassigned returns the orders left out by the last Optimize run.
func (o *RouteOptimizer) Unassigned() []domain.UnassignedOrder { return slices.Clone(o.unassigned) }

// TotalTime returns the sum of all per-rider total times.
func (o *RouteOptimizer) TotalTime() int {
	total := 0
	for _, t := range o.routeTimes {
		total += t
	}
	return total
}
