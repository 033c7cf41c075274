package services

import (
	"context"
	"fmt"
	"testing"

	"food-delivery-service/internal/citygraph"
	"food-delivery-service/internal/domain"
	"food-delivery-service/internal/ports"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func optimize(t *testing.T, g ports.DistanceOracle, restaurants []*domain.Restaurant, riders int, opts ...OptimizerOption) (*RouteOptimizer, *domain.Plan) {
	t.Helper()
	o, err := NewRouteOptimizer(g, restaurants, riders, opts...)
	require.NoError(t, err)
	plan, err := o.Optimize(context.Background())
	require.NoError(t, err)
	return o, plan
}

func TestOptimizeSingleFeasibleOrder(t *testing.T) {
	g := mustGraph(t, 3)
	r := restaurant("R", 5, domain.Order{Name: "O", Location: 1, TimeLimit: 10})

	o, plan := optimize(t, g, []*domain.Restaurant{r}, 1)

	require.Len(t, plan.Routes, 1)
	assert.Equal(t, []domain.Stop{
		{Node: 5, Name: "R", Kind: domain.StopRestaurant},
		{Node: 1, Name: "O", Kind: domain.StopCustomer},
	}, plan.Routes[0].Stops)
	assert.Equal(t, 2, plan.Routes[0].TotalTime)
	assert.Equal(t, 2, plan.TotalTime())
	assert.Equal(t, 2, o.TotalTime())
	assert.Empty(t, plan.Unassigned)
}

func TestOptimizeInfeasibleOrderIsReported(t *testing.T) {
	g := mustGraph(t, 3)
	r := restaurant("R", 5, domain.Order{Name: "O", Location: 1, TimeLimit: 1})

	_, plan := optimize(t, g, []*domain.Restaurant{r}, 1)

	require.Len(t, plan.Routes, 1)
	assert.Empty(t, plan.Routes[0].Stops)
	assert.Equal(t, 0, plan.TotalTime())
	require.Len(t, plan.Unassigned, 1)
	assert.Equal(t, domain.UnassignedOrder{
		Restaurant: "R",
		Order:      r.Orders[0],
		Distance:   2,
		Reason:     domain.ReasonTimeLimitExceeded,
	}, plan.Unassigned[0])
}

func TestOptimizeExactLimitIsFeasible(t *testing.T) {
	g := mustGraph(t, 3)
	r := restaurant("R", 5, domain.Order{Name: "O", Location: 1, TimeLimit: 2})

	_, plan := optimize(t, g, []*domain.Restaurant{r}, 1)
	assert.Empty(t, plan.Unassigned)
	assert.Equal(t, 2, plan.TotalTime())
}

func TestOptimizeUnassignedFollowsUrgencyOrder(t *testing.T) {
	g := mustGraph(t, 5)
	r := restaurant("R", 1,
		domain.Order{Name: "late", Location: 25, TimeLimit: 3},
		domain.Order{Name: "urgent", Location: 24, TimeLimit: 1},
	)

	_, plan := optimize(t, g, []*domain.Restaurant{r}, 2)
	require.Len(t, plan.Unassigned, 2)
	assert.Equal(t, "urgent", plan.Unassigned[0].Order.Name)
	assert.Equal(t, "late", plan.Unassigned[1].Order.Name)
}

func TestOptimizePicksRiderWithLeastAdditionalTime(t *testing.T) {
	g := mustGraph(t, 5)
	a := restaurant("A", 1, domain.Order{Name: "a", Location: 2, TimeLimit: 1})
	b := restaurant("B", 25, domain.Order{Name: "b", Location: 24, TimeLimit: 1})

	_, plan := optimize(t, g, []*domain.Restaurant{a, b}, 2)

	require.Len(t, plan.Routes, 2)
	assert.Equal(t, 1, plan.Routes[0].Rider)
	assert.Equal(t, "A", plan.Routes[0].Stops[0].Name)
	assert.Equal(t, 1, plan.Routes[0].TotalTime)
	assert.Equal(t, 2, plan.Routes[1].Rider)
	assert.Equal(t, "B", plan.Routes[1].Stops[0].Name)
	assert.Equal(t, 1, plan.Routes[1].TotalTime)
	assert.Equal(t, 2, plan.TotalTime())
}

func TestOptimizeTieGoesToFirstRider(t *testing.T) {
	g := mustGraph(t, 3)
	r := restaurant("R", 5, domain.Order{Name: "O", Location: 6, TimeLimit: 3})

	_, plan := optimize(t, g, []*domain.Restaurant{r}, 3)
	require.Len(t, plan.Routes, 3)
	assert.Len(t, plan.Routes[0].Stops, 2)
	assert.Empty(t, plan.Routes[1].Stops)
	assert.Empty(t, plan.Routes[2].Stops)
}

func TestOptimizeZeroRiders(t *testing.T) {
	g := mustGraph(t, 3)
	r := restaurant("R", 5,
		domain.Order{Name: "ok", Location: 6, TimeLimit: 3},
		domain.Order{Name: "far", Location: 1, TimeLimit: 0},
	)

	o, plan := optimize(t, g, []*domain.Restaurant{r}, 0)
	assert.Empty(t, plan.Routes)
	assert.Equal(t, 0, o.TotalTime())
	require.Len(t, plan.Unassigned, 2)
	assert.Equal(t, domain.ReasonTimeLimitExceeded, plan.Unassigned[0].Reason)
	assert.Equal(t, domain.ReasonNoRiders, plan.Unassigned[1].Reason)
}

func TestOptimizeZeroRestaurants(t *testing.T) {
	_, plan := optimize(t, mustGraph(t, 4), nil, 3)
	require.Len(t, plan.Routes, 3)
	for i, r := range plan.Routes {
		assert.Equal(t, i+1, r.Rider)
		assert.Empty(t, r.Stops)
		assert.Equal(t, 0, r.TotalTime)
	}
	assert.Empty(t, plan.Unassigned)
}

func TestNewRouteOptimizerRejectsBadConfig(t *testing.T) {
	_, err := NewRouteOptimizer(nil, nil, 1)
	assert.Error(t, err)
	_, err = NewRouteOptimizer(mustGraph(t, 2), nil, -1)
	assert.Error(t, err)
}

func TestOptimizePropagatesOracleErrors(t *testing.T) {
	g := mustGraph(t, 3)
	r := restaurant("R", 5, domain.Order{Name: "O", Location: 1, TimeLimit: 10})

	o, err := NewRouteOptimizer(failingOracle{inner: g, bad: 1}, []*domain.Restaurant{r}, 2)
	require.NoError(t, err)
	_, err = o.Optimize(context.Background())
	assert.ErrorIs(t, err, errOracleDown)
}

func TestOptimizeUnreachableOrderFailsLoudly(t *testing.T) {
	g := mustGraph(t, 3, citygraph.WithClosedNodes(2, 5, 8))
	r := restaurant("R", 1, domain.Order{Name: "O", Location: 3, TimeLimit: 100})

	o, err := NewRouteOptimizer(g, []*domain.Restaurant{r}, 1)
	require.NoError(t, err)
	_, err = o.Optimize(context.Background())
	assert.ErrorIs(t, err, citygraph.ErrUnreachable)
}

func TestOptimizeHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o, err := NewRouteOptimizer(mustGraph(t, 5), testCaseOne(), 2)
	require.NoError(t, err)
	_, err = o.Optimize(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// gridScenario spreads restaurants and orders over an n×n grid with a mix
// of feasible and infeasible limits.
func gridScenario(n, restaurants, ordersEach int) []*domain.Restaurant {
	out := make([]*domain.Restaurant, 0, restaurants)
	cells := n * n
	for i := 0; i < restaurants; i++ {
		r := domain.NewRestaurant(fmt.Sprintf("R%d", i+1), domain.Node((i*7)%cells+1))
		for j := 0; j < ordersEach; j++ {
			r.AddOrder(domain.Order{
				Name:      fmt.Sprintf("R%d-O%d", i+1, j+1),
				Location:  domain.Node((i*13+j*29)%cells + 1),
				TimeLimit: (i + j*3) % (n + 2),
			})
		}
		out = append(out, r)
	}
	return out
}

func TestOptimizeInvariants(t *testing.T) {
	g := mustGraph(t, 8)
	restaurants := gridScenario(8, 6, 5)

	o, plan := optimize(t, g, restaurants, 3)

	delivered := map[string]int{}
	for i, route := range plan.Routes {
		assert.Equal(t, i+1, route.Rider)
		for _, s := range route.Deliveries() {
			delivered[s.Name]++
		}
	}

	unassigned := map[string]bool{}
	for _, u := range plan.Unassigned {
		unassigned[u.Order.Name] = true
		assert.Greater(t, u.Distance, u.Order.TimeLimit)
	}

	for _, r := range restaurants {
		for _, ord := range r.Orders {
			d, err := g.Distance(r.Location, ord.Location)
			require.NoError(t, err)
			if d <= ord.TimeLimit {
				assert.Equal(t, 1, delivered[ord.Name], "feasible order %s must be routed once", ord.Name)
				assert.False(t, unassigned[ord.Name])
			} else {
				assert.Zero(t, delivered[ord.Name], "infeasible order %s must not be routed", ord.Name)
				assert.True(t, unassigned[ord.Name])
			}
		}
	}

	sum := 0
	for _, rt := range o.RouteTimes() {
		sum += rt
	}
	assert.Equal(t, sum, plan.TotalTime())
	assert.Equal(t, sum, o.TotalTime())
}

func TestOptimizeParallelMatchesSequential(t *testing.T) {
	g := mustGraph(t, 10)
	restaurants := gridScenario(10, 8, 6)

	_, seq := optimize(t, g, restaurants, 4)
	_, par := optimize(t, g, restaurants, 4, WithParallelism(4))
	_, cached := optimize(t, citygraph.NewCached(g), restaurants, 4, WithParallelism(3))

	assert.Equal(t, seq.Routes, par.Routes)
	assert.Equal(t, seq.Unassigned, par.Unassigned)
	assert.Equal(t, seq.Routes, cached.Routes)
}

func TestOptimizeTwiceReplacesResult(t *testing.T) {
	o, err := NewRouteOptimizer(mustGraph(t, 5), testCaseOne(), 2)
	require.NoError(t, err)

	first, err := o.Optimize(context.Background())
	require.NoError(t, err)
	second, err := o.Optimize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Routes, second.Routes)
	assert.Equal(t, first.Unassigned, second.Unassigned)
	assert.Len(t, o.Routes(), 2)
	assert.Equal(t, len(first.Unassigned), len(o.Unassigned()))
}

func TestOptimizeLogsToInjectedLogger(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	g := mustGraph(t, 3)
	r := restaurant("R", 5,
		domain.Order{Name: "fast", Location: 1, TimeLimit: 10},
		domain.Order{Name: "late", Location: 9, TimeLimit: 1},
	)

	optimize(t, g, []*domain.Restaurant{r}, 1, WithLogger(logger.WithField("req_id", "abc")))

	var messages []string
	for _, e := range hook.AllEntries() {
		assert.Equal(t, "abc", e.Data["req_id"])
		messages = append(messages, e.Message)
	}
	assert.Contains(t, messages, "order assigned")
	assert.Contains(t, messages, "order left unassigned")
	assert.Contains(t, messages, "optimization finished")
}
