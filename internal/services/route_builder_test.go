package services

import (
	"testing"

	"food-delivery-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRouteEmpty(t *testing.T) {
	stops, total, err := BuildRoute(mustGraph(t, 3), nil)
	require.NoError(t, err)
	assert.Empty(t, stops)
	assert.Equal(t, 0, total)
}

func TestBuildRouteSingleOrder(t *testing.T) {
	g := mustGraph(t, 3)
	r := restaurant("R", 5, domain.Order{Name: "O", Location: 1, TimeLimit: 10})

	stops, total, err := BuildRoute(g, assignmentsOf(r))
	require.NoError(t, err)

	want, err := g.Distance(5, 1)
	require.NoError(t, err)
	assert.Equal(t, want, total)
	assert.Equal(t, 2, total)
	assert.Equal(t, []domain.Stop{
		{Node: 5, Name: "R", Kind: domain.StopRestaurant},
		{Node: 1, Name: "O", Kind: domain.StopCustomer},
	}, stops)
}

func TestBuildRouteNearestNeighborAcrossRestaurants(t *testing.T) {
	g := mustGraph(t, 5)

	stops, total, err := BuildRoute(g, assignmentsOf(testCaseOne()...))
	require.NoError(t, err)

	// 10 -> 15 (1) -> 7 (4) -> 18 (3) -> 21 (3)
	assert.Equal(t, 11, total)
	assert.Equal(t, []domain.Stop{
		{Node: 10, Name: "BurgerPalace", Kind: domain.StopRestaurant},
		{Node: 15, Name: "Zinger", Kind: domain.StopCustomer},
		{Node: 7, Name: "Beef", Kind: domain.StopCustomer},
		{Node: 18, Name: "PizzaPlanet", Kind: domain.StopRestaurant},
		{Node: 21, Name: "Tikka", Kind: domain.StopCustomer},
	}, stops)
}

// From node 5 restaurants at 3 and 7 are both two edges away; the one seen
// first in the assignments wins.
func TestBuildRouteRestaurantTieBreakFirstSeen(t *testing.T) {
	g := mustGraph(t, 3)
	r1 := restaurant("R1", 1, domain.Order{Name: "o1", Location: 5, TimeLimit: 10})
	r2 := restaurant("R2", 3, domain.Order{Name: "o2", Location: 2, TimeLimit: 10})
	r3 := restaurant("R3", 7, domain.Order{Name: "o3", Location: 8, TimeLimit: 10})

	stops, total, err := BuildRoute(g, assignmentsOf(r1, r3, r2))
	require.NoError(t, err)

	assert.Equal(t, 9, total)
	nodes := make([]domain.Node, 0, len(stops))
	for _, s := range stops {
		nodes = append(nodes, s.Node)
	}
	assert.Equal(t, []domain.Node{1, 5, 7, 8, 3, 2}, nodes)

	_, total2, err := BuildRoute(g, assignmentsOf(r1, r2, r3))
	require.NoError(t, err)
	// 1 -> 5 (2) -> 3 (2) -> 2 (1) -> 7 (3) -> 8 (1)
	assert.Equal(t, 9, total2)
}

func TestBuildRouteOrderTieBreakAssignmentOrder(t *testing.T) {
	g := mustGraph(t, 3)
	a := domain.Order{Name: "A", Location: 2, TimeLimit: 5}
	b := domain.Order{Name: "B", Location: 4, TimeLimit: 5}

	r := restaurant("R", 5, a, b)
	stops, total, err := BuildRoute(g, assignmentsOf(r))
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, "A", stops[1].Name)
	assert.Equal(t, "B", stops[2].Name)

	r = restaurant("R", 5, b, a)
	stops, _, err = BuildRoute(g, assignmentsOf(r))
	require.NoError(t, err)
	assert.Equal(t, "B", stops[1].Name)
}

func TestBuildRouteGroupsByRestaurantIdentity(t *testing.T) {
	g := mustGraph(t, 3)
	r := restaurant("R", 1,
		domain.Order{Name: "x", Location: 9, TimeLimit: 10},
		domain.Order{Name: "y", Location: 2, TimeLimit: 10},
	)
	other := restaurant("S", 9, domain.Order{Name: "z", Location: 8, TimeLimit: 10})

	// Interleaved assignments still yield a single visit per restaurant.
	assignments := []domain.Assignment{
		{Restaurant: r, Order: r.Orders[0]},
		{Restaurant: other, Order: other.Orders[0]},
		{Restaurant: r, Order: r.Orders[1]},
	}
	stops, total, err := BuildRoute(g, assignments)
	require.NoError(t, err)

	restaurantStops := 0
	for _, s := range stops {
		if s.Kind == domain.StopRestaurant {
			restaurantStops++
		}
	}
	assert.Equal(t, 2, restaurantStops)
	// 1 -> 2 (1) -> 9 (3) ; then S at 9 (0) -> 8 (1)
	assert.Equal(t, 5, total)
}

func TestBuildRoutePropagatesOracleErrors(t *testing.T) {
	g := mustGraph(t, 3)
	r := restaurant("R", 5, domain.Order{Name: "O", Location: 1, TimeLimit: 10})

	_, _, err := BuildRoute(failingOracle{inner: g, bad: 1}, assignmentsOf(r))
	assert.ErrorIs(t, err, errOracleDown)

	_, _, err = BuildRoute(g, []domain.Assignment{{Order: r.Orders[0]}})
	assert.Error(t, err)
}

func TestBuildRiderRoute(t *testing.T) {
	g := mustGraph(t, 3)
	r := restaurant("R", 5, domain.Order{Name: "O", Location: 1, TimeLimit: 10})

	route, err := BuildRiderRoute(g, 2, assignmentsOf(r))
	require.NoError(t, err)
	assert.Equal(t, 2, route.Rider)
	assert.Equal(t, 2, route.TotalTime)
	assert.Len(t, route.Stops, 2)
}
