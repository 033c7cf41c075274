package services

import (
	"testing"

	"food-delivery-service/internal/citygraph"
	"food-delivery-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandRoute(t *testing.T) {
	g := mustGraph(t, 3)
	route := domain.Route{Rider: 1, TotalTime: 2, Stops: []domain.Stop{
		{Node: 5, Name: "R", Kind: domain.StopRestaurant},
		{Node: 1, Name: "O", Kind: domain.StopCustomer},
	}}

	steps, err := ExpandRoute(g, route)
	require.NoError(t, err)
	assert.Equal(t, []domain.PathStep{
		{Node: 5, Name: "R", Kind: domain.StopRestaurant},
		{Node: 2},
		{Node: 1, Name: "O", Kind: domain.StopCustomer},
	}, steps)
	assert.Len(t, steps, route.TotalTime+1)
	assert.False(t, steps[1].IsStop())
}

func TestExpandRouteStepCountMatchesTotalTime(t *testing.T) {
	g := mustGraph(t, 5)
	stops, total, err := BuildRoute(g, assignmentsOf(testCaseOne()...))
	require.NoError(t, err)

	steps, err := ExpandRoute(g, domain.Route{Rider: 1, Stops: stops, TotalTime: total})
	require.NoError(t, err)
	assert.Len(t, steps, total+1)

	named := 0
	for _, s := range steps {
		if s.IsStop() {
			named++
		}
	}
	assert.Equal(t, len(stops), named)
}

func TestExpandRouteSameNodeStops(t *testing.T) {
	g := mustGraph(t, 3)
	route := domain.Route{Rider: 1, Stops: []domain.Stop{
		{Node: 4, Name: "R", Kind: domain.StopRestaurant},
		{Node: 4, Name: "Upstairs", Kind: domain.StopCustomer},
	}}

	steps, err := ExpandRoute(g, route)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "Upstairs", steps[1].Name)
}

func TestExpandRouteEmptyAndErrors(t *testing.T) {
	steps, err := ExpandRoute(nil, domain.Route{Rider: 1})
	require.NoError(t, err)
	assert.Empty(t, steps)

	g := mustGraph(t, 3, citygraph.WithClosedNodes(2, 5, 8))
	_, err = ExpandRoute(g, domain.Route{Rider: 1, Stops: []domain.Stop{
		{Node: 1, Name: "R", Kind: domain.StopRestaurant},
		{Node: 3, Name: "O", Kind: domain.StopCustomer},
	}})
	assert.ErrorIs(t, err, citygraph.ErrUnreachable)
}
