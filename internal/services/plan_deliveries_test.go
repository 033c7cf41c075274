package services

import (
	"context"
	"errors"
	"testing"

	"food-delivery-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanDeliveriesFromRepository(t *testing.T) {
	repo := &fakeRestaurantRepo{restaurants: testCaseOne()}
	cache := newMemoryCache()

	plan, err := PlanDeliveries(context.Background(), PlanDeliveriesRequest{GridSize: 5, Riders: 2}, repo, cache)
	require.NoError(t, err)

	assert.Equal(t, 5, plan.GridSize)
	assert.Equal(t, 2, plan.Riders)
	assert.False(t, plan.CreatedAt.IsZero())
	require.Len(t, plan.Routes, 2)
	assert.Equal(t, 3, plan.DeliveredCount())
	assert.Empty(t, plan.Unassigned)
	assert.NotEmpty(t, cache.rows["5x5"])
}

func TestPlanDeliveriesInlineRestaurantsSkipRepository(t *testing.T) {
	repo := &fakeRestaurantRepo{err: errors.New("must not be called")}
	r := restaurant("R", 5, domain.Order{Name: "O", Location: 1, TimeLimit: 1})

	plan, err := PlanDeliveries(context.Background(), PlanDeliveriesRequest{
		GridSize:    3,
		Riders:      1,
		Restaurants: []*domain.Restaurant{r},
		Parallelism: 2,
	}, repo, nil)
	require.NoError(t, err)
	require.Len(t, plan.Unassigned, 1)
	assert.Equal(t, "O", plan.Unassigned[0].Order.Name)
	assert.Equal(t, 0, plan.TotalTime())
}

func TestPlanDeliveriesErrors(t *testing.T) {
	ctx := context.Background()

	_, err := PlanDeliveries(ctx, PlanDeliveriesRequest{GridSize: 3, Riders: 1}, nil, nil)
	assert.Error(t, err)

	_, err = PlanDeliveries(ctx, PlanDeliveriesRequest{GridSize: 3, Riders: 1}, &fakeRestaurantRepo{err: errors.New("db gone")}, nil)
	assert.ErrorContains(t, err, "db gone")

	var verr *domain.ValidationError
	_, err = PlanDeliveries(ctx, PlanDeliveriesRequest{GridSize: 3, Riders: 0, Restaurants: []*domain.Restaurant{}}, nil, nil)
	assert.True(t, errors.As(err, &verr), "got %v", err)

	_, err = PlanDeliveries(ctx, PlanDeliveriesRequest{GridSize: 4, Riders: 1}, &fakeRestaurantRepo{restaurants: testCaseOne()}, nil)
	assert.True(t, errors.As(err, &verr), "locations beyond a 4×4 grid must be rejected, got %v", err)
}
