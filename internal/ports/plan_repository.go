package ports

import (
	"context"
	"errors"

	"food-delivery-service/internal/domain"
)

// ErrPlanNotFound is returned by PlanRepository.GetPlan for unknown ids.
var ErrPlanNotFound = errors.New("plan not found")

// Port: persistence for optimization results.
type PlanRepository interface {
	// Store the plan and return its id. A new id is generated when plan.ID is empty.
	SavePlan(ctx context.Context, plan *domain.Plan) (string, error)
	GetPlan(ctx context.Context, id string) (*domain.Plan, error)
}
