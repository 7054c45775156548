package domain

import (
	"context"
	"errors"
)

var ErrPlanNotFound = errors.New("plan_not_found")

type Service interface {
	// Lookup resolves a plan code only if the plan is active and available.
	Lookup(ctx context.Context, code string) (*PlanDefinition, error)
	// List returns the purchasable catalog.
	List(ctx context.Context) ([]*PlanDefinition, error)
}
