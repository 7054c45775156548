package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*PlanDefinition, error)
	List(ctx context.Context, db *gorm.DB) ([]*PlanDefinition, error)
}
