package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *SubscriptionRecord) error
	FindByOrderID(ctx context.Context, db *gorm.DB, orderID string) (*SubscriptionRecord, error)
	Update(ctx context.Context, db *gorm.DB, record *SubscriptionRecord) error
}
