package repository

import (
	"context"
	"errors"

	subscriptiondomain "github.com/talentbill/talentbill/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) subscriptiondomain.Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *subscriptiondomain.SubscriptionRecord) error {
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) FindByOrderID(ctx context.Context, db *gorm.DB, orderID string) (*subscriptiondomain.SubscriptionRecord, error) {
	if db == nil {
		db = r.db
	}
	var record subscriptiondomain.SubscriptionRecord
	if err := db.WithContext(ctx).Where("order_id = ?", orderID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, record *subscriptiondomain.SubscriptionRecord) error {
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Save(record).Error
}
