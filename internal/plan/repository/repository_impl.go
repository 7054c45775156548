package repository

import (
	"context"
	"errors"
	"strings"

	plandomain "github.com/talentbill/talentbill/internal/plan/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) plandomain.Repository {
	return &repo{db: db}
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*plandomain.PlanDefinition, error) {
	if db == nil {
		db = r.db
	}
	var p plandomain.PlanDefinition
	err := db.WithContext(ctx).
		Where("code = ?", strings.ToLower(strings.TrimSpace(code))).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]*plandomain.PlanDefinition, error) {
	if db == nil {
		db = r.db
	}
	var items []*plandomain.PlanDefinition
	err := db.WithContext(ctx).
		Where("is_active = ? AND is_available = ?", true, true).
		Order("price_amount ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
