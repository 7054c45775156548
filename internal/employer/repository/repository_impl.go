package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	employerdomain "github.com/talentbill/talentbill/internal/employer/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) employerdomain.Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, employer *employerdomain.Employer) error {
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(employer).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*employerdomain.Employer, error) {
	if db == nil {
		db = r.db
	}
	var e employerdomain.Employer
	if err := db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *repo) ApplyEntitlement(ctx context.Context, db *gorm.DB, id snowflake.ID, ent employerdomain.Entitlement) error {
	if db == nil {
		db = r.db
	}
	result := db.WithContext(ctx).
		Model(&employerdomain.Employer{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"subscription_plan":       ent.Plan,
			"subscription_start_date": ent.StartDate,
			"subscription_end_date":   ent.EndDate,
			"job_posting_limit":       ent.JobPostingLimit,
			"featured_jobs_limit":     ent.FeaturedJobsLimit,
			"updated_at":              time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return employerdomain.ErrEmployerNotFound
	}
	return nil
}
