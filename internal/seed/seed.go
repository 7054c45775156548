// Package seed installs the default plan catalog. Seeding is idempotent
// and safe to run on every startup.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	employerdomain "github.com/talentbill/talentbill/internal/employer/domain"
	plandomain "github.com/talentbill/talentbill/internal/plan/domain"
	"gorm.io/gorm"
)

type planSeed struct {
	Name              string
	PriceAmount       int64
	Period            plandomain.BillingPeriod
	JobPostingLimit   *int
	FeaturedJobsLimit int
}

func intPtr(v int) *int { return &v }

// defaultCatalog is the launch pricing, INR major units. A nil posting
// limit means unlimited.
var defaultCatalog = []planSeed{
	{Name: "Free", PriceAmount: 0, Period: plandomain.PeriodForever, JobPostingLimit: intPtr(1)},
	{Name: "Basic", PriceAmount: 2499, Period: plandomain.PeriodMonthly, JobPostingLimit: intPtr(10), FeaturedJobsLimit: 2},
	{Name: "Premium", PriceAmount: 7999, Period: plandomain.PeriodMonthly, JobPostingLimit: intPtr(50), FeaturedJobsLimit: 10},
	{Name: "Enterprise", PriceAmount: 79999, Period: plandomain.PeriodYearly, JobPostingLimit: nil, FeaturedJobsLimit: 50},
}

// EnsurePlanCatalog inserts any missing catalog plans. Existing rows are
// left untouched so price changes made through operations tooling survive
// restarts.
func EnsurePlanCatalog(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range defaultCatalog {
			if err := ensurePlanTx(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensurePlanTx(ctx context.Context, tx *gorm.DB, p planSeed) error {
	code := slug.Make(p.Name)

	var existing plandomain.PlanDefinition
	err := tx.WithContext(ctx).Where("code = ?", code).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	plan := plandomain.PlanDefinition{
		Code:              code,
		Name:              p.Name,
		PriceAmount:       p.PriceAmount,
		Currency:          "INR",
		Period:            p.Period,
		JobPostingLimit:   p.JobPostingLimit,
		FeaturedJobsLimit: p.FeaturedJobsLimit,
		IsActive:          true,
		IsAvailable:       true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	return tx.WithContext(ctx).Create(&plan).Error
}

// EnsureDemoEmployer creates a fixed-ID employer for local development.
// Production deployments never call this.
func EnsureDemoEmployer(db *gorm.DB, node *snowflake.Node) (*employerdomain.Employer, error) {
	if db == nil {
		return nil, errors.New("seed database handle is required")
	}

	ctx := context.Background()
	var employer employerdomain.Employer
	err := db.WithContext(ctx).Where("email = ?", "demo@talentbill.dev").First(&employer).Error
	if err == nil {
		return &employer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	employer = employerdomain.Employer{
		ID:               node.Generate(),
		CompanyName:      "Demo Hiring Co",
		Email:            "demo@talentbill.dev",
		SubscriptionPlan: plandomain.PlanFree,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := db.WithContext(ctx).Create(&employer).Error; err != nil {
		return nil, err
	}
	return &employer, nil
}
