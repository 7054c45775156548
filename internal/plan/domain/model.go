package domain

import (
	"time"
)

type BillingPeriod string

const (
	PeriodMonthly BillingPeriod = "monthly"
	PeriodYearly  BillingPeriod = "yearly"
	PeriodOneTime BillingPeriod = "one_time"
	PeriodForever BillingPeriod = "forever"
)

const (
	PlanFree       = "free"
	PlanBasic      = "basic"
	PlanPremium    = "premium"
	PlanEnterprise = "enterprise"
)

// PlanDefinition is the purchasable catalog entry. This core only reads it;
// catalog management lives elsewhere.
type PlanDefinition struct {
	Code              string        `json:"code" gorm:"primaryKey;type:varchar(32)"`
	Name              string        `json:"name" gorm:"type:varchar(100);not null"`
	PriceAmount       int64         `json:"price_amount" gorm:"not null"` // major currency units
	Currency          string        `json:"currency" gorm:"type:varchar(3);not null"`
	Period            BillingPeriod `json:"period" gorm:"type:varchar(20);not null"`
	JobPostingLimit   *int          `json:"job_posting_limit"` // nil = unlimited
	FeaturedJobsLimit int           `json:"featured_jobs_limit" gorm:"default:0"`
	IsActive          bool          `json:"is_active" gorm:"default:true"`
	IsAvailable       bool          `json:"is_available" gorm:"default:true"`
	CreatedAt         time.Time     `json:"created_at" gorm:"not null"`
	UpdatedAt         time.Time     `json:"updated_at" gorm:"not null"`
}

func (PlanDefinition) TableName() string { return "plan_definitions" }

// AmountMinorUnits is the gateway-facing price, e.g. paise for INR.
func (p *PlanDefinition) AmountMinorUnits() int64 {
	return p.PriceAmount * 100
}

// Entitlements is the plan-derived limit set granted to an employer on a
// verified purchase.
type Entitlements struct {
	Plan              string `json:"plan"`
	JobPostingLimit   *int   `json:"job_posting_limit"`
	FeaturedJobsLimit int    `json:"featured_jobs_limit"`
}

func (p *PlanDefinition) Entitlements() Entitlements {
	return Entitlements{
		Plan:              p.Code,
		JobPostingLimit:   p.JobPostingLimit,
		FeaturedJobsLimit: p.FeaturedJobsLimit,
	}
}
