package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Employer is the billing-relevant subset of the employer document:
// identity/address for invoice snapshots plus the entitlement fields this
// core mutates. Profile management is out of scope.
type Employer struct {
	ID                    snowflake.ID `json:"id" gorm:"primaryKey"`
	CompanyName           string       `json:"company_name" gorm:"type:varchar(200);not null"`
	Email                 string       `json:"email" gorm:"type:varchar(255);not null;index"`
	Phone                 string       `json:"phone" gorm:"type:varchar(32)"`
	Address               string       `json:"address" gorm:"type:text"`
	SubscriptionPlan      string       `json:"subscription_plan" gorm:"type:varchar(32);default:'free'"`
	SubscriptionStartDate *time.Time   `json:"subscription_start_date"`
	SubscriptionEndDate   *time.Time   `json:"subscription_end_date"` // nil = unlimited
	JobPostingLimit       *int         `json:"job_posting_limit"`     // nil = unlimited
	FeaturedJobsLimit     int          `json:"featured_jobs_limit" gorm:"default:0"`
	CreatedAt             time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt             time.Time    `json:"updated_at" gorm:"not null"`
}

func (Employer) TableName() string { return "employers" }

// Entitlement is what a verified payment writes onto the employer.
type Entitlement struct {
	Plan              string
	StartDate         *time.Time
	EndDate           *time.Time
	JobPostingLimit   *int
	FeaturedJobsLimit int
}
