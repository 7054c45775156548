package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/talentbill/talentbill/internal/plan/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusCreated   SubscriptionStatus = "created"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusFailed    SubscriptionStatus = "failed"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// SubscriptionRecord is one entitlement grant tied to one payment order.
// At most one record exists per gateway order id.
type SubscriptionRecord struct {
	ID         snowflake.ID             `json:"id" gorm:"primaryKey"`
	EmployerID snowflake.ID             `json:"employer_id" gorm:"not null;index"`
	PlanCode   string                   `json:"plan_code" gorm:"type:varchar(32);not null"`
	Period     plandomain.BillingPeriod `json:"period" gorm:"type:varchar(20);not null"`
	Amount     int64                    `json:"amount" gorm:"not null"`
	Currency   string                   `json:"currency" gorm:"type:varchar(3);not null"`
	OrderID    string                   `json:"order_id" gorm:"type:varchar(64);not null;uniqueIndex"`
	PaymentID  string                   `json:"payment_id" gorm:"type:varchar(64)"`
	Signature  string                   `json:"signature" gorm:"type:varchar(128)"`
	Receipt    string                   `json:"receipt" gorm:"type:varchar(64)"`
	Status     SubscriptionStatus       `json:"status" gorm:"type:varchar(20);not null"`
	StartDate  *time.Time               `json:"start_date"`
	EndDate    *time.Time               `json:"end_date"` // nil = unlimited
	CreatedAt  time.Time                `json:"created_at" gorm:"not null"`
	UpdatedAt  time.Time                `json:"updated_at" gorm:"not null"`
}

func (SubscriptionRecord) TableName() string { return "subscription_records" }

// Window computes the entitlement period granted by a billing period.
// One-time and forever purchases have no end date; so does any period this
// build does not know about, which keeps an unrecognized catalog value from
// accidentally expiring a paid plan.
func Window(period plandomain.BillingPeriod, now time.Time) (start time.Time, end *time.Time) {
	start = now
	switch period {
	case plandomain.PeriodMonthly:
		e := now.AddDate(0, 1, 0)
		end = &e
	case plandomain.PeriodYearly:
		e := now.AddDate(1, 0, 0)
		end = &e
	case plandomain.PeriodOneTime, plandomain.PeriodForever:
		end = nil
	default:
		end = nil
	}
	return start, end
}
