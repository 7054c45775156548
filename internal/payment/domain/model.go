package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentStatusInitiated         PaymentStatus = "initiated"
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusSuccess           PaymentStatus = "success"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusCancelled         PaymentStatus = "cancelled"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentStatusDisputed          PaymentStatus = "disputed"
)

// allowedTransitions encodes the forward-only payment lifecycle. The
// refund/dispute edges exist for administrative tooling; this core's write
// path stops at success/failed.
var allowedTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusInitiated: {PaymentStatusPending, PaymentStatusSuccess, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusPending:   {PaymentStatusSuccess, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusSuccess:   {PaymentStatusRefunded, PaymentStatusPartiallyRefunded, PaymentStatusDisputed},
}

func TransitionAllowed(from, to PaymentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the verification write path is done with this
// record. Refund-side statuses are terminal too: they are only reachable
// from success.
func (s PaymentStatus) Terminal() bool {
	return s != PaymentStatusInitiated && s != PaymentStatusPending
}

// PaymentRecord is one purchase attempt, keyed by the gateway-issued order
// id. Never hard-deleted.
type PaymentRecord struct {
	ID               snowflake.ID   `json:"id" gorm:"primaryKey"`
	EmployerID       snowflake.ID   `json:"employer_id" gorm:"not null;index"`
	PlanCode         string         `json:"plan_code" gorm:"type:varchar(32);not null"`
	Amount           int64          `json:"amount" gorm:"not null"` // major currency units
	Currency         string         `json:"currency" gorm:"type:varchar(3);not null"`
	GatewayOrderID   string         `json:"gateway_order_id" gorm:"type:varchar(64);not null;uniqueIndex"`
	GatewayPaymentID string         `json:"gateway_payment_id" gorm:"type:varchar(64)"`
	GatewaySignature string         `json:"gateway_signature" gorm:"type:varchar(128)"`
	GatewayReceipt   string         `json:"gateway_receipt" gorm:"type:varchar(64)"`
	GatewayNotes     datatypes.JSON `json:"gateway_notes" gorm:"type:jsonb"`
	Status           PaymentStatus  `json:"status" gorm:"type:varchar(20);not null;index"`
	PaymentMethod    string         `json:"payment_method" gorm:"type:varchar(32)"`
	InitiatedAt      time.Time      `json:"initiated_at" gorm:"not null"`
	CompletedAt      *time.Time     `json:"completed_at"`
	FailedAt         *time.Time     `json:"failed_at"`
	RefundedAt       *time.Time     `json:"refunded_at"`
	FailureReason    string         `json:"failure_reason" gorm:"type:text"`
	ErrorCode        string         `json:"error_code" gorm:"type:varchar(64)"`
	ErrorDescription string         `json:"error_description" gorm:"type:text"`
	RefundAmount     *int64         `json:"refund_amount"`
	RefundReason     string         `json:"refund_reason" gorm:"type:text"`
	RefundID         string         `json:"refund_id" gorm:"type:varchar(64)"`
	CreatedAt        time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt        time.Time      `json:"updated_at" gorm:"not null"`
}

func (PaymentRecord) TableName() string { return "payment_records" }

// StatusCount is one bucket of the per-employer payment statistics.
type StatusCount struct {
	Status PaymentStatus `json:"status"`
	Count  int64         `json:"count"`
	Amount int64         `json:"amount"`
}
