package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	employerdomain "github.com/talentbill/talentbill/internal/employer/domain"
	plandomain "github.com/talentbill/talentbill/internal/plan/domain"
	"github.com/talentbill/talentbill/pkg/db/pagination"
)

type CreateOrderRequest struct {
	PlanCode string `json:"plan_code"`
}

// GatewayOrder is the order payload the client needs to open the gateway's
// checkout flow.
type GatewayOrder struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"` // minor currency units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type CreateOrderResponse struct {
	Order         GatewayOrder            `json:"order"`
	KeyID         string                  `json:"key_id"`
	Plan          plandomain.Entitlements `json:"plan"`
	PlanName      string                  `json:"plan_name"`
	PriceAmount   int64                   `json:"price_amount"`
	PriceCurrency string                  `json:"price_currency"`
}

type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	GatewaySignature string `json:"gateway_signature"`
	PlanCode         string `json:"plan_code"`
}

type VerifyPaymentResponse struct {
	Employer *employerdomain.Employer `json:"employer"`
	Plan     plandomain.Entitlements  `json:"plan"`
}

type ListPaymentsRequest struct {
	Page pagination.Pagination
}

type ListPaymentsResponse struct {
	Payments []*PaymentRecord     `json:"payments"`
	PageInfo *pagination.PageInfo `json:"page_info"`
}

type StatsResponse struct {
	ByStatus   []StatusCount `json:"by_status"`
	TotalSpent int64         `json:"total_spent"` // sum of successful payments
}

type Service interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*VerifyPaymentResponse, error)
	GetPayment(ctx context.Context, id snowflake.ID) (*PaymentRecord, error)
	ListPayments(ctx context.Context, req ListPaymentsRequest) (*ListPaymentsResponse, error)
	Stats(ctx context.Context) (*StatsResponse, error)
}
