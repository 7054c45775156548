package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	employerdomain "github.com/talentbill/talentbill/internal/employer/domain"
	paymentdomain "github.com/talentbill/talentbill/internal/payment/domain"
	plandomain "github.com/talentbill/talentbill/internal/plan/domain"
	subscriptiondomain "github.com/talentbill/talentbill/internal/subscription/domain"
	"github.com/talentbill/talentbill/pkg/db/pagination"
)

type ListInvoicesResponse struct {
	Invoices []*Invoice           `json:"invoices"`
	PageInfo *pagination.PageInfo `json:"page_info"`
}

type Service interface {
	// IssueForPayment runs the full issuance chain for a verified payment:
	// number assignment, pricing, rendering, archival, persistence and
	// best-effort notification. Rendering or archival failure aborts the
	// issuance with no Invoice row; the consumed sequence number is burned.
	IssueForPayment(
		ctx context.Context,
		payment *paymentdomain.PaymentRecord,
		subscription *subscriptiondomain.SubscriptionRecord,
		plan *plandomain.PlanDefinition,
		employer *employerdomain.Employer,
	) (*Invoice, error)

	List(ctx context.Context, employerID snowflake.ID, page pagination.Pagination) (*ListInvoicesResponse, error)
	GetByNumber(ctx context.Context, employerID snowflake.ID, number string) (*Invoice, error)
	// Void flips the status; the invoice number stays consumed.
	Void(ctx context.Context, employerID snowflake.ID, number string) (*Invoice, error)
}
