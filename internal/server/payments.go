package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/talentbill/talentbill/internal/payment/domain"
	"github.com/talentbill/talentbill/pkg/db/pagination"
)

type createOrderRequest struct {
	PlanCode string `json:"plan_code" binding:"required"`
}

// CreateOrder
// POST /api/payments/orders
func (s *Server) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.CreateOrder(c.Request.Context(), domain.CreateOrderRequest{
		PlanCode: strings.TrimSpace(req.PlanCode),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

type verifyPaymentRequest struct {
	GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
	GatewaySignature string `json:"gateway_signature" binding:"required"`
	PlanCode         string `json:"plan_code" binding:"required"`
}

// VerifyPayment
// POST /api/payments/verify
func (s *Server) VerifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.VerifyPayment(c.Request.Context(), domain.VerifyPaymentRequest{
		GatewayOrderID:   strings.TrimSpace(req.GatewayOrderID),
		GatewayPaymentID: strings.TrimSpace(req.GatewayPaymentID),
		GatewaySignature: strings.TrimSpace(req.GatewaySignature),
		PlanCode:         strings.TrimSpace(req.PlanCode),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// ListPayments
// GET /api/payments
func (s *Server) ListPayments(c *gin.Context) {
	page := pageFromQuery(c)

	resp, err := s.paymentSvc.ListPayments(c.Request.Context(), domain.ListPaymentsRequest{Page: page})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, resp.Payments, resp.PageInfo)
}

// GetPayment
// GET /api/payments/:id
func (s *Server) GetPayment(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	record, err := s.paymentSvc.GetPayment(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, record)
}

// GetPaymentStats
// GET /api/payments/stats
func (s *Server) GetPaymentStats(c *gin.Context) {
	resp, err := s.paymentSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func pageFromQuery(c *gin.Context) pagination.Pagination {
	page := pagination.Pagination{PageToken: c.Query("page_token")}
	if raw := c.Query("page_size"); raw != "" {
		if size, err := parsePositiveInt(raw); err == nil {
			page.PageSize = size
		}
	}
	return page
}
