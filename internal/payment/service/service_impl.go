package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"github.com/talentbill/talentbill/internal/clock"
	employerdomain "github.com/talentbill/talentbill/internal/employer/domain"
	"github.com/talentbill/talentbill/internal/employerctx"
	invoicedomain "github.com/talentbill/talentbill/internal/invoice/domain"
	paymentdomain "github.com/talentbill/talentbill/internal/payment/domain"
	"github.com/talentbill/talentbill/internal/payment/gateway"
	plandomain "github.com/talentbill/talentbill/internal/plan/domain"
	subscriptiondomain "github.com/talentbill/talentbill/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB               *gorm.DB
	Log              *zap.Logger
	GenID            *snowflake.Node
	Clock            clock.Clock
	Gateway          *gateway.Client
	Verifier         *gateway.Verifier
	Repo             paymentdomain.Repository
	SubscriptionRepo subscriptiondomain.Repository
	EmployerRepo     employerdomain.Repository
	PlanSvc          plandomain.Service
	InvoiceSvc       invoicedomain.Service
	Redis            *redis.Client `optional:"true"`
}

type Service struct {
	db               *gorm.DB
	log              *zap.Logger
	genID            *snowflake.Node
	clock            clock.Clock
	gateway          *gateway.Client
	verifier         *gateway.Verifier
	repo             paymentdomain.Repository
	subscriptionRepo subscriptiondomain.Repository
	employerRepo     employerdomain.Repository
	planSvc          plandomain.Service
	invoiceSvc       invoicedomain.Service
	redis            *redis.Client
}

func NewService(p Params) paymentdomain.Service {
	return &Service{
		db:               p.DB,
		log:              p.Log.Named("payment.service"),
		genID:            p.GenID,
		clock:            p.Clock,
		gateway:          p.Gateway,
		verifier:         p.Verifier,
		repo:             p.Repo,
		subscriptionRepo: p.SubscriptionRepo,
		employerRepo:     p.EmployerRepo,
		planSvc:          p.PlanSvc,
		invoiceSvc:       p.InvoiceSvc,
		redis:            p.Redis,
	}
}

func (s *Service) CreateOrder(ctx context.Context, req paymentdomain.CreateOrderRequest) (*paymentdomain.CreateOrderResponse, error) {
	employerID, ok := employerctx.EmployerIDFromContext(ctx)
	if !ok || employerID == 0 {
		return nil, paymentdomain.ErrInvalidEmployer
	}

	employer, err := s.employerRepo.FindByID(ctx, s.db, employerID)
	if err != nil {
		return nil, err
	}
	if employer == nil {
		return nil, employerdomain.ErrEmployerNotFound
	}

	plan, err := s.planSvc.Lookup(ctx, req.PlanCode)
	if err != nil {
		return nil, err
	}
	if employer.SubscriptionPlan == plan.Code {
		return nil, paymentdomain.ErrPlanUnchanged
	}

	amountMinor := plan.AmountMinorUnits()
	if amountMinor <= 0 {
		return nil, paymentdomain.ErrInvalidAmount
	}

	now := s.clock.Now(ctx)
	receipt := fmt.Sprintf("plan_%s_%d", plan.Code, now.UnixMilli())
	notes := map[string]string{
		"employer_id": employerID.String(),
		"plan_code":   plan.Code,
	}

	// Gateway first: if the remote order cannot be created, nothing is
	// persisted locally.
	order, err := s.gateway.CreateOrder(ctx, amountMinor, plan.Currency, receipt, notes)
	if err != nil {
		s.log.Error("gateway order creation failed",
			zap.String("plan_code", plan.Code),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", paymentdomain.ErrGatewayUnavailable, err)
	}

	notesJSON, err := json.Marshal(notes)
	if err != nil {
		return nil, err
	}

	payment := &paymentdomain.PaymentRecord{
		ID:             s.genID.Generate(),
		EmployerID:     employerID,
		PlanCode:       plan.Code,
		Amount:         plan.PriceAmount,
		Currency:       plan.Currency,
		GatewayOrderID: order.ID,
		GatewayReceipt: receipt,
		GatewayNotes:   datatypes.JSON(notesJSON),
		Status:         paymentdomain.PaymentStatusInitiated,
		InitiatedAt:    now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	subscription := &subscriptiondomain.SubscriptionRecord{
		ID:         s.genID.Generate(),
		EmployerID: employerID,
		PlanCode:   plan.Code,
		Period:     plan.Period,
		Amount:     plan.PriceAmount,
		Currency:   plan.Currency,
		OrderID:    order.ID,
		Receipt:    receipt,
		Status:     subscriptiondomain.SubscriptionStatusCreated,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, payment); err != nil {
			return err
		}
		return s.subscriptionRepo.Insert(ctx, tx, subscription)
	})
	if err != nil {
		return nil, err
	}

	ordersCreated.WithLabelValues(plan.Code).Inc()
	s.log.Info("order created",
		zap.String("gateway_order_id", order.ID),
		zap.String("employer_id", employerID.String()),
		zap.String("plan_code", plan.Code))

	return &paymentdomain.CreateOrderResponse{
		Order: paymentdomain.GatewayOrder{
			OrderID:  order.ID,
			Amount:   amountMinor,
			Currency: plan.Currency,
			Receipt:  receipt,
		},
		KeyID:         s.gateway.KeyID(),
		Plan:          plan.Entitlements(),
		PlanName:      plan.Name,
		PriceAmount:   plan.PriceAmount,
		PriceCurrency: plan.Currency,
	}, nil
}

func (s *Service) GetPayment(ctx context.Context, id snowflake.ID) (*paymentdomain.PaymentRecord, error) {
	employerID, ok := employerctx.EmployerIDFromContext(ctx)
	if !ok || employerID == 0 {
		return nil, paymentdomain.ErrInvalidEmployer
	}

	record, err := s.repo.FindByID(ctx, s.db, employerID, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, paymentdomain.ErrPaymentNotFound
	}
	return record, nil
}

func (s *Service) ListPayments(ctx context.Context, req paymentdomain.ListPaymentsRequest) (*paymentdomain.ListPaymentsResponse, error) {
	employerID, ok := employerctx.EmployerIDFromContext(ctx)
	if !ok || employerID == 0 {
		return nil, paymentdomain.ErrInvalidEmployer
	}

	items, err := s.repo.List(ctx, s.db, employerID, req.Page)
	if err != nil {
		return nil, err
	}

	items, pageInfo := pagetrim(items, req.Page.Limit())
	return &paymentdomain.ListPaymentsResponse{Payments: items, PageInfo: pageInfo}, nil
}

func (s *Service) Stats(ctx context.Context) (*paymentdomain.StatsResponse, error) {
	employerID, ok := employerctx.EmployerIDFromContext(ctx)
	if !ok || employerID == 0 {
		return nil, paymentdomain.ErrInvalidEmployer
	}

	rows, err := s.repo.CountByStatus(ctx, s.db, employerID)
	if err != nil {
		return nil, err
	}

	var totalSpent int64
	for _, row := range rows {
		if row.Status == paymentdomain.PaymentStatusSuccess {
			totalSpent += row.Amount
		}
	}
	return &paymentdomain.StatsResponse{ByStatus: rows, TotalSpent: totalSpent}, nil
}
