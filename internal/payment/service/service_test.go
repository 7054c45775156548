package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/talentbill/talentbill/internal/clock"
	"github.com/talentbill/talentbill/internal/config"
	employerdomain "github.com/talentbill/talentbill/internal/employer/domain"
	employerrepo "github.com/talentbill/talentbill/internal/employer/repository"
	"github.com/talentbill/talentbill/internal/employerctx"
	invoicedomain "github.com/talentbill/talentbill/internal/invoice/domain"
	paymentdomain "github.com/talentbill/talentbill/internal/payment/domain"
	"github.com/talentbill/talentbill/internal/payment/gateway"
	paymentrepo "github.com/talentbill/talentbill/internal/payment/repository"
	plandomain "github.com/talentbill/talentbill/internal/plan/domain"
	planrepo "github.com/talentbill/talentbill/internal/plan/repository"
	planservice "github.com/talentbill/talentbill/internal/plan/service"
	subscriptiondomain "github.com/talentbill/talentbill/internal/subscription/domain"
	subscriptionrepo "github.com/talentbill/talentbill/internal/subscription/repository"
	"github.com/talentbill/talentbill/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "rzp_test_secret"

type stubInvoiceSvc struct {
	calls int
	err   error
}

func (s *stubInvoiceSvc) IssueForPayment(
	ctx context.Context,
	payment *paymentdomain.PaymentRecord,
	subscription *subscriptiondomain.SubscriptionRecord,
	plan *plandomain.PlanDefinition,
	employer *employerdomain.Employer,
) (*invoicedomain.Invoice, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &invoicedomain.Invoice{InvoiceNumber: "INV-2026-0001"}, nil
}

func (s *stubInvoiceSvc) List(ctx context.Context, employerID snowflake.ID, page pagination.Pagination) (*invoicedomain.ListInvoicesResponse, error) {
	return nil, nil
}

func (s *stubInvoiceSvc) GetByNumber(ctx context.Context, employerID snowflake.ID, number string) (*invoicedomain.Invoice, error) {
	return nil, invoicedomain.ErrInvoiceNotFound
}

func (s *stubInvoiceSvc) Void(ctx context.Context, employerID snowflake.ID, number string) (*invoicedomain.Invoice, error) {
	return nil, invoicedomain.ErrInvoiceNotFound
}

type fixture struct {
	t        *testing.T
	db       *gorm.DB
	svc      *Service
	verifier *gateway.Verifier
	invoices *stubInvoiceSvc
	employer *employerdomain.Employer
	ctx      context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&employerdomain.Employer{},
		&plandomain.PlanDefinition{},
		&paymentdomain.PaymentRecord{},
		&subscriptiondomain.SubscriptionRecord{},
	))

	gatewaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
			Receipt  string `json:"receipt"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(gateway.Order{
			ID:       "order_" + req.Receipt,
			Amount:   req.Amount,
			Currency: req.Currency,
			Receipt:  req.Receipt,
			Status:   "created",
		})
	}))
	t.Cleanup(gatewaySrv.Close)

	cfg := config.Config{}
	cfg.Gateway.BaseURL = gatewaySrv.URL
	cfg.Gateway.KeyID = "rzp_test_key"
	cfg.Gateway.KeySecret = testSecret

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	planSvc := planservice.NewService(planservice.Params{
		DB:   db,
		Log:  log,
		Repo: planrepo.Provide(db),
	})

	invoices := &stubInvoiceSvc{}
	svc := &Service{
		db:               db,
		log:              log,
		genID:            node,
		clock:            clock.SystemClock{},
		gateway:          gateway.NewClient(cfg),
		verifier:         gateway.NewVerifier(testSecret),
		repo:             paymentrepo.Provide(db),
		subscriptionRepo: subscriptionrepo.Provide(db),
		employerRepo:     employerrepo.Provide(db),
		planSvc:          planSvc,
		invoiceSvc:       invoices,
	}

	now := time.Now().UTC()
	limit := 10
	require.NoError(t, db.Create(&plandomain.PlanDefinition{
		Code:              "basic",
		Name:              "Basic",
		PriceAmount:       2499,
		Currency:          "INR",
		Period:            plandomain.PeriodMonthly,
		JobPostingLimit:   &limit,
		FeaturedJobsLimit: 2,
		IsActive:          true,
		IsAvailable:       true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}).Error)

	employer := &employerdomain.Employer{
		ID:               node.Generate(),
		CompanyName:      "Acme Hiring",
		Email:            "billing@acme.example",
		SubscriptionPlan: plandomain.PlanFree,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	require.NoError(t, db.Create(employer).Error)

	return &fixture{
		t:        t,
		db:       db,
		svc:      svc,
		verifier: svc.verifier,
		invoices: invoices,
		employer: employer,
		ctx:      employerctx.WithEmployerID(context.Background(), employer.ID),
	}
}

func (f *fixture) createOrder() *paymentdomain.CreateOrderResponse {
	f.t.Helper()
	resp, err := f.svc.CreateOrder(f.ctx, paymentdomain.CreateOrderRequest{PlanCode: "basic"})
	require.NoError(f.t, err)
	return resp
}

func TestCreateOrder_PersistsPaymentAndSubscription(t *testing.T) {
	f := newFixture(t)

	resp := f.createOrder()
	require.Equal(t, int64(249900), resp.Order.Amount)
	require.Equal(t, "INR", resp.Order.Currency)
	require.Equal(t, "rzp_test_key", resp.KeyID)
	require.Equal(t, int64(2499), resp.PriceAmount)

	var payment paymentdomain.PaymentRecord
	require.NoError(t, f.db.Where("gateway_order_id = ?", resp.Order.OrderID).First(&payment).Error)
	require.Equal(t, paymentdomain.PaymentStatusInitiated, payment.Status)
	require.Equal(t, int64(2499), payment.Amount)
	require.Equal(t, f.employer.ID, payment.EmployerID)

	var sub subscriptiondomain.SubscriptionRecord
	require.NoError(t, f.db.Where("order_id = ?", resp.Order.OrderID).First(&sub).Error)
	require.Equal(t, subscriptiondomain.SubscriptionStatusCreated, sub.Status)
	require.Equal(t, "basic", sub.PlanCode)
}

func TestCreateOrder_SamePlanRejected(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.db.Model(f.employer).Update("subscription_plan", "basic").Error)

	_, err := f.svc.CreateOrder(f.ctx, paymentdomain.CreateOrderRequest{PlanCode: "basic"})
	require.ErrorIs(t, err, paymentdomain.ErrPlanUnchanged)
}

func TestCreateOrder_UnknownPlan(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateOrder(f.ctx, paymentdomain.CreateOrderRequest{PlanCode: "platinum"})
	require.ErrorIs(t, err, plandomain.ErrPlanNotFound)
}

func TestCreateOrder_GatewayFailureLeavesNothingPersisted(t *testing.T) {
	f := newFixture(t)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"description":"gateway down"}}`))
	}))
	defer failing.Close()

	cfg := config.Config{}
	cfg.Gateway.BaseURL = failing.URL
	cfg.Gateway.KeyID = "rzp_test_key"
	cfg.Gateway.KeySecret = testSecret
	f.svc.gateway = gateway.NewClient(cfg)

	_, err := f.svc.CreateOrder(f.ctx, paymentdomain.CreateOrderRequest{PlanCode: "basic"})
	require.ErrorIs(t, err, paymentdomain.ErrGatewayUnavailable)

	var count int64
	require.NoError(t, f.db.Model(&paymentdomain.PaymentRecord{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestVerifyPayment_GrantsEntitlement(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder()

	sig := f.verifier.Sign(order.Order.OrderID, "pay_001")
	resp, err := f.svc.VerifyPayment(f.ctx, paymentdomain.VerifyPaymentRequest{
		GatewayOrderID:   order.Order.OrderID,
		GatewayPaymentID: "pay_001",
		GatewaySignature: sig,
		PlanCode:         "basic",
	})
	require.NoError(t, err)
	require.Equal(t, "basic", resp.Employer.SubscriptionPlan)
	require.NotNil(t, resp.Employer.SubscriptionStartDate)
	require.NotNil(t, resp.Employer.SubscriptionEndDate)
	require.NotNil(t, resp.Employer.JobPostingLimit)
	require.Equal(t, 10, *resp.Employer.JobPostingLimit)
	require.Equal(t, 2, resp.Employer.FeaturedJobsLimit)

	// Monthly plan: entitlement window spans one calendar month.
	window := resp.Employer.SubscriptionEndDate.Sub(*resp.Employer.SubscriptionStartDate)
	require.InDelta(t, 30*24*time.Hour, window, float64(2*24*time.Hour))

	var payment paymentdomain.PaymentRecord
	require.NoError(t, f.db.Where("gateway_order_id = ?", order.Order.OrderID).First(&payment).Error)
	require.Equal(t, paymentdomain.PaymentStatusSuccess, payment.Status)
	require.Equal(t, "pay_001", payment.GatewayPaymentID)
	require.NotNil(t, payment.CompletedAt)

	var sub subscriptiondomain.SubscriptionRecord
	require.NoError(t, f.db.Where("order_id = ?", order.Order.OrderID).First(&sub).Error)
	require.Equal(t, subscriptiondomain.SubscriptionStatusActive, sub.Status)

	require.Equal(t, 1, f.invoices.calls)
}

func TestVerifyPayment_SignatureMismatch(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder()

	_, err := f.svc.VerifyPayment(f.ctx, paymentdomain.VerifyPaymentRequest{
		GatewayOrderID:   order.Order.OrderID,
		GatewayPaymentID: "pay_001",
		GatewaySignature: "deadbeef",
		PlanCode:         "basic",
	})
	require.ErrorIs(t, err, paymentdomain.ErrSignatureMismatch)

	// Employer entitlement must be untouched.
	var employer employerdomain.Employer
	require.NoError(t, f.db.First(&employer, "id = ?", f.employer.ID).Error)
	require.Equal(t, plandomain.PlanFree, employer.SubscriptionPlan)
	require.Nil(t, employer.SubscriptionStartDate)

	var payment paymentdomain.PaymentRecord
	require.NoError(t, f.db.Where("gateway_order_id = ?", order.Order.OrderID).First(&payment).Error)
	require.Equal(t, paymentdomain.PaymentStatusFailed, payment.Status)
	require.Equal(t, "Signature verification failed", payment.FailureReason)
	require.NotNil(t, payment.FailedAt)

	var sub subscriptiondomain.SubscriptionRecord
	require.NoError(t, f.db.Where("order_id = ?", order.Order.OrderID).First(&sub).Error)
	require.Equal(t, subscriptiondomain.SubscriptionStatusFailed, sub.Status)

	require.Zero(t, f.invoices.calls)
}

func TestVerifyPayment_ReplayRejected(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder()

	req := paymentdomain.VerifyPaymentRequest{
		GatewayOrderID:   order.Order.OrderID,
		GatewayPaymentID: "pay_001",
		GatewaySignature: f.verifier.Sign(order.Order.OrderID, "pay_001"),
		PlanCode:         "basic",
	}

	_, err := f.svc.VerifyPayment(f.ctx, req)
	require.NoError(t, err)

	_, err = f.svc.VerifyPayment(f.ctx, req)
	require.ErrorIs(t, err, paymentdomain.ErrAlreadyProcessed)
	require.Equal(t, 1, f.invoices.calls)
}

func TestVerifyPayment_FailedOrderCannotBeRetried(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder()

	_, err := f.svc.VerifyPayment(f.ctx, paymentdomain.VerifyPaymentRequest{
		GatewayOrderID:   order.Order.OrderID,
		GatewayPaymentID: "pay_001",
		GatewaySignature: "deadbeef",
		PlanCode:         "basic",
	})
	require.ErrorIs(t, err, paymentdomain.ErrSignatureMismatch)

	// Even a now-valid signature cannot resurrect a failed record.
	_, err = f.svc.VerifyPayment(f.ctx, paymentdomain.VerifyPaymentRequest{
		GatewayOrderID:   order.Order.OrderID,
		GatewayPaymentID: "pay_001",
		GatewaySignature: f.verifier.Sign(order.Order.OrderID, "pay_001"),
		PlanCode:         "basic",
	})
	require.ErrorIs(t, err, paymentdomain.ErrAlreadyProcessed)
}

func TestVerifyPayment_InvoiceFailureDoesNotAffectOutcome(t *testing.T) {
	f := newFixture(t)
	f.invoices.err = errors.New("pdf renderer exploded")
	order := f.createOrder()

	resp, err := f.svc.VerifyPayment(f.ctx, paymentdomain.VerifyPaymentRequest{
		GatewayOrderID:   order.Order.OrderID,
		GatewayPaymentID: "pay_001",
		GatewaySignature: f.verifier.Sign(order.Order.OrderID, "pay_001"),
		PlanCode:         "basic",
	})
	require.NoError(t, err)
	require.Equal(t, "basic", resp.Employer.SubscriptionPlan)
	require.Equal(t, 1, f.invoices.calls)

	var payment paymentdomain.PaymentRecord
	require.NoError(t, f.db.Where("gateway_order_id = ?", order.Order.OrderID).First(&payment).Error)
	require.Equal(t, paymentdomain.PaymentStatusSuccess, payment.Status)
}

func TestVerifyPayment_PlanMismatchRejected(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder()

	now := time.Now().UTC()
	limit := 50
	require.NoError(t, f.db.Create(&plandomain.PlanDefinition{
		Code:              "premium",
		Name:              "Premium",
		PriceAmount:       7999,
		Currency:          "INR",
		Period:            plandomain.PeriodMonthly,
		JobPostingLimit:   &limit,
		FeaturedJobsLimit: 10,
		IsActive:          true,
		IsAvailable:       true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}).Error)

	// A valid signature for the basic order must not buy premium.
	_, err := f.svc.VerifyPayment(f.ctx, paymentdomain.VerifyPaymentRequest{
		GatewayOrderID:   order.Order.OrderID,
		GatewayPaymentID: "pay_001",
		GatewaySignature: f.verifier.Sign(order.Order.OrderID, "pay_001"),
		PlanCode:         "premium",
	})
	require.ErrorIs(t, err, paymentdomain.ErrInvalidRequest)

	var payment paymentdomain.PaymentRecord
	require.NoError(t, f.db.Where("gateway_order_id = ?", order.Order.OrderID).First(&payment).Error)
	require.Equal(t, paymentdomain.PaymentStatusInitiated, payment.Status)
}

func TestVerifyPayment_InFlightLockRejectsSecondCaller(t *testing.T) {
	f := newFixture(t)
	mini := miniredis.RunT(t)
	f.svc.redis = goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	order := f.createOrder()

	req := paymentdomain.VerifyPaymentRequest{
		GatewayOrderID:   order.Order.OrderID,
		GatewayPaymentID: "pay_001",
		GatewaySignature: f.verifier.Sign(order.Order.OrderID, "pay_001"),
		PlanCode:         "basic",
	}

	// Another worker holds the per-order lock.
	lockKey := "verify:" + order.Order.OrderID
	require.NoError(t, mini.Set(lockKey, "other-worker"))

	_, err := f.svc.VerifyPayment(f.ctx, req)
	require.ErrorIs(t, err, paymentdomain.ErrVerificationInFlight)
	require.Zero(t, f.invoices.calls)

	// Holder finishes without completing; the retry goes through and
	// releases its own lock afterwards.
	mini.Del(lockKey)
	_, err = f.svc.VerifyPayment(f.ctx, req)
	require.NoError(t, err)
	require.False(t, mini.Exists(lockKey))
}

func TestVerifyPayment_RedisDownDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	f.svc.redis = goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})
	order := f.createOrder()

	resp, err := f.svc.VerifyPayment(f.ctx, paymentdomain.VerifyPaymentRequest{
		GatewayOrderID:   order.Order.OrderID,
		GatewayPaymentID: "pay_001",
		GatewaySignature: f.verifier.Sign(order.Order.OrderID, "pay_001"),
		PlanCode:         "basic",
	})
	require.NoError(t, err)
	require.Equal(t, "basic", resp.Employer.SubscriptionPlan)
}

func TestVerifyPayment_UnknownOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.VerifyPayment(f.ctx, paymentdomain.VerifyPaymentRequest{
		GatewayOrderID:   "order_missing",
		GatewayPaymentID: "pay_001",
		GatewaySignature: "sig",
		PlanCode:         "basic",
	})
	require.ErrorIs(t, err, paymentdomain.ErrOrderNotFound)
}

func TestVerifyPayment_MissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.VerifyPayment(f.ctx, paymentdomain.VerifyPaymentRequest{
		GatewayOrderID: "order_1",
		PlanCode:       "basic",
	})
	require.ErrorIs(t, err, paymentdomain.ErrInvalidRequest)
}

func TestStats_SumsSuccessfulPayments(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder()

	_, err := f.svc.VerifyPayment(f.ctx, paymentdomain.VerifyPaymentRequest{
		GatewayOrderID:   order.Order.OrderID,
		GatewayPaymentID: "pay_001",
		GatewaySignature: f.verifier.Sign(order.Order.OrderID, "pay_001"),
		PlanCode:         "basic",
	})
	require.NoError(t, err)

	stats, err := f.svc.Stats(f.ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2499), stats.TotalSpent)
}
