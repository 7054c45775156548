package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	employerdomain "github.com/talentbill/talentbill/internal/employer/domain"
	"github.com/talentbill/talentbill/internal/employerctx"
	paymentdomain "github.com/talentbill/talentbill/internal/payment/domain"
	subscriptiondomain "github.com/talentbill/talentbill/internal/subscription/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const verifyLockTTL = 30 * time.Second

// VerifyPayment is the trust boundary of the engine. The callback params
// are untrusted until the HMAC check passes; on a match the entitlement,
// payment and subscription writes are issued in that fixed order so a crash
// mid-sequence can never leave a successful payment without its entitlement.
func (s *Service) VerifyPayment(ctx context.Context, req paymentdomain.VerifyPaymentRequest) (*paymentdomain.VerifyPaymentResponse, error) {
	employerID, ok := employerctx.EmployerIDFromContext(ctx)
	if !ok || employerID == 0 {
		return nil, paymentdomain.ErrInvalidEmployer
	}

	orderID := strings.TrimSpace(req.GatewayOrderID)
	paymentID := strings.TrimSpace(req.GatewayPaymentID)
	signature := strings.TrimSpace(req.GatewaySignature)
	planCode := strings.TrimSpace(req.PlanCode)
	if orderID == "" || paymentID == "" || signature == "" || planCode == "" {
		return nil, paymentdomain.ErrInvalidRequest
	}

	plan, err := s.planSvc.Lookup(ctx, planCode)
	if err != nil {
		return nil, err
	}

	release, err := s.acquireVerifyLock(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	payment, err := s.repo.FindByOrderID(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	if payment == nil || payment.EmployerID != employerID {
		return nil, paymentdomain.ErrOrderNotFound
	}
	// The callback must name the plan the order was created for; a valid
	// signature for a cheap order must not grant a pricier plan.
	if payment.PlanCode != plan.Code {
		return nil, paymentdomain.ErrInvalidRequest
	}
	if payment.Status.Terminal() {
		return nil, paymentdomain.ErrAlreadyProcessed
	}

	subscription, err := s.subscriptionRepo.FindByOrderID(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now(ctx)

	if !s.verifier.Verify(orderID, paymentID, signature) {
		if err := s.recordSignatureFailure(ctx, payment, subscription, paymentID, signature, now); err != nil {
			return nil, err
		}
		verifications.WithLabelValues("signature_mismatch").Inc()
		s.log.Warn("payment signature verification failed",
			zap.String("gateway_order_id", orderID),
			zap.String("employer_id", employerID.String()))
		return nil, paymentdomain.ErrSignatureMismatch
	}

	start, end := subscriptiondomain.Window(plan.Period, now)
	entitlement := employerdomain.Entitlement{
		Plan:              plan.Code,
		StartDate:         &start,
		EndDate:           end,
		JobPostingLimit:   plan.JobPostingLimit,
		FeaturedJobsLimit: plan.FeaturedJobsLimit,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Fixed order: entitlement, then payment, then subscription.
		if err := s.employerRepo.ApplyEntitlement(ctx, tx, employerID, entitlement); err != nil {
			return err
		}

		if !paymentdomain.TransitionAllowed(payment.Status, paymentdomain.PaymentStatusSuccess) {
			return paymentdomain.ErrAlreadyProcessed
		}
		payment.Status = paymentdomain.PaymentStatusSuccess
		payment.GatewayPaymentID = paymentID
		payment.GatewaySignature = signature
		payment.CompletedAt = &now
		payment.UpdatedAt = now
		if err := s.repo.Update(ctx, tx, payment); err != nil {
			return err
		}

		if subscription != nil {
			subscription.Status = subscriptiondomain.SubscriptionStatusActive
			subscription.PaymentID = paymentID
			subscription.Signature = signature
			subscription.StartDate = &start
			subscription.EndDate = end
			subscription.UpdatedAt = now
			return s.subscriptionRepo.Update(ctx, tx, subscription)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	verifications.WithLabelValues("success").Inc()
	s.log.Info("payment verified",
		zap.String("gateway_order_id", orderID),
		zap.String("gateway_payment_id", paymentID),
		zap.String("plan_code", plan.Code))

	employer, err := s.employerRepo.FindByID(ctx, s.db, employerID)
	if err != nil {
		return nil, err
	}

	// Invoice issuance rides on the already-durable success; it must not
	// alter the verification outcome.
	runNonCritical(s.log, "invoice_issuance", func() error {
		_, err := s.invoiceSvc.IssueForPayment(ctx, payment, subscription, plan, employer)
		return err
	})

	return &paymentdomain.VerifyPaymentResponse{
		Employer: employer,
		Plan:     plan.Entitlements(),
	}, nil
}

func (s *Service) recordSignatureFailure(
	ctx context.Context,
	payment *paymentdomain.PaymentRecord,
	subscription *subscriptiondomain.SubscriptionRecord,
	paymentID, signature string,
	now time.Time,
) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !paymentdomain.TransitionAllowed(payment.Status, paymentdomain.PaymentStatusFailed) {
			return paymentdomain.ErrAlreadyProcessed
		}
		payment.Status = paymentdomain.PaymentStatusFailed
		payment.GatewayPaymentID = paymentID
		payment.GatewaySignature = signature
		payment.FailedAt = &now
		payment.FailureReason = paymentdomain.FailureReasonSignature
		payment.UpdatedAt = now
		if err := s.repo.Update(ctx, tx, payment); err != nil {
			return err
		}

		if subscription != nil {
			subscription.Status = subscriptiondomain.SubscriptionStatusFailed
			subscription.PaymentID = paymentID
			subscription.Signature = signature
			subscription.UpdatedAt = now
			return s.subscriptionRepo.Update(ctx, tx, subscription)
		}
		return nil
	})
}

// acquireVerifyLock takes a short redis lock per order id so concurrent
// retries of the same callback serialize. Without redis the terminal-status
// check is the only replay guard.
func (s *Service) acquireVerifyLock(ctx context.Context, orderID string) (func(), error) {
	if s.redis == nil {
		return func() {}, nil
	}

	key := "verify:" + orderID
	token := uuid.NewString()
	ok, err := s.redis.SetNX(ctx, key, token, verifyLockTTL).Result()
	if err != nil {
		// Redis being down must not block payment verification.
		s.log.Warn("verify lock unavailable", zap.Error(err))
		return func() {}, nil
	}
	if !ok {
		return nil, paymentdomain.ErrVerificationInFlight
	}

	return func() {
		if current, err := s.redis.Get(context.Background(), key).Result(); err == nil && current == token {
			_ = s.redis.Del(context.Background(), key).Err()
		}
	}, nil
}
