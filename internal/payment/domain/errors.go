package domain

import "errors"

var (
	ErrInvalidEmployer      = errors.New("invalid_employer")
	ErrInvalidRequest       = errors.New("invalid_request")
	ErrPlanUnchanged        = errors.New("plan_unchanged")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrOrderNotFound        = errors.New("order_not_found")
	ErrPaymentNotFound      = errors.New("payment_not_found")
	ErrSignatureMismatch    = errors.New("signature_verification_failed")
	ErrAlreadyProcessed     = errors.New("payment_already_processed")
	ErrVerificationInFlight = errors.New("verification_in_flight")
	ErrGatewayUnavailable   = errors.New("gateway_unavailable")
)

// FailureReasonSignature is recorded on the payment record when a callback
// fails HMAC verification. The exact wording is externally visible.
const FailureReasonSignature = "Signature verification failed"
