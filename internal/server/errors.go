package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	employerdomain "github.com/talentbill/talentbill/internal/employer/domain"
	invoicedomain "github.com/talentbill/talentbill/internal/invoice/domain"
	paymentdomain "github.com/talentbill/talentbill/internal/payment/domain"
	plandomain "github.com/talentbill/talentbill/internal/plan/domain"
)

var ErrUnauthorized = errors.New("unauthorized")

// statusFor maps domain sentinels onto HTTP statuses. Anything unmapped is
// an internal error; the raw message is not leaked to clients.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, paymentdomain.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, paymentdomain.ErrInvalidEmployer):
		return http.StatusUnauthorized, "invalid_employer"
	case errors.Is(err, plandomain.ErrPlanNotFound):
		return http.StatusNotFound, "plan_not_found"
	case errors.Is(err, paymentdomain.ErrPlanUnchanged):
		return http.StatusConflict, "plan_unchanged"
	case errors.Is(err, paymentdomain.ErrInvalidAmount):
		return http.StatusUnprocessableEntity, "invalid_amount"
	case errors.Is(err, paymentdomain.ErrOrderNotFound):
		return http.StatusNotFound, "order_not_found"
	case errors.Is(err, paymentdomain.ErrPaymentNotFound):
		return http.StatusNotFound, "payment_not_found"
	case errors.Is(err, paymentdomain.ErrSignatureMismatch):
		return http.StatusBadRequest, "signature_verification_failed"
	case errors.Is(err, paymentdomain.ErrAlreadyProcessed):
		return http.StatusConflict, "payment_already_processed"
	case errors.Is(err, paymentdomain.ErrVerificationInFlight):
		return http.StatusConflict, "verification_in_flight"
	case errors.Is(err, paymentdomain.ErrGatewayUnavailable):
		return http.StatusBadGateway, "gateway_unavailable"
	case errors.Is(err, employerdomain.ErrEmployerNotFound):
		return http.StatusNotFound, "employer_not_found"
	case errors.Is(err, invoicedomain.ErrInvoiceNotFound):
		return http.StatusNotFound, "invoice_not_found"
	case errors.Is(err, invoicedomain.ErrInvoiceVoided):
		return http.StatusConflict, "invoice_already_void"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func AbortWithError(c *gin.Context, err error) {
	status, code := statusFor(err)
	c.AbortWithStatusJSON(status, gin.H{"error": code})
}

func invalidRequestError() error {
	return paymentdomain.ErrInvalidRequest
}
