package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/talentbill/talentbill/internal/employerctx"
	paymentdomain "github.com/talentbill/talentbill/internal/payment/domain"
	plandomain "github.com/talentbill/talentbill/internal/plan/domain"
)

func newAuthEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/probe", EmployerAuth(), func(c *gin.Context) {
		id, ok := employerctx.EmployerIDFromContext(c.Request.Context())
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"employer_id": id.String()})
	})
	return engine
}

func TestEmployerAuth_ValidHeader(t *testing.T) {
	engine := newAuthEngine()

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-Employer-ID", "1408717471809998848")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "1408717471809998848")
}

func TestEmployerAuth_MissingHeader(t *testing.T) {
	engine := newAuthEngine()

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEmployerAuth_MalformedHeader(t *testing.T) {
	engine := newAuthEngine()

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-Employer-ID", "not-a-snowflake")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStatusFor_MapsDomainSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{paymentdomain.ErrInvalidRequest, http.StatusBadRequest},
		{paymentdomain.ErrSignatureMismatch, http.StatusBadRequest},
		{plandomain.ErrPlanNotFound, http.StatusNotFound},
		{paymentdomain.ErrOrderNotFound, http.StatusNotFound},
		{paymentdomain.ErrPlanUnchanged, http.StatusConflict},
		{paymentdomain.ErrAlreadyProcessed, http.StatusConflict},
		{paymentdomain.ErrVerificationInFlight, http.StatusConflict},
		{paymentdomain.ErrGatewayUnavailable, http.StatusBadGateway},
		{ErrUnauthorized, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		status, _ := statusFor(tc.err)
		require.Equal(t, tc.status, status, "error %v", tc.err)
	}

	status, code := statusFor(http.ErrServerClosed)
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "internal_error", code)
}
