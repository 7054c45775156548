package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/talentbill/talentbill/internal/config"
)

func newTestClient(baseURL string) *Client {
	cfg := config.Config{}
	cfg.Gateway.BaseURL = baseURL
	cfg.Gateway.KeyID = "rzp_test_key"
	cfg.Gateway.KeySecret = "rzp_test_secret"
	return NewClient(cfg)
}

func TestCreateOrder_SendsMinorUnitsWithBasicAuth(t *testing.T) {
	var got createOrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "rzp_test_key", user)
		require.Equal(t, "rzp_test_secret", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(Order{
			ID:       "order_test123",
			Amount:   got.Amount,
			Currency: got.Currency,
			Receipt:  got.Receipt,
			Status:   "created",
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	order, err := client.CreateOrder(context.Background(), 249900, "inr", "plan_basic_1", map[string]string{"plan_code": "basic"})
	require.NoError(t, err)

	require.Equal(t, "order_test123", order.ID)
	require.Equal(t, int64(249900), got.Amount)
	require.Equal(t, "INR", got.Currency)
	require.Equal(t, "plan_basic_1", got.Receipt)
}

func TestCreateOrder_GatewayErrorSurfacesDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount exceeds maximum"}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.CreateOrder(context.Background(), 1, "INR", "r1", nil)
	require.EqualError(t, err, "amount exceeds maximum")
}

func TestCreateOrder_MissingCredentials(t *testing.T) {
	client := NewClient(config.Config{})
	_, err := client.CreateOrder(context.Background(), 100, "INR", "r1", nil)
	require.Error(t, err)
}

func TestCreateOrder_EmptyOrderIDRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"","status":"created"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.CreateOrder(context.Background(), 100, "INR", "r1", nil)
	require.Error(t, err)
}
