// Package gateway wraps the payment gateway's REST API. The gateway owns
// the money movement; this client only creates orders against it and
// verifies its callbacks.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/talentbill/talentbill/internal/config"
)

type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
}

func NewClient(cfg config.Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.Gateway.BaseURL), "/")
	return &Client{
		baseURL:   baseURL,
		keyID:     strings.TrimSpace(cfg.Gateway.KeyID),
		keySecret: strings.TrimSpace(cfg.Gateway.KeySecret),
		client:    &http.Client{Timeout: 12 * time.Second},
	}
}

// KeyID is the public key identifier clients need to open checkout.
func (c *Client) KeyID() string { return c.keyID }

type createOrderRequest struct {
	Amount   int64             `json:"amount"` // minor currency units
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order is the gateway's order object, trimmed to the fields this core
// consumes.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type gatewayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder registers a remote order for the given minor-unit amount and
// returns the gateway's order payload.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*Order, error) {
	if c.keyID == "" || c.keySecret == "" {
		return nil, errors.New("gateway_credentials_missing")
	}

	body, err := json.Marshal(createOrderRequest{
		Amount:   amount,
		Currency: strings.ToUpper(currency),
		Receipt:  receipt,
		Notes:    notes,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var gwErr gatewayError
		if err := json.NewDecoder(resp.Body).Decode(&gwErr); err != nil {
			return nil, errors.New("gateway_request_failed")
		}
		message := strings.TrimSpace(gwErr.Error.Description)
		if message == "" {
			message = "gateway_request_failed"
		}
		return nil, errors.New(message)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, err
	}
	if strings.TrimSpace(order.ID) == "" {
		return nil, errors.New("gateway_response_invalid")
	}
	return &order, nil
}
