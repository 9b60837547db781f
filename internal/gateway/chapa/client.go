// Package chapa implements the HTTP client for the Chapa payment gateway.
// The gateway is the source of truth for payment success; callers never
// settle a payment without a confirming round-trip through this client.
package chapa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/event-ticketing/internal/config"
)

const statusSuccess = "success"

// GatewayError is a business-level rejection reported by the gateway, as
// opposed to a transport failure reaching it.
type GatewayError struct {
	Message string
}

func (e *GatewayError) Error() string {
	return e.Message
}

// Client calls the Chapa transaction API.
type Client struct {
	hc      *http.Client
	baseURL string
	secret  string
}

// NewClient builds a gateway client from configuration. The HTTP client
// carries the configured timeout so a hanging gateway cannot hang a
// request handler forever.
func NewClient(cfg config.ChapaConfig) *Client {
	return &Client{
		hc:      &http.Client{Timeout: cfg.Timeout()},
		baseURL: cfg.BaseURL,
		secret:  cfg.SecretKey,
	}
}

// InitializeRequest carries everything the gateway needs to open a
// checkout session.
type InitializeRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Email       string          `json:"email"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	TxRef       string          `json:"tx_ref"`
	CallbackURL string          `json:"callback_url"`
	ReturnURL   string          `json:"return_url"`
	Title       string          `json:"customization[title]"`
}

// InitializeResult is the usable part of a successful initialize response.
type InitializeResult struct {
	CheckoutURL string
}

type initializeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

type verifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status string `json:"status"`
	} `json:"data"`
}

// Initialize opens a transaction with the gateway and returns the hosted
// checkout URL. A *GatewayError means the gateway rejected the request;
// any other error means it could not be reached or answered garbage.
func (c *Client) Initialize(ctx context.Context, in InitializeRequest) (*InitializeResult, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("chapa initialize: marshal: %w", err)
	}

	url := c.baseURL + "/transaction/initialize"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("chapa initialize: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chapa initialize: %w", err)
	}
	defer resp.Body.Close()

	var reply initializeResponse
	if err := decodeBody(resp.Body, &reply); err != nil {
		return nil, fmt.Errorf("chapa initialize: decode: %w", err)
	}

	if reply.Status != statusSuccess {
		msg := reply.Message
		if msg == "" {
			msg = fmt.Sprintf("gateway rejected transaction (http %d)", resp.StatusCode)
		}
		return nil, &GatewayError{Message: msg}
	}
	return &InitializeResult{CheckoutURL: reply.Data.CheckoutURL}, nil
}

// Verify asks the gateway for the final state of a transaction. It returns
// true only when both the envelope and the transaction itself report
// success; false with a nil error means the gateway answered but the
// transaction did not succeed.
func (c *Client) Verify(ctx context.Context, txRef string) (bool, error) {
	url := c.baseURL + "/transaction/verify/" + txRef
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("chapa verify: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)

	resp, err := c.hc.Do(req)
	if err != nil {
		return false, fmt.Errorf("chapa verify: %w", err)
	}
	defer resp.Body.Close()

	var reply verifyResponse
	if err := decodeBody(resp.Body, &reply); err != nil {
		return false, fmt.Errorf("chapa verify: decode: %w", err)
	}

	return reply.Status == statusSuccess && reply.Data.Status == statusSuccess, nil
}

func decodeBody(body io.Reader, out any) error {
	dec := json.NewDecoder(body)
	return dec.Decode(out)
}
