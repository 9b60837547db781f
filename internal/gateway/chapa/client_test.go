package chapa

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-ticketing/internal/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.ChapaConfig{
		SecretKey:      "test-secret-key",
		BaseURL:        baseURL,
		TimeoutSeconds: 5,
	})
}

func TestInitializeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer test-secret-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "tx-123", body["tx_ref"])
		assert.Equal(t, "ETB", body["currency"])
		assert.Contains(t, body, "customization[title]")

		json.NewEncoder(w).Encode(map[string]any{
			"status":  "success",
			"message": "Hosted Link",
			"data":    map[string]any{"checkout_url": "https://checkout.chapa.co/pay/abc"},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	result, err := client.Initialize(context.Background(), InitializeRequest{
		Amount:   decimal.RequireFromString("250.00"),
		Currency: "ETB",
		Email:    "alice@example.com",
		TxRef:    "tx-123",
		Title:    "1 ticket for Jazz Night",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.chapa.co/pay/abc", result.CheckoutURL)
}

func TestInitializeGatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "failed",
			"message": "Invalid currency",
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Initialize(context.Background(), InitializeRequest{TxRef: "tx-456"})

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "Invalid currency", gwErr.Message)
}

func TestInitializeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Initialize(context.Background(), InitializeRequest{TxRef: "tx-789"})
	require.Error(t, err)

	var gwErr *GatewayError
	assert.False(t, errors.As(err, &gwErr))
}

func TestVerifyRequiresBothStatuses(t *testing.T) {
	cases := []struct {
		name     string
		envelope string
		tx       string
		want     bool
	}{
		{"both success", "success", "success", true},
		{"transaction failed", "success", "failed", false},
		{"envelope failed", "failed", "success", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/transaction/verify/tx-123", r.URL.Path)
				assert.Equal(t, "Bearer test-secret-key", r.Header.Get("Authorization"))
				json.NewEncoder(w).Encode(map[string]any{
					"status": tc.envelope,
					"data":   map[string]any{"status": tc.tx},
				})
			}))
			defer srv.Close()

			client := newTestClient(srv.URL)
			ok, err := client.Verify(context.Background(), "tx-123")
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestVerifyGarbageResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway exploded</html>"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Verify(context.Background(), "tx-123")
	require.Error(t, err)
}
