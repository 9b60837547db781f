package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/service"
)

// InitPaymentRequest starts a checkout for one event ticket.
type InitPaymentRequest struct {
	EventID string `json:"event_id"`
}

// InitPaymentResponse hands the hosted checkout URL to the client.
type InitPaymentResponse struct {
	PaymentURL string `json:"payment_url"`
	TxRef      string `json:"tx_ref"`
}

// CallbackRequest is the gateway webhook body.
type CallbackRequest struct {
	TxRef string `json:"tx_ref"`
}

// PaymentSummaryResponse reports a verified payment.
type PaymentSummaryResponse struct {
	Status  string          `json:"status"`
	Amount  decimal.Decimal `json:"amount"`
	Event   string          `json:"event"`
	User    string          `json:"user"`
	Tickets int             `json:"tickets"`
	TxRef   string          `json:"tx_ref"`
}

// NewPaymentSummaryResponse maps a verification result.
func NewPaymentSummaryResponse(result *service.VerificationResult) PaymentSummaryResponse {
	return PaymentSummaryResponse{
		Status:  string(result.Status),
		Amount:  result.Amount,
		Event:   result.EventTitle,
		User:    result.Username,
		Tickets: result.Tickets,
		TxRef:   result.TxRef,
	}
}

// PaymentResponse is one row of the caller's payment history.
type PaymentResponse struct {
	ID        string          `json:"id"`
	EventID   string          `json:"event_id"`
	Amount    decimal.Decimal `json:"amount"`
	TxRef     string          `json:"tx_ref"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewPaymentResponse maps a domain payment.
func NewPaymentResponse(payment *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        payment.ID,
		EventID:   payment.EventID,
		Amount:    payment.Amount,
		TxRef:     payment.TxRef,
		Status:    string(payment.Status),
		CreatedAt: payment.CreatedAt,
		UpdatedAt: payment.UpdatedAt,
	}
}
