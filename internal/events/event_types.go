package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPaymentInitialized EventType = "payment_initialized"
	EventPaymentPaid        EventType = "payment_paid"
	EventPaymentFailed      EventType = "payment_failed"
	EventTicketIssued       EventType = "ticket_issued"
	EventFeedbackCreated    EventType = "feedback_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PaymentInitializedPayload payload.
type PaymentInitializedPayload struct {
	PaymentID string          `json:"payment_id"`
	EventID   string          `json:"event_id"`
	TxRef     string          `json:"tx_ref"`
	Amount    decimal.Decimal `json:"amount"`
}

// PaymentPaidPayload payload.
type PaymentPaidPayload struct {
	PaymentID string          `json:"payment_id"`
	EventID   string          `json:"event_id"`
	TxRef     string          `json:"tx_ref"`
	Amount    decimal.Decimal `json:"amount"`
}

// PaymentFailedPayload payload.
type PaymentFailedPayload struct {
	PaymentID string `json:"payment_id"`
	TxRef     string `json:"tx_ref"`
	Reason    string `json:"reason,omitempty"`
}

// TicketIssuedPayload payload.
type TicketIssuedPayload struct {
	TicketID  string  `json:"ticket_id"`
	EventID   string  `json:"event_id"`
	PaymentID *string `json:"payment_id,omitempty"`
}

// FeedbackCreatedPayload payload.
type FeedbackCreatedPayload struct {
	FeedbackID string `json:"feedback_id"`
	EventID    string `json:"event_id"`
	Rating     int    `json:"rating"`
}
