package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus enumerates payment lifecycle states. A payment never
// reverts once paid.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment records one attempted purchase against the gateway. Amount is a
// denormalized copy of the event price at creation time and never changes,
// even if the event is later repriced. TxRef is the correlation token
// shared with the gateway.
type Payment struct {
	ID        string
	UserID    string
	EventID   string
	Amount    decimal.Decimal
	TxRef     string
	Status    PaymentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
