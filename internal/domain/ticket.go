package domain

import "time"

// Ticket grants one attendee admission to one event. PaymentID links the
// ticket to the payment that produced it when purchased through the
// gateway; the link is cleared (not the ticket) if the payment goes away.
type Ticket struct {
	ID           string
	EventID      string
	AttendeeID   string
	PaymentID    *string
	PurchaseDate time.Time
}
