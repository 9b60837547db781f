package dto

import (
	"time"

	"github.com/spec-kit/event-ticketing/internal/repository"
)

// CreateTicketRequest payload for manual (non-gateway) ticket creation.
type CreateTicketRequest struct {
	EventID string `json:"event_id"`
}

// BasicTicketResponse is the minimal representation embedded in event
// detail reads.
type BasicTicketResponse struct {
	ID               string    `json:"id"`
	PurchaseDate     time.Time `json:"purchase_date"`
	AttendeeUsername string    `json:"attendee"`
}

// AttendeeTicketResponse pairs a ticket with its event for the holder.
type AttendeeTicketResponse struct {
	ID           string        `json:"id"`
	PurchaseDate time.Time     `json:"purchase_date"`
	PaymentID    *string       `json:"payment_id,omitempty"`
	Event        EventResponse `json:"event"`
}

// NewAttendeeTicketResponse maps a joined row.
func NewAttendeeTicketResponse(row repository.AttendeeTicket) AttendeeTicketResponse {
	return AttendeeTicketResponse{
		ID:           row.Ticket.ID,
		PurchaseDate: row.Ticket.PurchaseDate,
		PaymentID:    row.Ticket.PaymentID,
		Event:        NewEventResponse(&row.Event),
	}
}

// OrganizerTicketResponse joins ticket, event and attendee for the
// organizer's sales listing.
type OrganizerTicketResponse struct {
	ID               string    `json:"id"`
	PurchaseDate     time.Time `json:"purchase_date"`
	EventID          string    `json:"event_id"`
	EventTitle       string    `json:"event_title"`
	AttendeeID       string    `json:"attendee_id"`
	AttendeeUsername string    `json:"attendee_username"`
	AttendeeEmail    string    `json:"attendee_email"`
}

// NewOrganizerTicketResponse maps a joined row.
func NewOrganizerTicketResponse(row repository.OrganizerTicket) OrganizerTicketResponse {
	return OrganizerTicketResponse{
		ID:               row.Ticket.ID,
		PurchaseDate:     row.Ticket.PurchaseDate,
		EventID:          row.EventID,
		EventTitle:       row.EventTitle,
		AttendeeID:       row.AttendeeID,
		AttendeeUsername: row.AttendeeUsername,
		AttendeeEmail:    row.AttendeeEmail,
	}
}
