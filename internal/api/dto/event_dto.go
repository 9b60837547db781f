package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

// CreateEventRequest payload. The organizer is never read from here; it
// comes from the authenticated principal.
type CreateEventRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Location    string          `json:"location"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
}

// UpdateEventRequest payload.
type UpdateEventRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Date        *time.Time       `json:"date"`
	Location    *string          `json:"location"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
}

// EventResponse is the catalog representation.
type EventResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Location    string          `json:"location"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	OrganizerID string          `json:"organizer_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewEventResponse maps a domain event.
func NewEventResponse(event *domain.Event) EventResponse {
	return EventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Date:        event.Date,
		Location:    event.Location,
		Category:    string(event.Category),
		Price:       event.Price,
		OrganizerID: event.OrganizerID,
		CreatedAt:   event.CreatedAt,
	}
}

// EventDetailResponse adds the organizer-only embeds. They stay empty for
// everyone but the owning organizer.
type EventDetailResponse struct {
	EventResponse
	Tickets  []BasicTicketResponse `json:"tickets"`
	Feedback []FeedbackResponse    `json:"feedbacks"`
}
