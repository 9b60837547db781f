package dto

import (
	"time"

	"github.com/spec-kit/event-ticketing/internal/repository"
)

// CreateFeedbackRequest payload.
type CreateFeedbackRequest struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

// FeedbackResponse representation.
type FeedbackResponse struct {
	ID               string    `json:"id"`
	EventID          string    `json:"event_id"`
	AttendeeID       string    `json:"attendee_id"`
	AttendeeUsername string    `json:"attendee_username"`
	Comment          string    `json:"comment"`
	Rating           int       `json:"rating"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewFeedbackResponse maps a joined row.
func NewFeedbackResponse(row repository.EventFeedback) FeedbackResponse {
	return FeedbackResponse{
		ID:               row.Feedback.ID,
		EventID:          row.Feedback.EventID,
		AttendeeID:       row.Feedback.AttendeeID,
		AttendeeUsername: row.AttendeeUsername,
		Comment:          row.Feedback.Comment,
		Rating:           row.Feedback.Rating,
		CreatedAt:        row.Feedback.CreatedAt,
	}
}
