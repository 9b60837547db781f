package domain

import "time"

// DefaultFeedbackRating is applied when a submission omits the rating.
const DefaultFeedbackRating = 5

// Feedback is one attendee's rating and comment for one event. At most
// one row may exist per (event, attendee) pair.
type Feedback struct {
	ID         string
	EventID    string
	AttendeeID string
	Comment    string
	Rating     int
	CreatedAt  time.Time
}
