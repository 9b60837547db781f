package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

// EventFeedback joins a feedback row with its author's username.
type EventFeedback struct {
	Feedback         domain.Feedback
	AttendeeUsername string
}

// FeedbackRepository encapsulates feedback persistence.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.Feedback) error
	ExistsForEventAndAttendee(ctx context.Context, eventID, attendeeID string) (bool, error)
	ListByEvent(ctx context.Context, eventID string) ([]EventFeedback, error)
}

type feedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository instantiates repository.
func NewFeedbackRepository(pool *pgxpool.Pool) FeedbackRepository {
	return &feedbackRepository{pool: pool}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	const query = `
        INSERT INTO feedback (event_id, attendee_id, comment, rating)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		feedback.EventID,
		feedback.AttendeeID,
		feedback.Comment,
		feedback.Rating,
	).Scan(&feedback.ID, &feedback.CreatedAt)
}

func (r *feedbackRepository) ExistsForEventAndAttendee(ctx context.Context, eventID, attendeeID string) (bool, error) {
	const query = `
        SELECT EXISTS (SELECT 1 FROM feedback WHERE event_id=$1 AND attendee_id=$2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, eventID, attendeeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *feedbackRepository) ListByEvent(ctx context.Context, eventID string) ([]EventFeedback, error) {
	const query = `
        SELECT f.id, f.event_id, f.attendee_id, f.comment, f.rating, f.created_at, u.username
        FROM feedback f
        JOIN users u ON u.id = f.attendee_id
        WHERE f.event_id=$1
        ORDER BY f.created_at DESC`
	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []EventFeedback
	for rows.Next() {
		var row EventFeedback
		if err := rows.Scan(
			&row.Feedback.ID,
			&row.Feedback.EventID,
			&row.Feedback.AttendeeID,
			&row.Feedback.Comment,
			&row.Feedback.Rating,
			&row.Feedback.CreatedAt,
			&row.AttendeeUsername,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
