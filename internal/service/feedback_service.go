package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/events"
	"github.com/spec-kit/event-ticketing/internal/repository"
	apperrors "github.com/spec-kit/event-ticketing/pkg/util/errorutil"
)

// FeedbackService coordinates the feedback ledger.
type FeedbackService struct {
	feedback   repository.FeedbackRepository
	eventsRepo repository.EventRepository
	dispatcher events.Dispatcher
}

// FeedbackDependencies bundles repositories for the ledger.
type FeedbackDependencies struct {
	FeedbackRepo repository.FeedbackRepository
	EventRepo    repository.EventRepository
	Dispatcher   events.Dispatcher
}

// NewFeedbackService constructs the service.
func NewFeedbackService(deps FeedbackDependencies) *FeedbackService {
	return &FeedbackService{
		feedback:   deps.FeedbackRepo,
		eventsRepo: deps.EventRepo,
		dispatcher: deps.Dispatcher,
	}
}

// FeedbackCreateInput describes a feedback submission. Rating defaults to
// 5 when unset; the range is not otherwise validated server-side.
type FeedbackCreateInput struct {
	Comment string
	Rating  int
}

// Create records one feedback row per (event, attendee).
func (s *FeedbackService) Create(ctx context.Context, attendee *domain.User, eventID string, input FeedbackCreateInput) (*domain.Feedback, error) {
	if attendee == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}

	if _, err := s.eventsRepo.GetByID(ctx, eventID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, err
	}

	exists, err := s.feedback.ExistsForEventAndAttendee(ctx, eventID, attendee.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflict("feedback already submitted for this event", map[string]any{"event_id": eventID})
	}

	rating := input.Rating
	if rating == 0 {
		rating = domain.DefaultFeedbackRating
	}

	feedback := &domain.Feedback{
		EventID:    eventID,
		AttendeeID: attendee.ID,
		Comment:    input.Comment,
		Rating:     rating,
	}
	if err := s.feedback.Create(ctx, feedback); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:    events.EventFeedbackCreated,
			ActorID: attendee.ID,
			Payload: events.FeedbackCreatedPayload{
				FeedbackID: feedback.ID,
				EventID:    feedback.EventID,
				Rating:     feedback.Rating,
			},
		})
	}
	return feedback, nil
}

// ListForEvent returns an event's feedback. Visibility is organizer-only
// and enforced here, the single entry point for feedback reads.
func (s *FeedbackService) ListForEvent(ctx context.Context, caller *domain.User, eventID string) ([]repository.EventFeedback, error) {
	event, err := s.eventsRepo.GetByID(ctx, eventID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, err
	}
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !event.OwnedBy(caller.ID) {
		return nil, apperrors.NewForbidden("only the event organizer may view feedback")
	}
	return s.feedback.ListByEvent(ctx, eventID)
}
