package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/repository"
	apperrors "github.com/spec-kit/event-ticketing/pkg/util/errorutil"
)

// EventService coordinates catalog workflows.
type EventService struct {
	events   repository.EventRepository
	tickets  repository.TicketRepository
	feedback repository.FeedbackRepository
}

// EventDependencies bundles repositories for the catalog.
type EventDependencies struct {
	EventRepo    repository.EventRepository
	TicketRepo   repository.TicketRepository
	FeedbackRepo repository.FeedbackRepository
}

// NewEventService constructs the service.
func NewEventService(deps EventDependencies) *EventService {
	return &EventService{
		events:   deps.EventRepo,
		tickets:  deps.TicketRepo,
		feedback: deps.FeedbackRepo,
	}
}

// EventCreateInput describes event creation payload.
type EventCreateInput struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
	Category    domain.EventCategory
	Price       decimal.Decimal
}

// EventUpdateInput carries optional catalog mutations.
type EventUpdateInput struct {
	Title       *string
	Description *string
	Date        *time.Time
	Location    *string
	Category    *domain.EventCategory
	Price       *decimal.Decimal
}

// EventListInput describes listing parameters.
type EventListInput struct {
	SearchTerm *string
	Category   *domain.EventCategory
	Limit      int
	Offset     int
}

// EventDetail pairs an event with its organizer-only embeds. Tickets and
// Feedback are populated only for the owning organizer; everyone else
// gets empty slices, matching the feedback visibility policy.
type EventDetail struct {
	Event    domain.Event
	Tickets  []repository.OrganizerTicket
	Feedback []repository.EventFeedback
}

// Create registers a new event. The organizer is always the authenticated
// caller, never client input.
func (s *EventService) Create(ctx context.Context, organizer *domain.User, input EventCreateInput) (*domain.Event, error) {
	if organizer == nil || !organizer.IsOrganizer() {
		return nil, apperrors.NewForbidden("organizer role required")
	}

	fields := map[string]any{}
	if strings.TrimSpace(input.Title) == "" {
		fields["title"] = "title is required"
	}
	if input.Date.IsZero() {
		fields["date"] = "date is required"
	}
	if input.Price.IsNegative() {
		fields["price"] = "price must not be negative"
	}
	if input.Category == "" {
		input.Category = domain.EventCategoryOther
	}
	if !domain.ValidCategory(input.Category) {
		fields["category"] = "unknown category"
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError("event creation failed", fields)
	}

	event := &domain.Event{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Date:        input.Date,
		Location:    input.Location,
		Category:    input.Category,
		Price:       input.Price,
		OrganizerID: organizer.ID,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// List returns the catalog. Public callers and attendees see everything;
// an authenticated organizer sees only their own events.
func (s *EventService) List(ctx context.Context, caller *domain.User, input EventListInput) ([]domain.Event, error) {
	filter := repository.EventFilter{
		SearchTerm: input.SearchTerm,
		Category:   input.Category,
		Limit:      input.Limit,
		Offset:     input.Offset,
	}
	if caller.IsOrganizer() {
		filter.OrganizerID = &caller.ID
	}
	return s.events.ListWithFilter(ctx, filter)
}

// Get returns event detail. The tickets and feedback embeds are filled in
// only when the caller owns the event.
func (s *EventService) Get(ctx context.Context, caller *domain.User, id string) (*EventDetail, error) {
	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &EventDetail{Event: *event}
	if caller != nil && event.OwnedBy(caller.ID) {
		tickets, err := s.tickets.ListByOrganizer(ctx, caller.ID)
		if err != nil {
			return nil, err
		}
		for _, t := range tickets {
			if t.EventID == event.ID {
				detail.Tickets = append(detail.Tickets, t)
			}
		}
		feedback, err := s.feedback.ListByEvent(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		detail.Feedback = feedback
	}
	return detail, nil
}

// Update applies catalog changes after re-verifying ownership.
func (s *EventService) Update(ctx context.Context, caller *domain.User, id string, input EventUpdateInput) (*domain.Event, error) {
	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller == nil || !event.OwnedBy(caller.ID) {
		return nil, apperrors.NewForbidden("only the owning organizer may modify this event")
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, apperrors.NewValidationError("title must not be empty", nil)
		}
		event.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Date != nil {
		event.Date = *input.Date
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.Category != nil {
		if !domain.ValidCategory(*input.Category) {
			return nil, apperrors.NewValidationError("unknown category", nil)
		}
		event.Category = *input.Category
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, apperrors.NewValidationError("price must not be negative", nil)
		}
		event.Price = *input.Price
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes an event after re-verifying ownership. Tickets and
// feedback cascade away with it.
func (s *EventService) Delete(ctx context.Context, caller *domain.User, id string) error {
	event, err := s.getEvent(ctx, id)
	if err != nil {
		return err
	}
	if caller == nil || !event.OwnedBy(caller.ID) {
		return apperrors.NewForbidden("only the owning organizer may delete this event")
	}
	return s.events.Delete(ctx, id)
}

func (s *EventService) getEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": id})
		}
		return nil, err
	}
	return event, nil
}
