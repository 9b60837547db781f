package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/events"
	"github.com/spec-kit/event-ticketing/internal/repository"
	apperrors "github.com/spec-kit/event-ticketing/pkg/util/errorutil"
)

// TicketService coordinates the ticket registry.
type TicketService struct {
	tickets    repository.TicketRepository
	eventsRepo repository.EventRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the registry.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	EventRepo  repository.EventRepository
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		eventsRepo: deps.EventRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create issues a ticket outside the payment flow (manual purchase). The
// duplicate pre-check mirrors the payment path; the unique index on
// (event_id, attendee_id) holds even if two writers race past it.
func (s *TicketService) Create(ctx context.Context, attendee *domain.User, eventID string) (*domain.Ticket, error) {
	if attendee == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}

	if _, err := s.eventsRepo.GetByID(ctx, eventID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, err
	}

	exists, err := s.tickets.ExistsForEventAndAttendee(ctx, eventID, attendee.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflict("ticket already held for this event", map[string]any{"event_id": eventID})
	}

	ticket := &domain.Ticket{
		EventID:    eventID,
		AttendeeID: attendee.ID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventTicketIssued,
		ActorID: attendee.ID,
		Payload: events.TicketIssuedPayload{
			TicketID: ticket.ID,
			EventID:  ticket.EventID,
		},
	})
	return ticket, nil
}

// ListForAttendee returns all tickets the user holds, events joined.
func (s *TicketService) ListForAttendee(ctx context.Context, attendee *domain.User) ([]repository.AttendeeTicket, error) {
	if attendee == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return s.tickets.ListByAttendee(ctx, attendee.ID)
}

// ListForOrganizer returns all tickets sold for the caller's events.
func (s *TicketService) ListForOrganizer(ctx context.Context, caller *domain.User) ([]repository.OrganizerTicket, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !caller.IsOrganizer() {
		return nil, apperrors.NewForbidden("organizer role required")
	}
	return s.tickets.ListByOrganizer(ctx, caller.ID)
}

// GetForHolder fetches a ticket and its event for the holding attendee,
// used by the printable-ticket endpoint.
func (s *TicketService) GetForHolder(ctx context.Context, caller *domain.User, ticketID string) (*domain.Ticket, *domain.Event, error) {
	if caller == nil {
		return nil, nil, apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, nil, err
	}
	if ticket.AttendeeID != caller.ID {
		return nil, nil, apperrors.NewForbidden("ticket belongs to another attendee")
	}
	event, err := s.eventsRepo.GetByID(ctx, ticket.EventID)
	if err != nil {
		return nil, nil, err
	}
	return ticket, event, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
