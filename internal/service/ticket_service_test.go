package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

type ticketFixture struct {
	svc     *TicketService
	tickets *fakeTicketRepo

	organizer *domain.User
	attendee  *domain.User
	other     *domain.User
	event     *domain.Event
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	ctx := context.Background()

	users := newFakeUserRepo()
	eventsRepo := newFakeEventRepo()
	tickets := newFakeTicketRepo(users, eventsRepo)

	organizer := &domain.User{Username: "org", Email: "org@example.com", Role: domain.UserRoleOrganizer}
	require.NoError(t, users.Create(ctx, organizer))
	attendee := &domain.User{Username: "alice", Email: "alice@example.com", Role: domain.UserRoleAttendee}
	require.NoError(t, users.Create(ctx, attendee))
	other := &domain.User{Username: "bob", Email: "bob@example.com", Role: domain.UserRoleAttendee}
	require.NoError(t, users.Create(ctx, other))

	event := &domain.Event{
		Title:       "Theater Night",
		Category:    domain.EventCategoryTheater,
		Price:       decimal.RequireFromString("80"),
		OrganizerID: organizer.ID,
	}
	require.NoError(t, eventsRepo.Create(ctx, event))

	svc := NewTicketService(TicketDependencies{TicketRepo: tickets, EventRepo: eventsRepo})

	return &ticketFixture{
		svc:       svc,
		tickets:   tickets,
		organizer: organizer,
		attendee:  attendee,
		other:     other,
		event:     event,
	}
}

func TestTicketCreateOncePerEvent(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket, err := f.svc.Create(ctx, f.attendee, f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, f.attendee.ID, ticket.AttendeeID)
	assert.Nil(t, ticket.PaymentID)

	_, err = f.svc.Create(ctx, f.attendee, f.event.ID)
	requireDomainCode(t, err, "CONFLICT")

	// A different attendee is unaffected.
	_, err = f.svc.Create(ctx, f.other, f.event.ID)
	require.NoError(t, err)
}

func TestTicketCreateUnknownEvent(t *testing.T) {
	f := newTicketFixture(t)

	_, err := f.svc.Create(context.Background(), f.attendee, "missing")
	requireDomainCode(t, err, "NOT_FOUND")
}

func TestTicketListForAttendee(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.attendee, f.event.ID)
	require.NoError(t, err)

	held, err := f.svc.ListForAttendee(ctx, f.attendee)
	require.NoError(t, err)
	require.Len(t, held, 1)
	assert.Equal(t, "Theater Night", held[0].Event.Title)

	empty, err := f.svc.ListForAttendee(ctx, f.other)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTicketListForOrganizerRequiresRole(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.attendee, f.event.ID)
	require.NoError(t, err)

	_, err = f.svc.ListForOrganizer(ctx, f.attendee)
	requireDomainCode(t, err, "FORBIDDEN")

	sold, err := f.svc.ListForOrganizer(ctx, f.organizer)
	require.NoError(t, err)
	require.Len(t, sold, 1)
	assert.Equal(t, "alice", sold[0].AttendeeUsername)
}

func TestTicketGetForHolderOwnership(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	ticket, err := f.svc.Create(ctx, f.attendee, f.event.ID)
	require.NoError(t, err)

	_, _, err = f.svc.GetForHolder(ctx, f.other, ticket.ID)
	requireDomainCode(t, err, "FORBIDDEN")

	got, event, err := f.svc.GetForHolder(ctx, f.attendee, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)
	assert.Equal(t, f.event.ID, event.ID)

	_, _, err = f.svc.GetForHolder(ctx, f.attendee, "missing")
	requireDomainCode(t, err, "NOT_FOUND")
}
