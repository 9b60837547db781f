package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

type eventFixture struct {
	svc      *EventService
	users    *fakeUserRepo
	events   *fakeEventRepo
	tickets  *fakeTicketRepo
	feedback *fakeFeedbackRepo

	organizer *domain.User
	rival     *domain.User
	attendee  *domain.User
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()
	ctx := context.Background()

	users := newFakeUserRepo()
	eventsRepo := newFakeEventRepo()
	tickets := newFakeTicketRepo(users, eventsRepo)
	feedback := newFakeFeedbackRepo(users)

	organizer := &domain.User{Username: "org", Email: "org@example.com", Role: domain.UserRoleOrganizer}
	require.NoError(t, users.Create(ctx, organizer))
	rival := &domain.User{Username: "rival", Email: "rival@example.com", Role: domain.UserRoleOrganizer}
	require.NoError(t, users.Create(ctx, rival))
	attendee := &domain.User{Username: "alice", Email: "alice@example.com", Role: domain.UserRoleAttendee}
	require.NoError(t, users.Create(ctx, attendee))

	svc := NewEventService(EventDependencies{
		EventRepo:    eventsRepo,
		TicketRepo:   tickets,
		FeedbackRepo: feedback,
	})

	return &eventFixture{
		svc:       svc,
		users:     users,
		events:    eventsRepo,
		tickets:   tickets,
		feedback:  feedback,
		organizer: organizer,
		rival:     rival,
		attendee:  attendee,
	}
}

func validEventInput() EventCreateInput {
	return EventCreateInput{
		Title:    "Go Conference",
		Date:     time.Now().Add(30 * 24 * time.Hour),
		Location: "Addis Ababa",
		Category: domain.EventCategoryConference,
		Price:    decimal.RequireFromString("100"),
	}
}

func TestEventCreateRequiresOrganizer(t *testing.T) {
	f := newEventFixture(t)

	_, err := f.svc.Create(context.Background(), f.attendee, validEventInput())
	requireDomainCode(t, err, "FORBIDDEN")

	_, err = f.svc.Create(context.Background(), nil, validEventInput())
	requireDomainCode(t, err, "FORBIDDEN")
}

func TestEventCreateValidation(t *testing.T) {
	f := newEventFixture(t)

	input := validEventInput()
	input.Title = "   "
	input.Price = decimal.RequireFromString("-1")
	_, err := f.svc.Create(context.Background(), f.organizer, input)

	de := requireDomainCode(t, err, "VALIDATION_FAILED")
	assert.Contains(t, de.Details, "title")
	assert.Contains(t, de.Details, "price")
}

func TestEventCreateSetsOrganizerFromCaller(t *testing.T) {
	f := newEventFixture(t)

	event, err := f.svc.Create(context.Background(), f.organizer, validEventInput())
	require.NoError(t, err)
	assert.Equal(t, f.organizer.ID, event.OrganizerID)
	assert.Equal(t, "Go Conference", event.Title)
}

func TestEventListScopesOrganizerToOwnEvents(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.organizer, validEventInput())
	require.NoError(t, err)
	rivalInput := validEventInput()
	rivalInput.Title = "Rival Expo"
	_, err = f.svc.Create(ctx, f.rival, rivalInput)
	require.NoError(t, err)

	mine, err := f.svc.List(ctx, f.organizer, EventListInput{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Go Conference", mine[0].Title)

	all, err := f.svc.List(ctx, nil, EventListInput{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	asAttendee, err := f.svc.List(ctx, f.attendee, EventListInput{})
	require.NoError(t, err)
	assert.Len(t, asAttendee, 2)
}

func TestEventGetEmbedsForOwnerOnly(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	event, err := f.svc.Create(ctx, f.organizer, validEventInput())
	require.NoError(t, err)

	require.NoError(t, f.tickets.Create(ctx, &domain.Ticket{EventID: event.ID, AttendeeID: f.attendee.ID}))
	require.NoError(t, f.feedback.Create(ctx, &domain.Feedback{EventID: event.ID, AttendeeID: f.attendee.ID, Rating: 4}))

	detail, err := f.svc.Get(ctx, f.organizer, event.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Tickets, 1)
	assert.Len(t, detail.Feedback, 1)

	detail, err = f.svc.Get(ctx, f.attendee, event.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Tickets)
	assert.Empty(t, detail.Feedback)

	detail, err = f.svc.Get(ctx, nil, event.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Feedback)
}

func TestEventUpdateEnforcesOwnership(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	event, err := f.svc.Create(ctx, f.organizer, validEventInput())
	require.NoError(t, err)

	title := "Hijacked"
	_, err = f.svc.Update(ctx, f.rival, event.ID, EventUpdateInput{Title: &title})
	requireDomainCode(t, err, "FORBIDDEN")

	newPrice := decimal.RequireFromString("150")
	updated, err := f.svc.Update(ctx, f.organizer, event.ID, EventUpdateInput{Price: &newPrice})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, f.organizer.ID, updated.OrganizerID)
}

func TestEventDeleteEnforcesOwnership(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	event, err := f.svc.Create(ctx, f.organizer, validEventInput())
	require.NoError(t, err)

	err = f.svc.Delete(ctx, f.rival, event.ID)
	requireDomainCode(t, err, "FORBIDDEN")

	require.NoError(t, f.svc.Delete(ctx, f.organizer, event.ID))

	_, err = f.svc.Get(ctx, nil, event.ID)
	requireDomainCode(t, err, "NOT_FOUND")
}
