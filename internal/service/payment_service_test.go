package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/event-ticketing/internal/config"
	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/gateway/chapa"
	apperrors "github.com/spec-kit/event-ticketing/pkg/util/errorutil"
)

type paymentFixture struct {
	svc      *PaymentService
	gateway  *fakeGateway
	users    *fakeUserRepo
	events   *fakeEventRepo
	tickets  *fakeTicketRepo
	payments *fakePaymentRepo

	organizer *domain.User
	attendee  *domain.User
	event     *domain.Event
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	ctx := context.Background()

	users := newFakeUserRepo()
	eventsRepo := newFakeEventRepo()
	tickets := newFakeTicketRepo(users, eventsRepo)
	payments := newFakePaymentRepo(tickets)
	gateway := &fakeGateway{verifySuccess: true}

	organizer := &domain.User{Username: "org", Email: "org@example.com", Role: domain.UserRoleOrganizer}
	require.NoError(t, users.Create(ctx, organizer))
	attendee := &domain.User{Username: "alice", Email: "alice@example.com", Role: domain.UserRoleAttendee}
	require.NoError(t, users.Create(ctx, attendee))

	event := &domain.Event{
		Title:       "Jazz Night",
		Category:    domain.EventCategoryConcert,
		Price:       decimal.RequireFromString("250.00"),
		OrganizerID: organizer.ID,
	}
	require.NoError(t, eventsRepo.Create(ctx, event))

	svc := NewPaymentService(config.ChapaConfig{Currency: "ETB"}, PaymentDependencies{
		PaymentRepo: payments,
		TicketRepo:  tickets,
		EventRepo:   eventsRepo,
		UserRepo:    users,
		Gateway:     gateway,
		Logger:      zap.NewNop(),
	})

	return &paymentFixture{
		svc:       svc,
		gateway:   gateway,
		users:     users,
		events:    eventsRepo,
		tickets:   tickets,
		payments:  payments,
		organizer: organizer,
		attendee:  attendee,
		event:     event,
	}
}

func requireDomainCode(t *testing.T, err error, code string) *apperrors.DomainError {
	t.Helper()
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	require.Equal(t, code, de.Code)
	return de
}

func TestPaymentInitializeSnapshotsAmount(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	result, err := f.svc.Initialize(ctx, f.attendee, f.event.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/session", result.PaymentURL)
	require.NotEmpty(t, result.TxRef)

	// Reprice the event after the payment opened; the payment keeps the
	// price it was created with.
	f.event.Price = decimal.RequireFromString("999.99")
	require.NoError(t, f.events.Update(ctx, f.event))

	payment, err := f.payments.GetByTxRef(ctx, result.TxRef)
	require.NoError(t, err)
	assert.True(t, payment.Amount.Equal(decimal.RequireFromString("250.00")))
	assert.Equal(t, domain.PaymentStatusPending, payment.Status)
	assert.Equal(t, f.attendee.ID, payment.UserID)
}

func TestPaymentInitializeUnknownEvent(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.Initialize(context.Background(), f.attendee, "missing")
	de := requireDomainCode(t, err, "NOT_FOUND")
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
}

func TestPaymentInitializeRejectsWhenTicketHeld(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	ticket := &domain.Ticket{EventID: f.event.ID, AttendeeID: f.attendee.ID}
	require.NoError(t, f.tickets.Create(ctx, ticket))

	_, err := f.svc.Initialize(ctx, f.attendee, f.event.ID)
	de := requireDomainCode(t, err, "CONFLICT")
	assert.Equal(t, http.StatusConflict, de.HTTPStatus)
}

func TestPaymentInitializeGatewayRejection(t *testing.T) {
	f := newPaymentFixture(t)
	f.gateway.initErr = &chapa.GatewayError{Message: "invalid currency"}
	ctx := context.Background()

	_, err := f.svc.Initialize(ctx, f.attendee, f.event.ID)
	de := requireDomainCode(t, err, "GATEWAY_REJECTED")
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, "invalid currency", de.Message)

	// The failed attempt is recorded, and a retry is allowed.
	for _, payment := range f.payments.payments {
		assert.Equal(t, domain.PaymentStatusFailed, payment.Status)
	}
	f.gateway.initErr = nil
	_, err = f.svc.Initialize(ctx, f.attendee, f.event.ID)
	require.NoError(t, err)
}

func TestPaymentInitializeGatewayUnreachable(t *testing.T) {
	f := newPaymentFixture(t)
	f.gateway.initErr = errors.New("dial tcp: connection refused")

	_, err := f.svc.Initialize(context.Background(), f.attendee, f.event.ID)
	de := requireDomainCode(t, err, "UPSTREAM_FAILURE")
	assert.Equal(t, http.StatusBadGateway, de.HTTPStatus)
}

func TestPaymentVerifyIssuesTicketExactlyOnce(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	init, err := f.svc.Initialize(ctx, f.attendee, f.event.ID)
	require.NoError(t, err)

	result, err := f.svc.Verify(ctx, init.TxRef)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, result.Status)
	assert.Equal(t, 1, result.Tickets)
	assert.Equal(t, "Jazz Night", result.EventTitle)
	assert.Equal(t, "alice", result.Username)

	// Re-verifying a settled payment is a no-op: still paid, still one
	// ticket, no duplicate issuance.
	again, err := f.svc.Verify(ctx, init.TxRef)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, again.Status)
	assert.Equal(t, 1, again.Tickets)
	assert.Len(t, f.tickets.tickets, 1)
}

func TestPaymentVerifyGatewayReportsFailure(t *testing.T) {
	f := newPaymentFixture(t)
	f.gateway.verifySuccess = false
	ctx := context.Background()

	init, err := f.svc.Initialize(ctx, f.attendee, f.event.ID)
	require.NoError(t, err)

	result, err := f.svc.Verify(ctx, init.TxRef)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, result.Status)
	assert.Empty(t, f.tickets.tickets)

	payment, err := f.payments.GetByTxRef(ctx, init.TxRef)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, payment.Status)
}

func TestPaymentVerifyGatewayUnreachable(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	init, err := f.svc.Initialize(ctx, f.attendee, f.event.ID)
	require.NoError(t, err)

	f.gateway.verifyErr = errors.New("read tcp: i/o timeout")
	_, err = f.svc.Verify(ctx, init.TxRef)
	requireDomainCode(t, err, "UPSTREAM_FAILURE")

	// No settlement happened, so a later verify can still succeed.
	payment, err := f.payments.GetByTxRef(ctx, init.TxRef)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, payment.Status)
}

func TestPaymentVerifyRequiresTxRef(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.Verify(context.Background(), "")
	requireDomainCode(t, err, "VALIDATION_FAILED")

	_, err = f.svc.Verify(context.Background(), "unknown-ref")
	requireDomainCode(t, err, "NOT_FOUND")
}

func TestPaymentSummaryDoesNotTouchGateway(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	init, err := f.svc.Initialize(ctx, f.attendee, f.event.ID)
	require.NoError(t, err)
	_, err = f.svc.Verify(ctx, init.TxRef)
	require.NoError(t, err)
	calls := f.gateway.verifyCalls

	summary, err := f.svc.Summary(ctx, init.TxRef)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, summary.Status)
	assert.Equal(t, 1, summary.Tickets)
	assert.Equal(t, calls, f.gateway.verifyCalls)
}

func TestPaymentListForUser(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	_, err := f.svc.Initialize(ctx, f.attendee, f.event.ID)
	require.NoError(t, err)

	payments, err := f.svc.ListForUser(ctx, f.attendee, 20, 0)
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	payments, err = f.svc.ListForUser(ctx, f.organizer, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, payments)

	_, err = f.svc.ListForUser(ctx, nil, 20, 0)
	requireDomainCode(t, err, "UNAUTHORIZED")
}
