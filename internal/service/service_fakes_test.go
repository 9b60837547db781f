package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/gateway/chapa"
	"github.com/spec-kit/event-ticketing/internal/repository"
)

// In-memory repository fakes shared by the service tests.

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeEventRepo struct {
	events map[string]*domain.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[string]*domain.Event{}}
}

func (r *fakeEventRepo) Create(_ context.Context, event *domain.Event) error {
	event.ID = uuid.NewString()
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	clone := *event
	r.events[event.ID] = &clone
	return nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *domain.Event) error {
	if _, ok := r.events[event.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *event
	r.events[event.ID] = &clone
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.events[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *event
	return &clone, nil
}

func (r *fakeEventRepo) ListWithFilter(_ context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	var result []domain.Event
	for _, event := range r.events {
		if filter.OrganizerID != nil && event.OrganizerID != *filter.OrganizerID {
			continue
		}
		result = append(result, *event)
	}
	return result, nil
}

type fakeTicketRepo struct {
	tickets map[string]*domain.Ticket
	users   *fakeUserRepo
	events  *fakeEventRepo
}

func newFakeTicketRepo(users *fakeUserRepo, events *fakeEventRepo) *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}, users: users, events: events}
}

var errDuplicateTicket = errors.New("duplicate key value violates unique constraint")

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	for _, existing := range r.tickets {
		if existing.EventID == ticket.EventID && existing.AttendeeID == ticket.AttendeeID {
			return errDuplicateTicket
		}
	}
	ticket.ID = uuid.NewString()
	ticket.PurchaseDate = time.Now()
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (r *fakeTicketRepo) ExistsForEventAndAttendee(_ context.Context, eventID, attendeeID string) (bool, error) {
	for _, ticket := range r.tickets {
		if ticket.EventID == eventID && ticket.AttendeeID == attendeeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTicketRepo) CountByPayment(_ context.Context, paymentID string) (int, error) {
	count := 0
	for _, ticket := range r.tickets {
		if ticket.PaymentID != nil && *ticket.PaymentID == paymentID {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) ListByAttendee(ctx context.Context, attendeeID string) ([]repository.AttendeeTicket, error) {
	var result []repository.AttendeeTicket
	for _, ticket := range r.tickets {
		if ticket.AttendeeID != attendeeID {
			continue
		}
		event, err := r.events.GetByID(ctx, ticket.EventID)
		if err != nil {
			return nil, err
		}
		result = append(result, repository.AttendeeTicket{Ticket: *ticket, Event: *event})
	}
	return result, nil
}

func (r *fakeTicketRepo) ListByOrganizer(ctx context.Context, organizerID string) ([]repository.OrganizerTicket, error) {
	var result []repository.OrganizerTicket
	for _, ticket := range r.tickets {
		event, err := r.events.GetByID(ctx, ticket.EventID)
		if err != nil {
			return nil, err
		}
		if event.OrganizerID != organizerID {
			continue
		}
		attendee, err := r.users.GetByID(ctx, ticket.AttendeeID)
		if err != nil {
			return nil, err
		}
		result = append(result, repository.OrganizerTicket{
			Ticket:           *ticket,
			EventID:          event.ID,
			EventTitle:       event.Title,
			AttendeeID:       attendee.ID,
			AttendeeUsername: attendee.Username,
			AttendeeEmail:    attendee.Email,
		})
	}
	return result, nil
}

type fakePaymentRepo struct {
	payments map[string]*domain.Payment
	tickets  *fakeTicketRepo
}

func newFakePaymentRepo(tickets *fakeTicketRepo) *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[string]*domain.Payment{}, tickets: tickets}
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *domain.Payment) error {
	payment.ID = uuid.NewString()
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = payment.CreatedAt
	clone := *payment
	r.payments[payment.ID] = &clone
	return nil
}

func (r *fakePaymentRepo) GetByTxRef(_ context.Context, txRef string) (*domain.Payment, error) {
	for _, payment := range r.payments {
		if payment.TxRef == txRef {
			clone := *payment
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakePaymentRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]domain.Payment, error) {
	var result []domain.Payment
	for _, payment := range r.payments {
		if payment.UserID == userID {
			result = append(result, *payment)
		}
	}
	return result, nil
}

func (r *fakePaymentRepo) MarkFailed(_ context.Context, id string) error {
	payment, ok := r.payments[id]
	if !ok {
		return nil
	}
	if payment.Status != domain.PaymentStatusPaid {
		payment.Status = domain.PaymentStatusFailed
		payment.UpdatedAt = time.Now()
	}
	return nil
}

func (r *fakePaymentRepo) SettleAndIssueTicket(ctx context.Context, payment *domain.Payment) (*domain.Ticket, bool, error) {
	stored, ok := r.payments[payment.ID]
	if !ok {
		return nil, false, pgx.ErrNoRows
	}
	if stored.Status == domain.PaymentStatusPaid {
		return nil, false, nil
	}
	stored.Status = domain.PaymentStatusPaid
	stored.UpdatedAt = time.Now()

	ticket := &domain.Ticket{
		EventID:    stored.EventID,
		AttendeeID: stored.UserID,
		PaymentID:  &stored.ID,
	}
	if err := r.tickets.Create(ctx, ticket); err != nil {
		return nil, false, err
	}
	payment.Status = domain.PaymentStatusPaid
	return ticket, true, nil
}

type fakeFeedbackRepo struct {
	feedback map[string]*domain.Feedback
	users    *fakeUserRepo
}

func newFakeFeedbackRepo(users *fakeUserRepo) *fakeFeedbackRepo {
	return &fakeFeedbackRepo{feedback: map[string]*domain.Feedback{}, users: users}
}

func (r *fakeFeedbackRepo) Create(_ context.Context, feedback *domain.Feedback) error {
	feedback.ID = uuid.NewString()
	feedback.CreatedAt = time.Now()
	clone := *feedback
	r.feedback[feedback.ID] = &clone
	return nil
}

func (r *fakeFeedbackRepo) ExistsForEventAndAttendee(_ context.Context, eventID, attendeeID string) (bool, error) {
	for _, feedback := range r.feedback {
		if feedback.EventID == eventID && feedback.AttendeeID == attendeeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFeedbackRepo) ListByEvent(ctx context.Context, eventID string) ([]repository.EventFeedback, error) {
	var result []repository.EventFeedback
	for _, feedback := range r.feedback {
		if feedback.EventID != eventID {
			continue
		}
		attendee, err := r.users.GetByID(ctx, feedback.AttendeeID)
		if err != nil {
			return nil, err
		}
		result = append(result, repository.EventFeedback{
			Feedback:         *feedback,
			AttendeeUsername: attendee.Username,
		})
	}
	return result, nil
}

type fakeResetRepo struct {
	tokens map[string]*repository.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: map[string]*repository.PasswordResetToken{}}
}

func (r *fakeResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	token.ID = uuid.NewString()
	token.CreatedAt = time.Now()
	clone := *token
	r.tokens[token.Token] = &clone
	return nil
}

func (r *fakeResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	token, ok := r.tokens[tokenStr]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *token
	return &clone, nil
}

func (r *fakeResetRepo) MarkUsed(_ context.Context, id string) error {
	now := time.Now()
	for _, token := range r.tokens {
		if token.ID == id {
			token.UsedAt = &now
		}
	}
	return nil
}

// fakeGateway scripts gateway responses for the orchestrator tests.
type fakeGateway struct {
	initResult    *chapa.InitializeResult
	initErr       error
	verifySuccess bool
	verifyErr     error
	verifyCalls   int
}

func (g *fakeGateway) Initialize(_ context.Context, _ chapa.InitializeRequest) (*chapa.InitializeResult, error) {
	if g.initErr != nil {
		return nil, g.initErr
	}
	if g.initResult != nil {
		return g.initResult, nil
	}
	return &chapa.InitializeResult{CheckoutURL: "https://checkout.example/session"}, nil
}

func (g *fakeGateway) Verify(_ context.Context, _ string) (bool, error) {
	g.verifyCalls++
	if g.verifyErr != nil {
		return false, g.verifyErr
	}
	return g.verifySuccess, nil
}
