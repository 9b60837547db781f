package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/event-ticketing/internal/config"
	"github.com/spec-kit/event-ticketing/internal/domain"
	"github.com/spec-kit/event-ticketing/internal/events"
	"github.com/spec-kit/event-ticketing/internal/gateway/chapa"
	"github.com/spec-kit/event-ticketing/internal/repository"
	apperrors "github.com/spec-kit/event-ticketing/pkg/util/errorutil"
)

const verifyLockTTL = 30 * time.Second

// PaymentGateway is the outbound contract against the payment provider.
type PaymentGateway interface {
	Initialize(ctx context.Context, in chapa.InitializeRequest) (*chapa.InitializeResult, error)
	Verify(ctx context.Context, txRef string) (bool, error)
}

// PaymentService orchestrates payment initialization, verification and
// ticket issuance.
type PaymentService struct {
	payments   repository.PaymentRepository
	tickets    repository.TicketRepository
	eventsRepo repository.EventRepository
	users      repository.UserRepository
	gateway    PaymentGateway
	locker     *redis.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.ChapaConfig
}

// PaymentDependencies bundles collaborators for the orchestrator.
type PaymentDependencies struct {
	PaymentRepo repository.PaymentRepository
	TicketRepo  repository.TicketRepository
	EventRepo   repository.EventRepository
	UserRepo    repository.UserRepository
	Gateway     PaymentGateway
	Locker      *redis.Client
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewPaymentService constructs the orchestrator.
func NewPaymentService(cfg config.ChapaConfig, deps PaymentDependencies) *PaymentService {
	return &PaymentService{
		payments:   deps.PaymentRepo,
		tickets:    deps.TicketRepo,
		eventsRepo: deps.EventRepo,
		users:      deps.UserRepo,
		gateway:    deps.Gateway,
		locker:     deps.Locker,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		cfg:        cfg,
	}
}

// InitializeResult is handed back to the client to complete checkout.
type InitializeResult struct {
	PaymentURL string
	TxRef      string
}

// Initialize opens a payment for one ticket to the given event. The
// amount is snapshotted from the event price at this moment and never
// changes afterwards, even if the event is repriced.
func (s *PaymentService) Initialize(ctx context.Context, payer *domain.User, eventID string) (*InitializeResult, error) {
	if payer == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}

	event, err := s.eventsRepo.GetByID(ctx, eventID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, err
	}

	held, err := s.tickets.ExistsForEventAndAttendee(ctx, event.ID, payer.ID)
	if err != nil {
		return nil, err
	}
	if held {
		return nil, apperrors.NewConflict("ticket already purchased for this event", map[string]any{"event_id": event.ID})
	}

	payment := &domain.Payment{
		UserID:  payer.ID,
		EventID: event.ID,
		Amount:  event.Price,
		TxRef:   uuid.NewString(),
		Status:  domain.PaymentStatusPending,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventPaymentInitialized,
		ActorID: payer.ID,
		Payload: events.PaymentInitializedPayload{
			PaymentID: payment.ID,
			EventID:   event.ID,
			TxRef:     payment.TxRef,
			Amount:    payment.Amount,
		},
	})

	result, err := s.gateway.Initialize(ctx, chapa.InitializeRequest{
		Amount:      payment.Amount,
		Currency:    s.cfg.Currency,
		Email:       payer.Email,
		FirstName:   payer.Username,
		LastName:    "",
		TxRef:       payment.TxRef,
		CallbackURL: s.cfg.CallbackURL,
		ReturnURL:   s.cfg.ReturnURL,
		Title:       "1 ticket for " + event.Title,
	})
	if err != nil {
		s.failPayment(ctx, payment, err.Error())

		var gwErr *chapa.GatewayError
		if errors.As(err, &gwErr) {
			return nil, apperrors.NewDomainError("GATEWAY_REJECTED", gwErr.Message, http.StatusBadRequest, nil)
		}
		return nil, apperrors.NewUpstreamError("payment gateway unreachable", err)
	}

	return &InitializeResult{PaymentURL: result.CheckoutURL, TxRef: payment.TxRef}, nil
}

// VerificationResult summarizes a payment after verification.
type VerificationResult struct {
	Status     domain.PaymentStatus
	Amount     decimal.Decimal
	EventTitle string
	Username   string
	Tickets    int
	TxRef      string
}

// Verify confirms a transaction against the gateway and settles the local
// payment. Issuance is gated on the pending→paid transition, so repeated
// verification of an already-paid tx_ref never creates a second ticket.
// The gateway callback and the client-facing verify endpoint both land
// here.
func (s *PaymentService) Verify(ctx context.Context, txRef string) (*VerificationResult, error) {
	if txRef == "" {
		return nil, apperrors.NewValidationError("tx_ref required", nil)
	}

	payment, err := s.payments.GetByTxRef(ctx, txRef)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("payment", map[string]any{"tx_ref": txRef})
		}
		return nil, err
	}

	// Best-effort serialization of concurrent verifications of one
	// tx_ref. The conditional settle inside the transaction is the real
	// guard; losing the lock only means a redundant gateway round-trip.
	if unlock := s.tryLock(ctx, txRef); unlock != nil {
		defer unlock()
	}

	success, err := s.gateway.Verify(ctx, txRef)
	if err != nil {
		return nil, apperrors.NewUpstreamError("payment gateway unreachable", err)
	}

	if !success {
		if payment.Status != domain.PaymentStatusPaid {
			s.failPayment(ctx, payment, "gateway reported failure")
		}
		return &VerificationResult{Status: domain.PaymentStatusFailed, TxRef: txRef}, nil
	}

	ticket, issued, err := s.payments.SettleAndIssueTicket(ctx, payment)
	if err != nil {
		return nil, err
	}
	if issued {
		s.publish(ctx, events.Event{
			Type:    events.EventPaymentPaid,
			ActorID: payment.UserID,
			Payload: events.PaymentPaidPayload{
				PaymentID: payment.ID,
				EventID:   payment.EventID,
				TxRef:     payment.TxRef,
				Amount:    payment.Amount,
			},
		})
		s.publish(ctx, events.Event{
			Type:    events.EventTicketIssued,
			ActorID: payment.UserID,
			Payload: events.TicketIssuedPayload{
				TicketID:  ticket.ID,
				EventID:   ticket.EventID,
				PaymentID: ticket.PaymentID,
			},
		})
	}

	return s.summarize(ctx, payment)
}

// Summary reports the current state of a payment without touching the
// gateway, used by the payment-success confirmation view.
func (s *PaymentService) Summary(ctx context.Context, txRef string) (*VerificationResult, error) {
	if txRef == "" {
		return nil, apperrors.NewValidationError("tx_ref required", nil)
	}
	payment, err := s.payments.GetByTxRef(ctx, txRef)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("payment", map[string]any{"tx_ref": txRef})
		}
		return nil, err
	}
	return s.summarize(ctx, payment)
}

// ListForUser returns the caller's payment history.
func (s *PaymentService) ListForUser(ctx context.Context, caller *domain.User, limit, offset int) ([]domain.Payment, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return s.payments.ListByUser(ctx, caller.ID, limit, offset)
}

func (s *PaymentService) summarize(ctx context.Context, payment *domain.Payment) (*VerificationResult, error) {
	count, err := s.tickets.CountByPayment(ctx, payment.ID)
	if err != nil {
		return nil, err
	}

	result := &VerificationResult{
		Status:  payment.Status,
		Amount:  payment.Amount,
		Tickets: count,
		TxRef:   payment.TxRef,
	}
	if event, err := s.eventsRepo.GetByID(ctx, payment.EventID); err == nil {
		result.EventTitle = event.Title
	}
	if user, err := s.users.GetByID(ctx, payment.UserID); err == nil {
		result.Username = user.Username
	}
	return result, nil
}

func (s *PaymentService) failPayment(ctx context.Context, payment *domain.Payment, reason string) {
	if err := s.payments.MarkFailed(ctx, payment.ID); err != nil {
		s.logger.Error("mark payment failed", zap.String("tx_ref", payment.TxRef), zap.Error(err))
		return
	}
	payment.Status = domain.PaymentStatusFailed
	s.publish(ctx, events.Event{
		Type:    events.EventPaymentFailed,
		ActorID: payment.UserID,
		Payload: events.PaymentFailedPayload{
			PaymentID: payment.ID,
			TxRef:     payment.TxRef,
			Reason:    reason,
		},
	})
}

// tryLock acquires a short-lived Redis lock for the tx_ref. Returns nil
// when the lock is unavailable (held elsewhere, or Redis down).
func (s *PaymentService) tryLock(ctx context.Context, txRef string) func() {
	if s.locker == nil {
		return nil
	}
	key := "payment:verify:" + txRef
	ok, err := s.locker.SetNX(ctx, key, "1", verifyLockTTL).Result()
	if err != nil || !ok {
		return nil
	}
	return func() {
		_ = s.locker.Del(context.Background(), key).Err()
	}
}

func (s *PaymentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
