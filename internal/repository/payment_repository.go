package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

// PaymentRepository encapsulates payment persistence.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByTxRef(ctx context.Context, txRef string) (*domain.Payment, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Payment, error)
	// MarkFailed flips the payment to failed unless it is already paid.
	MarkFailed(ctx context.Context, id string) error
	// SettleAndIssueTicket performs the pending→paid transition as a
	// conditional update and inserts the ticket in the same transaction.
	// The ticket is issued only when this call observes the transition,
	// so repeat settlements of the same payment are no-ops. Returns the
	// issued ticket and whether the transition happened in this call.
	SettleAndIssueTicket(ctx context.Context, payment *domain.Payment) (*domain.Ticket, bool, error)
}

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository instantiates repository.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	const query = `
        INSERT INTO payments (user_id, event_id, amount, tx_ref, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		payment.UserID,
		payment.EventID,
		payment.Amount,
		payment.TxRef,
		payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
}

func (r *paymentRepository) GetByTxRef(ctx context.Context, txRef string) (*domain.Payment, error) {
	const query = `
        SELECT id, user_id, event_id, amount, tx_ref, status, created_at, updated_at
        FROM payments WHERE tx_ref=$1`
	var payment domain.Payment
	if err := r.pool.QueryRow(ctx, query, txRef).Scan(
		&payment.ID,
		&payment.UserID,
		&payment.EventID,
		&payment.Amount,
		&payment.TxRef,
		&payment.Status,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Payment, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, user_id, event_id, amount, tx_ref, status, created_at, updated_at
        FROM payments WHERE user_id=$1
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Payment
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.UserID,
			&payment.EventID,
			&payment.Amount,
			&payment.TxRef,
			&payment.Status,
			&payment.CreatedAt,
			&payment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, payment)
	}
	return result, rows.Err()
}

// MarkFailed is guarded so that a late gateway failure can never revert a
// payment that already settled.
func (r *paymentRepository) MarkFailed(ctx context.Context, id string) error {
	const query = `
        UPDATE payments SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status <> $3`
	_, err := r.pool.Exec(ctx, query, domain.PaymentStatusFailed, id, domain.PaymentStatusPaid)
	return err
}

func (r *paymentRepository) SettleAndIssueTicket(ctx context.Context, payment *domain.Payment) (*domain.Ticket, bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const settle = `
        UPDATE payments SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status <> $1`
	cmd, err := tx.Exec(ctx, settle, domain.PaymentStatusPaid, payment.ID)
	if err != nil {
		return nil, false, err
	}
	if cmd.RowsAffected() == 0 {
		// Already paid; a ticket was issued by the verification that won.
		return nil, false, tx.Commit(ctx)
	}

	ticket := &domain.Ticket{
		EventID:    payment.EventID,
		AttendeeID: payment.UserID,
		PaymentID:  &payment.ID,
	}
	const issue = `
        INSERT INTO tickets (event_id, attendee_id, payment_id)
        VALUES ($1,$2,$3)
        RETURNING id, purchase_date`
	if err := tx.QueryRow(ctx, issue,
		ticket.EventID,
		ticket.AttendeeID,
		ticket.PaymentID,
	).Scan(&ticket.ID, &ticket.PurchaseDate); err != nil {
		return nil, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	payment.Status = domain.PaymentStatusPaid
	return ticket, true, nil
}
