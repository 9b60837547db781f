package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-ticketing/internal/domain"
)

// AttendeeTicket pairs a ticket with its event for attendee listings.
type AttendeeTicket struct {
	Ticket domain.Ticket
	Event  domain.Event
}

// OrganizerTicket joins ticket, event and attendee for organizer listings.
type OrganizerTicket struct {
	Ticket           domain.Ticket
	EventID          string
	EventTitle       string
	AttendeeID       string
	AttendeeUsername string
	AttendeeEmail    string
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ExistsForEventAndAttendee(ctx context.Context, eventID, attendeeID string) (bool, error)
	CountByPayment(ctx context.Context, paymentID string) (int, error)
	ListByAttendee(ctx context.Context, attendeeID string) ([]AttendeeTicket, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]OrganizerTicket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (event_id, attendee_id, payment_id)
        VALUES ($1,$2,$3)
        RETURNING id, purchase_date`
	return r.pool.QueryRow(ctx, query,
		ticket.EventID,
		ticket.AttendeeID,
		ticket.PaymentID,
	).Scan(&ticket.ID, &ticket.PurchaseDate)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, event_id, attendee_id, payment_id, purchase_date
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.AttendeeID,
		&ticket.PaymentID,
		&ticket.PurchaseDate,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ExistsForEventAndAttendee(ctx context.Context, eventID, attendeeID string) (bool, error) {
	const query = `
        SELECT EXISTS (SELECT 1 FROM tickets WHERE event_id=$1 AND attendee_id=$2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, eventID, attendeeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ticketRepository) CountByPayment(ctx context.Context, paymentID string) (int, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE payment_id=$1`
	var count int
	if err := r.pool.QueryRow(ctx, query, paymentID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) ListByAttendee(ctx context.Context, attendeeID string) ([]AttendeeTicket, error) {
	const query = `
        SELECT t.id, t.event_id, t.attendee_id, t.payment_id, t.purchase_date,
               e.id, e.title, e.description, e.date, e.location, e.category, e.price, e.organizer_id, e.created_at, e.updated_at
        FROM tickets t
        JOIN events e ON e.id = t.event_id
        WHERE t.attendee_id=$1
        ORDER BY t.purchase_date DESC`
	rows, err := r.pool.Query(ctx, query, attendeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AttendeeTicket
	for rows.Next() {
		var row AttendeeTicket
		if err := rows.Scan(
			&row.Ticket.ID,
			&row.Ticket.EventID,
			&row.Ticket.AttendeeID,
			&row.Ticket.PaymentID,
			&row.Ticket.PurchaseDate,
			&row.Event.ID,
			&row.Event.Title,
			&row.Event.Description,
			&row.Event.Date,
			&row.Event.Location,
			&row.Event.Category,
			&row.Event.Price,
			&row.Event.OrganizerID,
			&row.Event.CreatedAt,
			&row.Event.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *ticketRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]OrganizerTicket, error) {
	const query = `
        SELECT t.id, t.event_id, t.attendee_id, t.payment_id, t.purchase_date,
               e.id, e.title, u.id, u.username, u.email
        FROM tickets t
        JOIN events e ON e.id = t.event_id
        JOIN users u ON u.id = t.attendee_id
        WHERE e.organizer_id=$1
        ORDER BY t.purchase_date DESC`
	rows, err := r.pool.Query(ctx, query, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []OrganizerTicket
	for rows.Next() {
		var row OrganizerTicket
		if err := rows.Scan(
			&row.Ticket.ID,
			&row.Ticket.EventID,
			&row.Ticket.AttendeeID,
			&row.Ticket.PaymentID,
			&row.Ticket.PurchaseDate,
			&row.EventID,
			&row.EventTitle,
			&row.AttendeeID,
			&row.AttendeeUsername,
			&row.AttendeeEmail,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
