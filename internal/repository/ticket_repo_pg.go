package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/airline-reservation/internal/domain"
	"github.com/jackc/pgx/v5"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.SupportTicket) error
	ExistsByNumber(ctx context.Context, ticketNumber string) (bool, error)
	GetByNumber(ctx context.Context, ticketNumber string) (*domain.SupportTicket, error)
	GetByID(ctx context.Context, id int64) (*domain.SupportTicket, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.SupportTicket, error)
	Update(ctx context.Context, ticket *domain.SupportTicket) error
}

type PGTicketRepository struct {
	db Querier
}

func NewTicketRepository(db Querier) TicketRepository {
	return &PGTicketRepository{db: db}
}

const ticketColumns = `id, ticket_number, user_id, name, email, subject, message, status, priority, response,
	response_date, created_at, updated_at`

func (r *PGTicketRepository) Create(ctx context.Context, t *domain.SupportTicket) error {
	err := r.db.QueryRow(ctx, `INSERT INTO support_tickets (ticket_number, user_id, name, email, subject, message, status, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		t.TicketNumber, t.UserID, t.Name, t.Email, t.Subject, t.Message, string(t.Status), string(t.Priority),
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return translate("create support ticket", err)
}

func (r *PGTicketRepository) ExistsByNumber(ctx context.Context, ticketNumber string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM support_tickets WHERE ticket_number=$1)`, ticketNumber).Scan(&exists)
	if err != nil {
		return false, translate("check ticket number", err)
	}
	return exists, nil
}

func (r *PGTicketRepository) GetByNumber(ctx context.Context, ticketNumber string) (*domain.SupportTicket, error) {
	t, err := scanTicket(r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM support_tickets WHERE ticket_number=$1`, ticketNumber))
	if err != nil {
		return nil, translate(fmt.Sprintf("get support ticket %s", ticketNumber), err)
	}
	return t, nil
}

func (r *PGTicketRepository) GetByID(ctx context.Context, id int64) (*domain.SupportTicket, error) {
	t, err := scanTicket(r.db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM support_tickets WHERE id=$1`, id))
	if err != nil {
		return nil, translate(fmt.Sprintf("get support ticket %d", id), err)
	}
	return t, nil
}

func (r *PGTicketRepository) ListByUser(ctx context.Context, userID int64) ([]domain.SupportTicket, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ticketColumns+` FROM support_tickets WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, translate("list support tickets", err)
	}
	defer rows.Close()

	tickets := make([]domain.SupportTicket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, translate("list support tickets", err)
		}
		tickets = append(tickets, *t)
	}
	return tickets, translate("list support tickets", rows.Err())
}

func (r *PGTicketRepository) Update(ctx context.Context, t *domain.SupportTicket) error {
	err := r.db.QueryRow(ctx, `UPDATE support_tickets SET status=$1, response=$2, response_date=$3, updated_at=now()
		WHERE id=$4
		RETURNING updated_at`,
		string(t.Status), t.Response, t.ResponseDate, t.ID,
	).Scan(&t.UpdatedAt)
	return translate(fmt.Sprintf("update support ticket %d", t.ID), err)
}

func scanTicket(row pgx.Row) (*domain.SupportTicket, error) {
	var (
		t                domain.SupportTicket
		status, priority string
		responseDate     *time.Time
	)
	if err := row.Scan(&t.ID, &t.TicketNumber, &t.UserID, &t.Name, &t.Email, &t.Subject, &t.Message, &status, &priority,
		&t.Response, &responseDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Status = domain.TicketStatus(status)
	t.Priority = domain.TicketPriority(priority)
	t.ResponseDate = responseDate
	return &t, nil
}

var _ TicketRepository = (*PGTicketRepository)(nil)
