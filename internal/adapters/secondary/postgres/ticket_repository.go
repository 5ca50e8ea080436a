package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-io/helpdesk-backend/internal/core/domain"
	apperrors "github.com/helpdesk-io/helpdesk-backend/internal/core/errors"
	"github.com/helpdesk-io/helpdesk-backend/internal/core/ports"
)

const ticketColumns = `id, user_id, created_at, title, number, assigned_user_id, description, image, priority, status`

// TicketRepository is the secondary adapter for ticket persistence.
type TicketRepository struct {
	pool *pgxpool.Pool
}

var _ ports.TicketRepository = (*TicketRepository)(nil)

// NewTicketRepository creates a new ticket repository.
func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

// Save inserts the ticket or, when the id already exists, overwrites the
// stored row in a single atomic write.
func (r *TicketRepository) Save(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	const query = `
        INSERT INTO tickets (id, user_id, created_at, title, number, assigned_user_id, description, image, priority, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        ON CONFLICT (id) DO UPDATE SET
            title            = EXCLUDED.title,
            assigned_user_id = EXCLUDED.assigned_user_id,
            description      = EXCLUDED.description,
            image            = EXCLUDED.image,
            priority         = EXCLUDED.priority,
            status           = EXCLUDED.status
        RETURNING ` + ticketColumns

	row := r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.UserID,
		ticket.Date,
		ticket.Title,
		ticket.Number,
		nullable(ticket.AssignedUserID),
		ticket.Description,
		ticket.Image,
		string(ticket.Priority),
		string(ticket.Status),
	)
	return scanTicket(row)
}

// GetByID retrieves a single ticket by its id.
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(id)
		}
		return nil, err
	}
	return ticket, nil
}

// Delete removes a ticket row. The ticket's change history is left in place.
func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound(id)
	}
	return nil
}

// List pages through the whole store. No ordering is imposed beyond the
// storage order.
func (r *TicketRepository) List(ctx context.Context, page ports.Pagination) ([]*domain.Ticket, int64, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets LIMIT $1 OFFSET $2`

	tickets, err := r.queryTickets(ctx, query, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}

	total, err := r.count(ctx, `SELECT COUNT(*) FROM tickets`)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

// ListByUser pages through one creator's tickets ordered by creation date.
func (r *TicketRepository) ListByUser(ctx context.Context, userID string, page ports.Pagination) ([]*domain.Ticket, int64, error) {
	const query = `SELECT ` + ticketColumns + `
        FROM tickets WHERE user_id = $1
        ORDER BY created_at
        LIMIT $2 OFFSET $3`

	tickets, err := r.queryTickets(ctx, query, userID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}

	total, err := r.count(ctx, `SELECT COUNT(*) FROM tickets WHERE user_id = $1`, userID)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

// ListByNumber pages through tickets carrying the given number. Numbers are
// not unique, so this can return more than one ticket.
func (r *TicketRepository) ListByNumber(ctx context.Context, number int, page ports.Pagination) ([]*domain.Ticket, int64, error) {
	const query = `SELECT ` + ticketColumns + `
        FROM tickets WHERE number = $1
        LIMIT $2 OFFSET $3`

	tickets, err := r.queryTickets(ctx, query, number, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}

	total, err := r.count(ctx, `SELECT COUNT(*) FROM tickets WHERE number = $1`, number)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

// ListFiltered pages through tickets matching the filter, ordered by creation
// date ascending. Empty filter fields match everything.
func (r *TicketRepository) ListFiltered(ctx context.Context, filter ports.TicketFilter, page ports.Pagination) ([]*domain.Ticket, int64, error) {
	const where = `
        WHERE title ILIKE '%' || $1 || '%'
          AND ($2 = '' OR status = $2)
          AND ($3 = '' OR priority = $3)
          AND ($4 = '' OR assigned_user_id = $4)`

	const query = `SELECT ` + ticketColumns + ` FROM tickets` + where + `
        ORDER BY created_at ASC
        LIMIT $5 OFFSET $6`

	tickets, err := r.queryTickets(ctx, query,
		filter.Title, filter.Status, filter.Priority, filter.AssignedUserID,
		page.Size, page.Offset(),
	)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.count(ctx, `SELECT COUNT(*) FROM tickets`+where,
		filter.Title, filter.Status, filter.Priority, filter.AssignedUserID)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

// CountByStatus returns ticket counts grouped by status.
func (r *TicketRepository) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Status]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[domain.Status(status)] = count
	}
	return counts, rows.Err()
}

func (r *TicketRepository) queryTickets(ctx context.Context, query string, args ...any) ([]*domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*domain.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

func (r *TicketRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, query, args...).Scan(&total)
	return total, err
}

// scanTicket maps one row onto the domain entity.
func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket   domain.Ticket
		assignee *string
		priority string
		status   string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.Date,
		&ticket.Title,
		&ticket.Number,
		&assignee,
		&ticket.Description,
		&ticket.Image,
		&priority,
		&status,
	); err != nil {
		return nil, err
	}
	if assignee != nil {
		ticket.AssignedUserID = *assignee
	}
	ticket.Priority = domain.Priority(priority)
	ticket.Status = domain.Status(status)
	return &ticket, nil
}

// nullable maps the domain's empty-string "unset" convention to SQL NULL.
func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
