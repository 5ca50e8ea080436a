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

// ChangeRepository is the secondary adapter for the status change ledger.
// Rows are append-only; there is no update or delete path.
type ChangeRepository struct {
	pool *pgxpool.Pool
}

var _ ports.ChangeRepository = (*ChangeRepository)(nil)

// NewChangeRepository creates a new change repository.
func NewChangeRepository(pool *pgxpool.Pool) *ChangeRepository {
	return &ChangeRepository{pool: pool}
}

// Append records a status change.
func (r *ChangeRepository) Append(ctx context.Context, change *domain.Change) (*domain.Change, error) {
	const query = `
        INSERT INTO changes (id, ticket_id, user_id, changed_at, status)
        VALUES ($1,$2,$3,$4,$5)`

	_, err := r.pool.Exec(ctx, query,
		change.ID,
		change.TicketID,
		change.UserID,
		change.Date,
		string(change.Status),
	)
	if err != nil {
		return nil, err
	}
	return change, nil
}

// ListByTicket returns all changes for a ticket, most recent first. The seq
// column breaks ties between changes recorded in the same instant.
func (r *ChangeRepository) ListByTicket(ctx context.Context, ticketID string) ([]*domain.Change, error) {
	const query = `
        SELECT id, ticket_id, user_id, changed_at, status
        FROM changes
        WHERE ticket_id = $1
        ORDER BY changed_at DESC, seq DESC`

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := make([]*domain.Change, 0)
	for rows.Next() {
		change, err := scanChange(rows)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}
	return changes, rows.Err()
}

// GetByID retrieves a single change record.
func (r *ChangeRepository) GetByID(ctx context.Context, id string) (*domain.Change, error) {
	const query = `
        SELECT id, ticket_id, user_id, changed_at, status
        FROM changes
        WHERE id = $1`

	change, err := scanChange(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(id)
		}
		return nil, err
	}
	return change, nil
}

func scanChange(row pgx.Row) (*domain.Change, error) {
	var (
		change domain.Change
		status string
	)
	if err := row.Scan(
		&change.ID,
		&change.TicketID,
		&change.UserID,
		&change.Date,
		&status,
	); err != nil {
		return nil, err
	}
	change.Status = domain.Status(status)
	return &change, nil
}
