package ports

import (
	"context"

	"github.com/helpdesk-io/helpdesk-backend/internal/core/domain"
)

// TicketFilter holds the parameterized criteria for filtered listings. Empty
// string fields mean "no constraint on this field" - the query engine
// normalizes the external "uninformed" sentinel to empty before querying.
type TicketFilter struct {
	Title          string // case-insensitive substring match
	Status         string // exact match
	Priority       string // exact match
	AssignedUserID string // exact match
}

// Pagination carries a zero-based page index and a page size.
type Pagination struct {
	Page int
	Size int
}

// Offset returns the row offset for the page.
func (p Pagination) Offset() int {
	return p.Page * p.Size
}

// TicketRepository is the narrow persistence capability set for tickets:
// save, lookup by id, delete by id, and the filter-and-page finders the query
// engine needs. Save is an atomic single-row upsert keyed on the ticket id.
type TicketRepository interface {
	Save(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) error

	// List pages through the full store in storage order.
	List(ctx context.Context, page Pagination) ([]*domain.Ticket, int64, error)
	// ListByUser pages through one creator's tickets ordered by creation date.
	ListByUser(ctx context.Context, userID string, page Pagination) ([]*domain.Ticket, int64, error)
	// ListByNumber pages through tickets with the given number.
	ListByNumber(ctx context.Context, number int, page Pagination) ([]*domain.Ticket, int64, error)
	// ListFiltered pages through tickets matching the filter, ordered by
	// creation date ascending.
	ListFiltered(ctx context.Context, filter TicketFilter, page Pagination) ([]*domain.Ticket, int64, error)

	// CountByStatus returns the number of tickets per status over the whole
	// store. Statuses with no tickets may be absent from the map.
	CountByStatus(ctx context.Context) (map[domain.Status]int64, error)
}

// ChangeRepository is the append-only ledger of status transitions.
type ChangeRepository interface {
	Append(ctx context.Context, change *domain.Change) (*domain.Change, error)
	// ListByTicket returns a ticket's changes ordered by date descending.
	ListByTicket(ctx context.Context, ticketID string) ([]*domain.Change, error)
	// GetByID retrieves a single change. Changes orphaned by a ticket delete
	// stay retrievable here.
	GetByID(ctx context.Context, id string) (*domain.Change, error)
}

// UserRepository is the identity collaborator's persistence surface as
// consumed by this service.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// SummaryCache is an optional read-through cache in front of the summary
// aggregator. A nil Summary with a nil error is a cache miss. All methods are
// best-effort: callers fall back to the store on any error.
type SummaryCache interface {
	Get(ctx context.Context) (*domain.Summary, error)
	Set(ctx context.Context, summary *domain.Summary) error
	Invalidate(ctx context.Context) error
}
