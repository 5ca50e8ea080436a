package services

import (
	"context"

	"github.com/helpdesk-io/helpdesk-backend/internal/core/domain"
	"github.com/helpdesk-io/helpdesk-backend/internal/core/ports"
)

// FilterSentinel is the reserved input token meaning "no constraint on this
// field". The query engine translates it to an unconstrained match before
// touching the repository.
const FilterSentinel = "uninformed"

// QueryService implements the query engine: paginated, filtered views over
// tickets shaped by the caller's role and assignment flag.
type QueryService struct {
	ticketRepo ports.TicketRepository
}

var _ ports.QueryService = (*QueryService)(nil)

// NewQueryService creates a new query service.
func NewQueryService(ticketRepo ports.TicketRepository) *QueryService {
	return &QueryService{ticketRepo: ticketRepo}
}

// List pages through tickets without criteria. Technicians see the whole
// store in storage order; customers see their own tickets ordered by
// creation date.
func (s *QueryService) List(ctx context.Context, params ports.ListTicketsParams) (*domain.TicketPage, error) {
	if err := requireRole(params.Caller.Role, domain.RoleCustomer, domain.RoleTechnician); err != nil {
		return nil, err
	}

	var (
		tickets []*domain.Ticket
		total   int64
		err     error
	)
	if params.Caller.Role == domain.RoleTechnician {
		tickets, total, err = s.ticketRepo.List(ctx, params.Page)
	} else {
		tickets, total, err = s.ticketRepo.ListByUser(ctx, params.Caller.UserID, params.Page)
	}
	if err != nil {
		return nil, err
	}

	return domain.NewTicketPage(tickets, params.Page.Page, params.Page.Size, total), nil
}

// ListFiltered pages through tickets matching the submitted criteria. A
// positive ticket number short-circuits every other filter. Otherwise a
// technician without the assigned flag sees matches across the whole store;
// a technician with the flag, or any customer, is additionally constrained
// to tickets assigned to them.
func (s *QueryService) ListFiltered(ctx context.Context, params ports.ListFilteredParams) (*domain.TicketPage, error) {
	if err := requireRole(params.Caller.Role, domain.RoleCustomer, domain.RoleTechnician); err != nil {
		return nil, err
	}

	var (
		tickets []*domain.Ticket
		total   int64
		err     error
	)

	if params.Number > 0 {
		tickets, total, err = s.ticketRepo.ListByNumber(ctx, params.Number, params.Page)
	} else {
		filter := ports.TicketFilter{
			Title:    unconstrained(params.Title),
			Status:   unconstrained(params.Status),
			Priority: unconstrained(params.Priority),
		}
		if params.Caller.Role != domain.RoleTechnician || params.Assigned {
			filter.AssignedUserID = params.Caller.UserID
		}
		tickets, total, err = s.ticketRepo.ListFiltered(ctx, filter, params.Page)
	}
	if err != nil {
		return nil, err
	}

	return domain.NewTicketPage(tickets, params.Page.Page, params.Page.Size, total), nil
}

// unconstrained maps the sentinel to the repository's "match anything" value.
func unconstrained(value string) string {
	if value == FilterSentinel {
		return ""
	}
	return value
}
