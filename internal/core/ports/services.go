package ports

import (
	"context"

	"github.com/helpdesk-io/helpdesk-backend/internal/core/domain"
)

// Caller identifies the authenticated user invoking an operation, resolved by
// the transport boundary and passed explicitly through the call chain.
type Caller struct {
	UserID string
	Email  string
	Role   domain.Role
}

// CreateTicketParams defines the input for creating a ticket.
type CreateTicketParams struct {
	Ticket domain.TicketParams
	Caller Caller
}

// UpdateTicketParams defines the input for updating a ticket's mutable
// fields. Status, creator, creation date and number are not accepted here:
// whatever the transport receives for them is discarded.
type UpdateTicketParams struct {
	ID             string
	Ticket         domain.TicketParams
	AssignedUserID string
	Caller         Caller
}

// TransitionParams defines the input for moving a ticket to a new status.
type TransitionParams struct {
	ID          string
	StatusLabel string
	Caller      Caller
}

// ListTicketsParams defines the input for the unfiltered listing.
type ListTicketsParams struct {
	Page   Pagination
	Caller Caller
}

// ListFilteredParams defines the input for the filtered listing. Title,
// Status and Priority accept the "uninformed" sentinel meaning "no
// constraint"; a Number greater than zero short-circuits all other filters.
type ListFilteredParams struct {
	Page     Pagination
	Number   int
	Title    string
	Status   string
	Priority string
	Assigned bool
	Caller   Caller
}

// TicketService owns ticket records and their lifecycle.
type TicketService interface {
	Create(ctx context.Context, params CreateTicketParams) (*domain.Ticket, error)
	Update(ctx context.Context, params UpdateTicketParams) (*domain.Ticket, error)
	Transition(ctx context.Context, params TransitionParams) (*domain.Ticket, error)
	Delete(ctx context.Context, id string, caller Caller) error
	GetByID(ctx context.Context, id string, caller Caller) (*domain.Ticket, error)
}

// QueryService builds filtered, paginated views over tickets based on the
// caller's role and criteria.
type QueryService interface {
	List(ctx context.Context, params ListTicketsParams) (*domain.TicketPage, error)
	ListFiltered(ctx context.Context, params ListFilteredParams) (*domain.TicketPage, error)
}

// SummaryService computes ticket counts per status over the whole store.
type SummaryService interface {
	Summarize(ctx context.Context) (*domain.Summary, error)
}

// AuthService is the identity collaborator's login surface.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
}

// NotificationParams defines the input for sending a notification.
type NotificationParams struct {
	RecipientUserID string
	Subject         string
	Message         string
	TicketID        string
}

// Notifier sends asynchronous notifications.
type Notifier interface {
	Notify(ctx context.Context, params NotificationParams)
}

// EventBroadcaster pushes real-time events to connected clients.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
