package domain

import (
	"time"

	"github.com/google/uuid"
)

// Change is an immutable audit record of one status transition on a ticket.
// Changes are append-only: they are created exactly once per transition and
// never updated or deleted, even when their ticket is deleted.
type Change struct {
	ID       string
	TicketID string
	UserID   string
	Date     time.Time
	Status   Status
}

// NewChange records that actorID moved the given ticket to status at the
// current time.
func NewChange(ticketID, actorID string, status Status) *Change {
	return &Change{
		ID:       uuid.NewString(),
		TicketID: ticketID,
		UserID:   actorID,
		Date:     time.Now().UTC(),
		Status:   status,
	}
}
