package domain

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// TicketNumberRange bounds the pseudo-random ticket number: numbers fall in
// [0, TicketNumberRange). Numbers are not checked for uniqueness; duplicates
// are possible and tolerated.
const TicketNumberRange = 9999

// Priority represents the urgency of a ticket.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Ticket is the core domain entity: a customer-submitted support request with
// a lifecycle status.
//
// UserID (the creator) and Number are immutable after creation, and Status
// only moves through the transition operation. Changes is populated on detail
// retrieval only; it is never persisted on the ticket itself.
type Ticket struct {
	ID             string
	UserID         string
	Date           time.Time
	Title          string
	Number         int
	AssignedUserID string
	Description    string
	Image          string
	Priority       Priority
	Status         Status
	Changes        []*Change
}

// TicketParams holds the caller-settable fields for creating a ticket.
type TicketParams struct {
	Title       string
	Description string
	Image       string
	Priority    Priority
}

// NewTicket builds a fresh ticket for the given creator. Status starts at
// StatusNew, the creation date is now, and the ticket number is drawn at
// random from [0, TicketNumberRange).
func NewTicket(params TicketParams, creatorID string) *Ticket {
	return &Ticket{
		ID:          uuid.NewString(),
		UserID:      creatorID,
		Date:        time.Now().UTC(),
		Title:       params.Title,
		Number:      rand.IntN(TicketNumberRange),
		Description: params.Description,
		Image:       params.Image,
		Priority:    params.Priority,
		Status:      StatusNew,
	}
}

// ApplyUpdate overwrites the mutable fields of t from params. Identity,
// creation date, number and status are left untouched; an existing assignee
// wins over the submitted one.
func (t *Ticket) ApplyUpdate(params TicketParams, submittedAssigneeID string) {
	t.Title = params.Title
	t.Description = params.Description
	t.Image = params.Image
	t.Priority = params.Priority
	if t.AssignedUserID == "" {
		t.AssignedUserID = submittedAssigneeID
	}
}

// IsOwnedBy reports whether the ticket was created by the given user.
func (t *Ticket) IsOwnedBy(userID string) bool {
	return t.UserID == userID
}

// IsAssignedTo reports whether the ticket is assigned to the given user.
func (t *Ticket) IsAssignedTo(userID string) bool {
	return t.AssignedUserID != "" && t.AssignedUserID == userID
}
