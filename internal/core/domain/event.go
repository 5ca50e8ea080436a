package domain

import "time"

// EventType identifies the kind of real-time event pushed to clients.
type EventType string

const (
	// EventStatusChanged is emitted after every successful status transition.
	EventStatusChanged EventType = "ticket.status_changed"
)

// Event is the payload broadcast to connected clients when a ticket moves.
type Event struct {
	Type       EventType `json:"type"`
	TicketID   string    `json:"ticketId"`
	Number     int       `json:"number"`
	Status     Status    `json:"status"`
	ActorID    string    `json:"actorId"`
	OccurredAt time.Time `json:"occurredAt"`
}
