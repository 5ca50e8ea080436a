package domain

// Status represents the lifecycle state of a ticket.
type Status string

const (
	StatusNew         Status = "NEW"
	StatusAssigned    Status = "ASSIGNED"
	StatusResolved    Status = "RESOLVED"
	StatusApproved    Status = "APPROVED"
	StatusDisapproved Status = "DISAPPROVED"
	StatusClosed      Status = "CLOSED"
)

// AssignmentLabel is the transition label that also assigns the acting user
// to the ticket.
const AssignmentLabel = "Assigned"

// AllStatuses lists every status in summary order.
var AllStatuses = []Status{
	StatusNew,
	StatusResolved,
	StatusApproved,
	StatusDisapproved,
	StatusAssigned,
	StatusClosed,
}

// ParseStatusLabel maps an external status label to a Status. The mapping is
// total and case-sensitive: the five recognized labels map to their status,
// and every other input (including the empty string) maps to StatusNew. There
// is deliberately no "New" label.
func ParseStatusLabel(label string) Status {
	switch label {
	case "Resolved":
		return StatusResolved
	case "Approved":
		return StatusApproved
	case "Disapproved":
		return StatusDisapproved
	case "Assigned":
		return StatusAssigned
	case "Closed":
		return StatusClosed
	default:
		return StatusNew
	}
}

// IsValid reports whether s is one of the six known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusAssigned, StatusResolved, StatusApproved, StatusDisapproved, StatusClosed:
		return true
	}
	return false
}
