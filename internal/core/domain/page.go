package domain

// TicketPage is one page of a ticket listing plus the metadata needed to
// compute total pages. Page indexes are zero-based.
type TicketPage struct {
	Tickets    []*Ticket
	Page       int
	Size       int
	TotalCount int64
	TotalPages int
}

// NewTicketPage assembles a page from a result slice and the total row count.
func NewTicketPage(tickets []*Ticket, page, size int, totalCount int64) *TicketPage {
	totalPages := 0
	if size > 0 {
		totalPages = int((totalCount + int64(size) - 1) / int64(size))
	}
	return &TicketPage{
		Tickets:    tickets,
		Page:       page,
		Size:       size,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
