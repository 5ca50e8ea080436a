package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	mw "github.com/helpdesk-io/helpdesk-backend/internal/adapters/primary/http/middleware"
	"github.com/helpdesk-io/helpdesk-backend/internal/auth"
	"github.com/helpdesk-io/helpdesk-backend/internal/core/domain"
	apperrors "github.com/helpdesk-io/helpdesk-backend/internal/core/errors"
	"github.com/helpdesk-io/helpdesk-backend/internal/core/ports"
)

// TicketHandler handles HTTP requests for tickets
type TicketHandler struct {
	ticketService  ports.TicketService
	queryService   ports.QueryService
	summaryService ports.SummaryService
	logger         *slog.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(
	ticketService ports.TicketService,
	queryService ports.QueryService,
	summaryService ports.SummaryService,
	logger *slog.Logger,
) *TicketHandler {
	return &TicketHandler{
		ticketService:  ticketService,
		queryService:   queryService,
		summaryService: summaryService,
		logger:         logger.With("handler", "ticket"),
	}
}

// Router sets up a new chi Router for all ticket-related routes.
func (h *TicketHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all ticket endpoints. The listing
// routes carry their parameters as path segments, so they are distinguished
// from the id routes by segment count alone.
func (h *TicketHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleCreateTicket)
	r.Put("/", h.HandleUpdateTicket)

	r.Get("/summary", h.HandleSummary)

	r.Get("/{id}", h.HandleGetTicket)
	r.Delete("/{id}", h.HandleDeleteTicket)
	r.Put("/{id}/{status}", h.HandleTransition)

	r.Get("/{page}/{count}", h.HandleListTickets)
	r.Get("/{page}/{count}/{number}/{title}/{status}/{priority}/{assigned}", h.HandleListFiltered)
}

// --- Request/Response DTOs ---

// TicketRequest defines the expected JSON body for creating and updating a
// ticket. Status, user, date and number are deliberately absent: the server
// owns those fields and discards anything a client submits for them.
type TicketRequest struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Image          string `json:"image"`
	Priority       string `json:"priority"`
	AssignedUserID string `json:"assignedUserId"`
}

// TicketDTO defines the JSON response for tickets.
type TicketDTO struct {
	ID             string      `json:"id"`
	UserID         string      `json:"userId"`
	Date           string      `json:"date"`
	Title          string      `json:"title"`
	Number         int         `json:"number"`
	AssignedUserID string      `json:"assignedUserId"`
	Description    string      `json:"description"`
	Image          string      `json:"image"`
	Priority       string      `json:"priority"`
	Status         string      `json:"status"`
	Changes        []ChangeDTO `json:"changes,omitempty"`
}

// ChangeDTO defines the JSON response for a status change record.
type ChangeDTO struct {
	ID       string `json:"id"`
	TicketID string `json:"ticketId,omitempty"`
	UserID   string `json:"userId"`
	Date     string `json:"date"`
	Status   string `json:"status"`
}

// PageDTO defines the JSON response for a paginated listing.
type PageDTO struct {
	Content       []TicketDTO `json:"content"`
	Page          int         `json:"page"`
	Size          int         `json:"size"`
	TotalElements int64       `json:"totalElements"`
	TotalPages    int         `json:"totalPages"`
}

func toTicketDTO(ticket *domain.Ticket) TicketDTO {
	dto := TicketDTO{
		ID:             ticket.ID,
		UserID:         ticket.UserID,
		Date:           ticket.Date.Format(time.RFC3339),
		Title:          ticket.Title,
		Number:         ticket.Number,
		AssignedUserID: ticket.AssignedUserID,
		Description:    ticket.Description,
		Image:          ticket.Image,
		Priority:       string(ticket.Priority),
		Status:         string(ticket.Status),
	}
	for _, change := range ticket.Changes {
		dto.Changes = append(dto.Changes, ChangeDTO{
			ID:       change.ID,
			TicketID: change.TicketID,
			UserID:   change.UserID,
			Date:     change.Date.Format(time.RFC3339),
			Status:   string(change.Status),
		})
	}
	return dto
}

func toPageDTO(page *domain.TicketPage) PageDTO {
	content := make([]TicketDTO, 0, len(page.Tickets))
	for _, ticket := range page.Tickets {
		content = append(content, toTicketDTO(ticket))
	}
	return PageDTO{
		Content:       content,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalCount,
		TotalPages:    page.TotalPages,
	}
}

// --- Handlers ---

// HandleCreateTicket handles POST /ticket
func (h *TicketHandler) HandleCreateTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeTicketRequest(w, r)
	if !ok {
		return
	}

	ticket, err := h.ticketService.Create(r.Context(), ports.CreateTicketParams{
		Ticket: domain.TicketParams{
			Title:       req.Title,
			Description: req.Description,
			Image:       req.Image,
			Priority:    domain.Priority(req.Priority),
		},
		Caller: callerFromClaims(claims),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	h.logger.Info("ticket created",
		"ticket_id", ticket.ID,
		"number", ticket.Number,
		"user_id", claims.UserID,
	)

	WriteData(w, http.StatusCreated, toTicketDTO(ticket))
}

// HandleUpdateTicket handles PUT /ticket
func (h *TicketHandler) HandleUpdateTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeTicketRequest(w, r)
	if !ok {
		return
	}

	ticket, err := h.ticketService.Update(r.Context(), ports.UpdateTicketParams{
		ID: req.ID,
		Ticket: domain.TicketParams{
			Title:       req.Title,
			Description: req.Description,
			Image:       req.Image,
			Priority:    domain.Priority(req.Priority),
		},
		AssignedUserID: req.AssignedUserID,
		Caller:         callerFromClaims(claims),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	h.logger.Info("ticket updated",
		"ticket_id", ticket.ID,
		"user_id", claims.UserID,
	)

	WriteData(w, http.StatusOK, toTicketDTO(ticket))
}

// HandleGetTicket handles GET /ticket/{id}
func (h *TicketHandler) HandleGetTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	ticket, err := h.ticketService.GetByID(r.Context(), chi.URLParam(r, "id"), callerFromClaims(claims))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteData(w, http.StatusOK, toTicketDTO(ticket))
}

// HandleDeleteTicket handles DELETE /ticket/{id}
func (h *TicketHandler) HandleDeleteTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.ticketService.Delete(r.Context(), id, callerFromClaims(claims)); err != nil {
		WriteError(w, err)
		return
	}

	h.logger.Info("ticket deleted",
		"ticket_id", id,
		"user_id", claims.UserID,
	)

	WriteData(w, http.StatusOK, nil)
}

// HandleTransition handles PUT /ticket/{id}/{status}
func (h *TicketHandler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	status := chi.URLParam(r, "status")

	ticket, err := h.ticketService.Transition(r.Context(), ports.TransitionParams{
		ID:          id,
		StatusLabel: status,
		Caller:      callerFromClaims(claims),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	h.logger.Info("ticket status changed",
		"ticket_id", id,
		"status_label", status,
		"new_status", ticket.Status,
		"user_id", claims.UserID,
	)

	WriteData(w, http.StatusOK, toTicketDTO(ticket))
}

// HandleListTickets handles GET /ticket/{page}/{count}
func (h *TicketHandler) HandleListTickets(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	pagination, err := h.parsePagination(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	page, err := h.queryService.List(r.Context(), ports.ListTicketsParams{
		Page:   pagination,
		Caller: callerFromClaims(claims),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteData(w, http.StatusOK, toPageDTO(page))
}

// HandleListFiltered handles
// GET /ticket/{page}/{count}/{number}/{title}/{status}/{priority}/{assigned}
func (h *TicketHandler) HandleListFiltered(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	pagination, err := h.parsePagination(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		WriteErrors(w, http.StatusBadRequest, []string{"Invalid ticket number"})
		return
	}

	assigned, _ := strconv.ParseBool(chi.URLParam(r, "assigned"))

	page, err := h.queryService.ListFiltered(r.Context(), ports.ListFilteredParams{
		Page:     pagination,
		Number:   number,
		Title:    chi.URLParam(r, "title"),
		Status:   chi.URLParam(r, "status"),
		Priority: chi.URLParam(r, "priority"),
		Assigned: assigned,
		Caller:   callerFromClaims(claims),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteData(w, http.StatusOK, toPageDTO(page))
}

// HandleSummary handles GET /ticket/summary
func (h *TicketHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getClaims(w, r); !ok {
		return
	}

	summary, err := h.summaryService.Summarize(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteData(w, http.StatusOK, summary)
}

// --- Helper methods ---

// getClaims extracts the verified claims placed in the context by the JWT
// middleware.
func (h *TicketHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteErrors(w, http.StatusUnauthorized, []string{"Not authorized"})
		return nil, false
	}
	return claims, true
}

func (h *TicketHandler) decodeTicketRequest(w http.ResponseWriter, r *http.Request) (*TicketRequest, bool) {
	var req TicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteErrors(w, http.StatusBadRequest, []string{"Invalid request body"})
		return nil, false
	}
	return &req, true
}

// parsePagination reads the zero-based page index and page size from the URL.
func (h *TicketHandler) parsePagination(r *http.Request) (ports.Pagination, error) {
	v := apperrors.NewValidationErrors()

	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page < 0 {
		v.Add("Invalid page index")
	}

	size, err := strconv.Atoi(chi.URLParam(r, "count"))
	if err != nil || size <= 0 {
		v.Add("Invalid page size")
	}

	if v.HasErrors() {
		return ports.Pagination{}, v
	}
	return ports.Pagination{Page: page, Size: size}, nil
}

func callerFromClaims(claims *auth.Claims) ports.Caller {
	return ports.Caller{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}
}
