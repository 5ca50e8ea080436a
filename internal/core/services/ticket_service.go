package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/helpdesk-io/helpdesk-backend/internal/core/domain"
	apperrors "github.com/helpdesk-io/helpdesk-backend/internal/core/errors"
	"github.com/helpdesk-io/helpdesk-backend/internal/core/ports"
)

// TicketService implements the ticket store: it owns ticket records, applies
// lifecycle transitions and records each transition in the change ledger.
type TicketService struct {
	ticketRepo   ports.TicketRepository
	changeRepo   ports.ChangeRepository
	notifier     ports.Notifier
	broadcaster  ports.EventBroadcaster
	summaryCache ports.SummaryCache
	logger       *slog.Logger
	wg           sync.WaitGroup
}

var _ ports.TicketService = (*TicketService)(nil)

// NewTicketService creates a new ticket service.
func NewTicketService(
	ticketRepo ports.TicketRepository,
	changeRepo ports.ChangeRepository,
	notifier ports.Notifier,
	broadcaster ports.EventBroadcaster,
	summaryCache ports.SummaryCache,
	logger *slog.Logger,
) *TicketService {
	return &TicketService{
		ticketRepo:   ticketRepo,
		changeRepo:   changeRepo,
		notifier:     notifier,
		broadcaster:  broadcaster,
		summaryCache: summaryCache,
		logger:       logger.With("service", "ticket"),
	}
}

// Create validates and persists a new ticket for the calling customer.
func (s *TicketService) Create(ctx context.Context, params ports.CreateTicketParams) (*domain.Ticket, error) {
	if err := requireRole(params.Caller.Role, domain.RoleCustomer); err != nil {
		return nil, err
	}

	v := apperrors.NewValidationErrors()
	if params.Ticket.Title == "" {
		v.Add(apperrors.MsgTitleRequired)
	}
	if v.HasErrors() {
		return nil, v
	}

	ticket := domain.NewTicket(params.Ticket, params.Caller.UserID)
	return s.ticketRepo.Save(ctx, ticket)
}

// Update overwrites the mutable fields of an existing ticket. The stored
// status, creator, creation date and number always win over anything the
// caller submitted, and an already-set assignee is preserved.
func (s *TicketService) Update(ctx context.Context, params ports.UpdateTicketParams) (*domain.Ticket, error) {
	if err := requireRole(params.Caller.Role, domain.RoleCustomer); err != nil {
		return nil, err
	}

	v := apperrors.NewValidationErrors()
	if params.ID == "" {
		v.Add(apperrors.MsgIDRequired)
		return nil, v
	}
	if params.Ticket.Title == "" {
		v.Add(apperrors.MsgTitleRequired)
	}
	if v.HasErrors() {
		return nil, v
	}

	current, err := s.ticketRepo.GetByID(ctx, params.ID)
	if err != nil {
		return nil, err
	}

	current.ApplyUpdate(params.Ticket, params.AssignedUserID)
	return s.ticketRepo.Save(ctx, current)
}

// Transition moves a ticket to the status named by the label and appends a
// change record. The "Assigned" label additionally assigns the acting user.
//
// The status write and the ledger append are two separate single-row writes,
// not one transaction: when the append fails after the ticket was persisted,
// the status has still visibly moved and the error is surfaced to the caller.
func (s *TicketService) Transition(ctx context.Context, params ports.TransitionParams) (*domain.Ticket, error) {
	if err := requireRole(params.Caller.Role, domain.RoleCustomer, domain.RoleTechnician); err != nil {
		return nil, err
	}

	v := apperrors.NewValidationErrors()
	if params.ID == "" {
		v.Add(apperrors.MsgIDRequired)
		return nil, v
	}
	if params.StatusLabel == "" {
		v.Add(apperrors.MsgStatusRequired)
	}
	if v.HasErrors() {
		return nil, v
	}

	ticket, err := s.ticketRepo.GetByID(ctx, params.ID)
	if err != nil {
		return nil, err
	}

	ticket.Status = domain.ParseStatusLabel(params.StatusLabel)
	if params.StatusLabel == domain.AssignmentLabel {
		ticket.AssignedUserID = params.Caller.UserID
	}

	persisted, err := s.ticketRepo.Save(ctx, ticket)
	if err != nil {
		return nil, err
	}

	change := domain.NewChange(persisted.ID, params.Caller.UserID, persisted.Status)
	if _, err := s.changeRepo.Append(ctx, change); err != nil {
		// The status write already happened; report the ledger failure.
		return nil, err
	}

	s.invalidateSummary(ctx)

	if persisted.UserID != params.Caller.UserID {
		s.notifyStatusChange(persisted, params.Caller.UserID)
	}
	s.broadcastStatusChange(persisted, params.Caller.UserID, change)

	return persisted, nil
}

// Delete permanently removes a ticket. Its change history is not cascaded:
// orphaned changes stay retrievable by id.
func (s *TicketService) Delete(ctx context.Context, id string, caller ports.Caller) error {
	if err := requireRole(caller.Role, domain.RoleCustomer); err != nil {
		return err
	}

	if _, err := s.ticketRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.ticketRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateSummary(ctx)
	return nil
}

// GetByID retrieves a ticket with its change history attached, newest change
// first. The ticket back-reference is cleared on each returned change so the
// payload carries no cycle.
func (s *TicketService) GetByID(ctx context.Context, id string, caller ports.Caller) (*domain.Ticket, error) {
	if err := requireRole(caller.Role, domain.RoleCustomer, domain.RoleTechnician); err != nil {
		return nil, err
	}

	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes, err := s.changeRepo.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	for _, change := range changes {
		change.TicketID = ""
	}
	ticket.Changes = changes

	return ticket, nil
}

// Shutdown waits for in-flight background notifications to finish.
func (s *TicketService) Shutdown() {
	s.wg.Wait()
}

func (s *TicketService) invalidateSummary(ctx context.Context) {
	if s.summaryCache == nil {
		return
	}
	if err := s.summaryCache.Invalidate(ctx); err != nil {
		s.logger.Warn("summary cache invalidation failed", "error", err)
	}
}

// notifyStatusChange tells the ticket's creator about the move, off the
// request path.
func (s *TicketService) notifyStatusChange(ticket *domain.Ticket, actorID string) {
	if s.notifier == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// The HTTP request may be done by the time this runs.
		ctx := context.Background()

		s.notifier.Notify(ctx, ports.NotificationParams{
			RecipientUserID: ticket.UserID,
			Subject:         fmt.Sprintf("Your ticket status has been updated: #%d", ticket.Number),
			Message:         fmt.Sprintf("The status of your ticket '%s' was changed to %s.", ticket.Title, ticket.Status),
			TicketID:        ticket.ID,
		})
	}()
}

func (s *TicketService) broadcastStatusChange(ticket *domain.Ticket, actorID string, change *domain.Change) {
	if s.broadcaster == nil {
		return
	}
	event := domain.Event{
		Type:       domain.EventStatusChanged,
		TicketID:   ticket.ID,
		Number:     ticket.Number,
		Status:     ticket.Status,
		ActorID:    actorID,
		OccurredAt: change.Date,
	}
	if err := s.broadcaster.Broadcast(event); err != nil {
		s.logger.Warn("status change broadcast failed", "ticket_id", ticket.ID, "error", err)
	}
}
