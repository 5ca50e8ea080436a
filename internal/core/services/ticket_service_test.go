package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-io/helpdesk-backend/internal/core/domain"
	apperrors "github.com/helpdesk-io/helpdesk-backend/internal/core/errors"
	"github.com/helpdesk-io/helpdesk-backend/internal/core/mocks"
	"github.com/helpdesk-io/helpdesk-backend/internal/core/ports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type ticketServiceFixture struct {
	service     *TicketService
	ticketRepo  *mocks.MockTicketRepository
	changeRepo  *mocks.MockChangeRepository
	notifier    *mocks.MockNotifier
	broadcaster *mocks.MockEventBroadcaster
	cache       *mocks.MockSummaryCache
}

func newTicketServiceFixture() *ticketServiceFixture {
	f := &ticketServiceFixture{
		ticketRepo:  mocks.NewMockTicketRepository(),
		changeRepo:  mocks.NewMockChangeRepository(),
		notifier:    mocks.NewMockNotifier(),
		broadcaster: mocks.NewMockEventBroadcaster(),
		cache:       mocks.NewMockSummaryCache(),
	}
	f.service = NewTicketService(f.ticketRepo, f.changeRepo, f.notifier, f.broadcaster, f.cache, testLogger())
	return f
}

func customer() ports.Caller {
	return ports.Caller{UserID: "cust-1", Email: "customer@helpdesk.local", Role: domain.RoleCustomer}
}

func technician() ports.Caller {
	return ports.Caller{UserID: "tech-1", Email: "tech@helpdesk.local", Role: domain.RoleTechnician}
}

func TestTicketService_Create(t *testing.T) {
	f := newTicketServiceFixture()

	f.ticketRepo.On("Save", mock.Anything, mock.MatchedBy(func(tk *domain.Ticket) bool {
		return tk.Title == "VPN down" &&
			tk.UserID == "cust-1" &&
			tk.Status == domain.StatusNew &&
			tk.Number >= 0 && tk.Number < domain.TicketNumberRange
	})).Return(&domain.Ticket{ID: "t-1"}, nil)

	ticket, err := f.service.Create(context.Background(), ports.CreateTicketParams{
		Ticket: domain.TicketParams{Title: "VPN down", Priority: domain.PriorityHigh},
		Caller: customer(),
	})

	require.NoError(t, err)
	assert.Equal(t, "t-1", ticket.ID)
	f.ticketRepo.AssertExpectations(t)
}

func TestTicketService_Create_MissingTitle(t *testing.T) {
	f := newTicketServiceFixture()

	_, err := f.service.Create(context.Background(), ports.CreateTicketParams{
		Ticket: domain.TicketParams{Description: "no title"},
		Caller: customer(),
	})

	var v *apperrors.ValidationErrors
	require.ErrorAs(t, err, &v)
	assert.Equal(t, []string{"Title no information"}, v.Messages)
	f.ticketRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTicketService_Create_TechnicianForbidden(t *testing.T) {
	f := newTicketServiceFixture()

	_, err := f.service.Create(context.Background(), ports.CreateTicketParams{
		Ticket: domain.TicketParams{Title: "T"},
		Caller: technician(),
	})

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestTicketService_Update_PreservesStoredFields(t *testing.T) {
	f := newTicketServiceFixture()

	created := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	stored := &domain.Ticket{
		ID:             "t-1",
		UserID:         "cust-1",
		Date:           created,
		Title:          "Old title",
		Number:         77,
		AssignedUserID: "tech-1",
		Priority:       domain.PriorityLow,
		Status:         domain.StatusAssigned,
	}

	f.ticketRepo.On("GetByID", mock.Anything, "t-1").Return(stored, nil)
	f.ticketRepo.On("Save", mock.Anything, mock.MatchedBy(func(tk *domain.Ticket) bool {
		return tk.ID == "t-1" &&
			tk.Title == "New title" &&
			tk.UserID == "cust-1" &&
			tk.Date.Equal(created) &&
			tk.Number == 77 &&
			tk.Status == domain.StatusAssigned &&
			tk.AssignedUserID == "tech-1" // submitted assignee must not win
	})).Return(stored, nil)

	_, err := f.service.Update(context.Background(), ports.UpdateTicketParams{
		ID:             "t-1",
		Ticket:         domain.TicketParams{Title: "New title", Priority: domain.PriorityHigh},
		AssignedUserID: "someone-else",
		Caller:         customer(),
	})

	require.NoError(t, err)
	f.ticketRepo.AssertExpectations(t)
}

func TestTicketService_Update_MissingID(t *testing.T) {
	f := newTicketServiceFixture()

	// A missing id short-circuits before any other validation runs, so the
	// title is not reported even though it is also missing.
	_, err := f.service.Update(context.Background(), ports.UpdateTicketParams{
		Caller: customer(),
	})

	var v *apperrors.ValidationErrors
	require.ErrorAs(t, err, &v)
	assert.Equal(t, []string{"Id no information"}, v.Messages)
}

func TestTicketService_Transition(t *testing.T) {
	f := newTicketServiceFixture()

	stored := &domain.Ticket{ID: "t-1", UserID: "cust-1", Number: 12, Status: domain.StatusNew}

	f.ticketRepo.On("GetByID", mock.Anything, "t-1").Return(stored, nil)
	f.ticketRepo.On("Save", mock.Anything, mock.MatchedBy(func(tk *domain.Ticket) bool {
		return tk.Status == domain.StatusResolved
	})).Return(stored, nil)
	f.changeRepo.On("Append", mock.Anything, mock.MatchedBy(func(c *domain.Change) bool {
		return c.TicketID == "t-1" && c.UserID == "tech-1" && c.Status == domain.StatusResolved
	})).Return(&domain.Change{}, nil)
	f.cache.On("Invalidate", mock.Anything).Return(nil)
	f.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(p ports.NotificationParams) bool {
		return p.RecipientUserID == "cust-1" && p.TicketID == "t-1"
	})).Return()
	f.broadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
		return e.Type == domain.EventStatusChanged && e.TicketID == "t-1" && e.ActorID == "tech-1"
	})).Return(nil)

	_, err := f.service.Transition(context.Background(), ports.TransitionParams{
		ID:          "t-1",
		StatusLabel: "Resolved",
		Caller:      technician(),
	})

	require.NoError(t, err)
	f.service.Shutdown()
	f.changeRepo.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
	f.broadcaster.AssertExpectations(t)
}

func TestTicketService_Transition_AssignedLabelAssignsActor(t *testing.T) {
	f := newTicketServiceFixture()

	stored := &domain.Ticket{ID: "t-1", UserID: "cust-1", Status: domain.StatusNew}

	f.ticketRepo.On("GetByID", mock.Anything, "t-1").Return(stored, nil)
	f.ticketRepo.On("Save", mock.Anything, mock.MatchedBy(func(tk *domain.Ticket) bool {
		return tk.Status == domain.StatusAssigned && tk.AssignedUserID == "tech-1"
	})).Return(stored, nil)
	f.changeRepo.On("Append", mock.Anything, mock.Anything).Return(&domain.Change{}, nil)
	f.cache.On("Invalidate", mock.Anything).Return(nil)
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return()
	f.broadcaster.On("Broadcast", mock.Anything).Return(nil)

	_, err := f.service.Transition(context.Background(), ports.TransitionParams{
		ID:          "t-1",
		StatusLabel: domain.AssignmentLabel,
		Caller:      technician(),
	})

	require.NoError(t, err)
	f.service.Shutdown()
	f.ticketRepo.AssertExpectations(t)
}

func TestTicketService_Transition_UnknownLabelMapsToNew(t *testing.T) {
	f := newTicketServiceFixture()

	stored := &domain.Ticket{ID: "t-1", UserID: "cust-1", Status: domain.StatusClosed}

	f.ticketRepo.On("GetByID", mock.Anything, "t-1").Return(stored, nil)
	f.ticketRepo.On("Save", mock.Anything, mock.MatchedBy(func(tk *domain.Ticket) bool {
		return tk.Status == domain.StatusNew
	})).Return(stored, nil)
	f.changeRepo.On("Append", mock.Anything, mock.Anything).Return(&domain.Change{}, nil)
	f.cache.On("Invalidate", mock.Anything).Return(nil)
	f.broadcaster.On("Broadcast", mock.Anything).Return(nil)

	// Caller is the creator, so no notification goes out.
	_, err := f.service.Transition(context.Background(), ports.TransitionParams{
		ID:          "t-1",
		StatusLabel: "Reopened",
		Caller:      customer(),
	})

	require.NoError(t, err)
	f.service.Shutdown()
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestTicketService_Transition_MissingFields(t *testing.T) {
	f := newTicketServiceFixture()

	_, err := f.service.Transition(context.Background(), ports.TransitionParams{
		Caller: customer(),
	})
	var v *apperrors.ValidationErrors
	require.ErrorAs(t, err, &v)
	assert.Equal(t, []string{"Id no information"}, v.Messages)

	_, err = f.service.Transition(context.Background(), ports.TransitionParams{
		ID:     "t-1",
		Caller: customer(),
	})
	require.ErrorAs(t, err, &v)
	assert.Equal(t, []string{"Status no information"}, v.Messages)
}

func TestTicketService_Transition_UnknownTicket(t *testing.T) {
	f := newTicketServiceFixture()

	f.ticketRepo.On("GetByID", mock.Anything, "abc123").Return(nil, apperrors.NewNotFound("abc123"))

	_, err := f.service.Transition(context.Background(), ports.TransitionParams{
		ID:          "abc123",
		StatusLabel: "Resolved",
		Caller:      technician(),
	})

	require.Error(t, err)
	assert.Equal(t, "Register not found id:abc123", err.Error())
	f.changeRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestTicketService_Transition_LedgerAppendFailure(t *testing.T) {
	f := newTicketServiceFixture()

	stored := &domain.Ticket{ID: "t-1", UserID: "cust-1", Status: domain.StatusNew}

	f.ticketRepo.On("GetByID", mock.Anything, "t-1").Return(stored, nil)
	f.ticketRepo.On("Save", mock.Anything, mock.Anything).Return(stored, nil)
	f.changeRepo.On("Append", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	_, err := f.service.Transition(context.Background(), ports.TransitionParams{
		ID:          "t-1",
		StatusLabel: "Closed",
		Caller:      customer(),
	})

	// The error surfaces even though the status write went through.
	assert.ErrorIs(t, err, assert.AnError)
	f.broadcaster.AssertNotCalled(t, "Broadcast", mock.Anything)
}

func TestTicketService_Delete(t *testing.T) {
	f := newTicketServiceFixture()

	f.ticketRepo.On("GetByID", mock.Anything, "t-1").Return(&domain.Ticket{ID: "t-1"}, nil)
	f.ticketRepo.On("Delete", mock.Anything, "t-1").Return(nil)
	f.cache.On("Invalidate", mock.Anything).Return(nil)

	err := f.service.Delete(context.Background(), "t-1", customer())

	require.NoError(t, err)
	f.ticketRepo.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestTicketService_Delete_NotFound(t *testing.T) {
	f := newTicketServiceFixture()

	f.ticketRepo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NewNotFound("missing"))

	err := f.service.Delete(context.Background(), "missing", customer())

	assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	f.ticketRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestTicketService_GetByID_AttachesChanges(t *testing.T) {
	f := newTicketServiceFixture()

	later := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	f.ticketRepo.On("GetByID", mock.Anything, "t-1").Return(&domain.Ticket{ID: "t-1"}, nil)
	f.changeRepo.On("ListByTicket", mock.Anything, "t-1").Return([]*domain.Change{
		{ID: "c-2", TicketID: "t-1", Date: later, Status: domain.StatusClosed},
		{ID: "c-1", TicketID: "t-1", Date: earlier, Status: domain.StatusResolved},
	}, nil)

	ticket, err := f.service.GetByID(context.Background(), "t-1", technician())

	require.NoError(t, err)
	require.Len(t, ticket.Changes, 2)
	assert.Equal(t, "c-2", ticket.Changes[0].ID)
	// The back-reference is cleared on the attached records.
	assert.Empty(t, ticket.Changes[0].TicketID)
	assert.Empty(t, ticket.Changes[1].TicketID)
}

func TestRequireRole(t *testing.T) {
	assert.NoError(t, requireRole(domain.RoleCustomer, domain.RoleCustomer))
	assert.NoError(t, requireRole(domain.RoleTechnician, domain.RoleCustomer, domain.RoleTechnician))
	assert.ErrorIs(t, requireRole(domain.RoleAdmin, domain.RoleCustomer), apperrors.ErrForbidden)
	assert.ErrorIs(t, requireRole("", domain.RoleCustomer), apperrors.ErrForbidden)
}
