package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk-io/helpdesk-backend/internal/core/domain"
	apperrors "github.com/helpdesk-io/helpdesk-backend/internal/core/errors"
	"github.com/helpdesk-io/helpdesk-backend/internal/core/mocks"
	"github.com/helpdesk-io/helpdesk-backend/internal/core/ports"
)

func TestQueryService_List_TechnicianSeesWholeStore(t *testing.T) {
	repo := mocks.NewMockTicketRepository()
	s := NewQueryService(repo)

	page := ports.Pagination{Page: 1, Size: 5}
	repo.On("List", mock.Anything, page).Return([]*domain.Ticket{{ID: "t-1"}}, int64(11), nil)

	result, err := s.List(context.Background(), ports.ListTicketsParams{
		Page:   page,
		Caller: technician(),
	})

	require.NoError(t, err)
	assert.EqualValues(t, 11, result.TotalCount)
	assert.Equal(t, 3, result.TotalPages)
	repo.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestQueryService_List_CustomerSeesOwnTickets(t *testing.T) {
	repo := mocks.NewMockTicketRepository()
	s := NewQueryService(repo)

	page := ports.Pagination{Page: 0, Size: 10}
	repo.On("ListByUser", mock.Anything, "cust-1", page).Return([]*domain.Ticket{}, int64(0), nil)

	_, err := s.List(context.Background(), ports.ListTicketsParams{
		Page:   page,
		Caller: customer(),
	})

	require.NoError(t, err)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestQueryService_List_AdminForbidden(t *testing.T) {
	s := NewQueryService(mocks.NewMockTicketRepository())

	_, err := s.List(context.Background(), ports.ListTicketsParams{
		Caller: ports.Caller{UserID: "a-1", Role: domain.RoleAdmin},
	})

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestQueryService_ListFiltered_NumberShortCircuits(t *testing.T) {
	repo := mocks.NewMockTicketRepository()
	s := NewQueryService(repo)

	page := ports.Pagination{Page: 0, Size: 10}
	repo.On("ListByNumber", mock.Anything, 42, page).Return([]*domain.Ticket{{ID: "t-1"}}, int64(1), nil)

	_, err := s.ListFiltered(context.Background(), ports.ListFilteredParams{
		Page:   page,
		Number: 42,
		// These would otherwise constrain the query; the number wins.
		Title:  "vpn",
		Status: "RESOLVED",
		Caller: technician(),
	})

	require.NoError(t, err)
	repo.AssertNotCalled(t, "ListFiltered", mock.Anything, mock.Anything, mock.Anything)
}

func TestQueryService_ListFiltered_SentinelsUnconstrain(t *testing.T) {
	repo := mocks.NewMockTicketRepository()
	s := NewQueryService(repo)

	page := ports.Pagination{Page: 0, Size: 10}
	repo.On("ListFiltered", mock.Anything, ports.TicketFilter{
		Title:    "",
		Status:   "",
		Priority: "",
	}, page).Return([]*domain.Ticket{}, int64(0), nil)

	_, err := s.ListFiltered(context.Background(), ports.ListFilteredParams{
		Page:     page,
		Title:    FilterSentinel,
		Status:   FilterSentinel,
		Priority: FilterSentinel,
		Caller:   technician(),
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestQueryService_ListFiltered_TechnicianAssignedFlag(t *testing.T) {
	repo := mocks.NewMockTicketRepository()
	s := NewQueryService(repo)

	page := ports.Pagination{Page: 0, Size: 10}
	repo.On("ListFiltered", mock.Anything, ports.TicketFilter{
		Title:          "vpn",
		AssignedUserID: "tech-1",
	}, page).Return([]*domain.Ticket{}, int64(0), nil)

	_, err := s.ListFiltered(context.Background(), ports.ListFilteredParams{
		Page:     page,
		Title:    "vpn",
		Status:   FilterSentinel,
		Priority: FilterSentinel,
		Assigned: true,
		Caller:   technician(),
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestQueryService_ListFiltered_CustomerAlwaysConstrainedToSelf(t *testing.T) {
	repo := mocks.NewMockTicketRepository()
	s := NewQueryService(repo)

	page := ports.Pagination{Page: 0, Size: 10}
	repo.On("ListFiltered", mock.Anything, ports.TicketFilter{
		AssignedUserID: "cust-1",
	}, page).Return([]*domain.Ticket{}, int64(0), nil)

	// Even without the assigned flag, a customer's filtered view is pinned
	// to tickets assigned to them.
	_, err := s.ListFiltered(context.Background(), ports.ListFilteredParams{
		Page:     page,
		Title:    FilterSentinel,
		Status:   FilterSentinel,
		Priority: FilterSentinel,
		Caller:   customer(),
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
