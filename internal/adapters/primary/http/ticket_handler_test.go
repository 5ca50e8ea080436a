package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mw "github.com/helpdesk-io/helpdesk-backend/internal/adapters/primary/http/middleware"
	"github.com/helpdesk-io/helpdesk-backend/internal/auth"
	"github.com/helpdesk-io/helpdesk-backend/internal/core/domain"
	apperrors "github.com/helpdesk-io/helpdesk-backend/internal/core/errors"
	"github.com/helpdesk-io/helpdesk-backend/internal/core/mocks"
	"github.com/helpdesk-io/helpdesk-backend/internal/core/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTicketRouter mounts the handler behind a stub middleware that injects
// the given claims, standing in for the JWT middleware.
func newTicketRouter(h *TicketHandler, claims *auth.Claims) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
			ctx := context.WithValue(req.Context(), mw.UserClaimsKey, claims)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.RegisterRoutes(r)
	return r
}

func customerClaims() *auth.Claims {
	return &auth.Claims{
		UserID: "cust-1",
		Email:  "customer@helpdesk.local",
		Role:   domain.RoleCustomer,
	}
}

func decodeResponse(t *testing.T, body io.Reader) (map[string]any, []any) {
	t.Helper()
	var envelope struct {
		Data   any      `json:"data"`
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&envelope))

	data, _ := envelope.Data.(map[string]any)
	errs := make([]any, 0, len(envelope.Errors))
	for _, e := range envelope.Errors {
		errs = append(errs, e)
	}
	return data, errs
}

func TestTicketHandler_Create(t *testing.T) {
	ticketService := mocks.NewMockTicketService()
	h := NewTicketHandler(ticketService, mocks.NewMockQueryService(), mocks.NewMockSummaryService(), discardLogger())

	created := domain.NewTicket(domain.TicketParams{
		Title:    "Laptop will not boot",
		Priority: domain.PriorityHigh,
	}, "cust-1")

	ticketService.On("Create", mock.Anything, mock.MatchedBy(func(p ports.CreateTicketParams) bool {
		return p.Ticket.Title == "Laptop will not boot" && p.Caller.UserID == "cust-1"
	})).Return(created, nil)

	router := newTicketRouter(h, customerClaims())
	req := httptest.NewRequest(stdhttp.MethodPost, "/", strings.NewReader(
		`{"title":"Laptop will not boot","priority":"HIGH"}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusCreated, rec.Code)
	data, errs := decodeResponse(t, rec.Body)
	assert.Empty(t, errs)
	assert.Equal(t, "Laptop will not boot", data["title"])
	assert.Equal(t, "NEW", data["status"])
	ticketService.AssertExpectations(t)
}

func TestTicketHandler_Create_MissingTitle(t *testing.T) {
	ticketService := mocks.NewMockTicketService()
	h := NewTicketHandler(ticketService, mocks.NewMockQueryService(), mocks.NewMockSummaryService(), discardLogger())

	v := apperrors.NewValidationErrors()
	v.Add(apperrors.MsgTitleRequired)
	ticketService.On("Create", mock.Anything, mock.Anything).Return(nil, v)

	router := newTicketRouter(h, customerClaims())
	req := httptest.NewRequest(stdhttp.MethodPost, "/", strings.NewReader(`{"description":"no title"}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	data, errs := decodeResponse(t, rec.Body)
	assert.Nil(t, data)
	assert.Equal(t, []any{"Title no information"}, errs)
}

func TestTicketHandler_Get_NotFound(t *testing.T) {
	ticketService := mocks.NewMockTicketService()
	h := NewTicketHandler(ticketService, mocks.NewMockQueryService(), mocks.NewMockSummaryService(), discardLogger())

	ticketService.On("GetByID", mock.Anything, "abc123", mock.Anything).
		Return(nil, apperrors.NewNotFound("abc123"))

	router := newTicketRouter(h, customerClaims())
	req := httptest.NewRequest(stdhttp.MethodGet, "/abc123", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	_, errs := decodeResponse(t, rec.Body)
	assert.Equal(t, []any{"Register not found id:abc123"}, errs)
}

func TestTicketHandler_Transition(t *testing.T) {
	ticketService := mocks.NewMockTicketService()
	h := NewTicketHandler(ticketService, mocks.NewMockQueryService(), mocks.NewMockSummaryService(), discardLogger())

	moved := domain.NewTicket(domain.TicketParams{Title: "Printer"}, "cust-1")
	moved.Status = domain.StatusResolved

	ticketService.On("Transition", mock.Anything, mock.MatchedBy(func(p ports.TransitionParams) bool {
		return p.ID == moved.ID && p.StatusLabel == "Resolved"
	})).Return(moved, nil)

	router := newTicketRouter(h, customerClaims())
	req := httptest.NewRequest(stdhttp.MethodPut, "/"+moved.ID+"/Resolved", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	data, _ := decodeResponse(t, rec.Body)
	assert.Equal(t, "RESOLVED", data["status"])
}

func TestTicketHandler_Transition_Forbidden(t *testing.T) {
	ticketService := mocks.NewMockTicketService()
	h := NewTicketHandler(ticketService, mocks.NewMockQueryService(), mocks.NewMockSummaryService(), discardLogger())

	ticketService.On("Transition", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrForbidden)

	claims := customerClaims()
	claims.Role = domain.RoleAdmin

	router := newTicketRouter(h, claims)
	req := httptest.NewRequest(stdhttp.MethodPut, "/some-id/Resolved", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, stdhttp.StatusForbidden, rec.Code)
}

func TestTicketHandler_List(t *testing.T) {
	queryService := mocks.NewMockQueryService()
	h := NewTicketHandler(mocks.NewMockTicketService(), queryService, mocks.NewMockSummaryService(), discardLogger())

	tickets := []*domain.Ticket{
		domain.NewTicket(domain.TicketParams{Title: "One"}, "cust-1"),
		domain.NewTicket(domain.TicketParams{Title: "Two"}, "cust-1"),
	}
	queryService.On("List", mock.Anything, mock.MatchedBy(func(p ports.ListTicketsParams) bool {
		return p.Page.Page == 0 && p.Page.Size == 10
	})).Return(domain.NewTicketPage(tickets, 0, 10, 2), nil)

	router := newTicketRouter(h, customerClaims())
	req := httptest.NewRequest(stdhttp.MethodGet, "/0/10", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	data, _ := decodeResponse(t, rec.Body)
	assert.EqualValues(t, 2, data["totalElements"])
	assert.EqualValues(t, 1, data["totalPages"])
}

func TestTicketHandler_ListFiltered_PassesSentinels(t *testing.T) {
	queryService := mocks.NewMockQueryService()
	h := NewTicketHandler(mocks.NewMockTicketService(), queryService, mocks.NewMockSummaryService(), discardLogger())

	queryService.On("ListFiltered", mock.Anything, mock.MatchedBy(func(p ports.ListFilteredParams) bool {
		return p.Number == 0 &&
			p.Title == "uninformed" &&
			p.Status == "uninformed" &&
			p.Priority == "uninformed" &&
			!p.Assigned
	})).Return(domain.NewTicketPage(nil, 0, 10, 0), nil)

	router := newTicketRouter(h, customerClaims())
	req := httptest.NewRequest(stdhttp.MethodGet, "/0/10/0/uninformed/uninformed/uninformed/false", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	queryService.AssertExpectations(t)
}

func TestTicketHandler_List_InvalidPagination(t *testing.T) {
	h := NewTicketHandler(mocks.NewMockTicketService(), mocks.NewMockQueryService(), mocks.NewMockSummaryService(), discardLogger())

	router := newTicketRouter(h, customerClaims())
	req := httptest.NewRequest(stdhttp.MethodGet, "/abc/10", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	_, errs := decodeResponse(t, rec.Body)
	assert.Equal(t, []any{"Invalid page index"}, errs)
}

func TestTicketHandler_Summary(t *testing.T) {
	summaryService := mocks.NewMockSummaryService()
	h := NewTicketHandler(mocks.NewMockTicketService(), mocks.NewMockQueryService(), summaryService, discardLogger())

	summaryService.On("Summarize", mock.Anything).Return(domain.SummaryFromCounts(map[domain.Status]int64{
		domain.StatusNew:      2,
		domain.StatusResolved: 1,
	}), nil)

	router := newTicketRouter(h, customerClaims())
	req := httptest.NewRequest(stdhttp.MethodGet, "/summary", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	data, _ := decodeResponse(t, rec.Body)
	assert.EqualValues(t, 2, data["amountNew"])
	assert.EqualValues(t, 1, data["amountResolved"])
	assert.EqualValues(t, 0, data["amountClosed"])
}

func TestTicketHandler_Delete(t *testing.T) {
	ticketService := mocks.NewMockTicketService()
	h := NewTicketHandler(ticketService, mocks.NewMockQueryService(), mocks.NewMockSummaryService(), discardLogger())

	ticketService.On("Delete", mock.Anything, "tick-1", mock.Anything).Return(nil)

	router := newTicketRouter(h, customerClaims())
	req := httptest.NewRequest(stdhttp.MethodDelete, "/tick-1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, stdhttp.StatusOK, rec.Code)
	ticketService.AssertExpectations(t)
}
