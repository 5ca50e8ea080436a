package services

import (
	"context"
	"log/slog"

	"github.com/helpdesk-io/helpdesk-backend/internal/core/domain"
	"github.com/helpdesk-io/helpdesk-backend/internal/core/ports"
)

// SummaryService implements the summary aggregator: one scan over the whole
// store yielding a counter per status, optionally fronted by a short-lived
// cache.
type SummaryService struct {
	ticketRepo ports.TicketRepository
	cache      ports.SummaryCache
	logger     *slog.Logger
}

var _ ports.SummaryService = (*SummaryService)(nil)

// NewSummaryService creates a new summary service. The cache may be nil.
func NewSummaryService(ticketRepo ports.TicketRepository, cache ports.SummaryCache, logger *slog.Logger) *SummaryService {
	return &SummaryService{
		ticketRepo: ticketRepo,
		cache:      cache,
		logger:     logger.With("service", "summary"),
	}
}

// Summarize returns the six per-status ticket counts. Every counter is
// present even over an empty store. Cache failures are logged and the store
// is consulted directly.
func (s *SummaryService) Summarize(ctx context.Context) (*domain.Summary, error) {
	if s.cache != nil {
		summary, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("summary cache read failed", "error", err)
		} else if summary != nil {
			return summary, nil
		}
	}

	counts, err := s.ticketRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	summary := domain.SummaryFromCounts(counts)

	if s.cache != nil {
		if err := s.cache.Set(ctx, summary); err != nil {
			s.logger.Warn("summary cache write failed", "error", err)
		}
	}

	return summary, nil
}
