package service

import (
	"context"

	"github.com/spec-kit/support-crm/internal/domain"
	"github.com/spec-kit/support-crm/internal/repository"
	apperrors "github.com/spec-kit/support-crm/pkg/util"
)

// AnalyticsService aggregates dashboard numbers. Every call hits the
// database; counts are always current.
type AnalyticsService struct {
	analytics repository.AnalyticsRepository
}

// TicketSummary is the dashboard headline block.
type TicketSummary struct {
	TotalTickets      int64 `json:"totalTickets"`
	OpenTickets       int64 `json:"openTickets"`
	InProgressTickets int64 `json:"inProgressTickets"`
	ResolvedTickets   int64 `json:"resolvedTickets"`
	ClosedTickets     int64 `json:"closedTickets"`
	TotalTechnicians  int64 `json:"totalTechnicians"`
	TotalStaff        int64 `json:"totalStaff"`
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(analytics repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analytics: analytics}
}

// Summary computes headline ticket and headcount totals.
func (s *AnalyticsService) Summary(ctx context.Context) (*TicketSummary, error) {
	byStatus, err := s.analytics.CountTicketsByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	total, err := s.analytics.CountTickets(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	technicians, err := s.analytics.CountUsersByRole(ctx, domain.RoleTechnician)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	staff, err := s.analytics.CountUsersByRole(ctx, domain.RoleStaff)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &TicketSummary{
		TotalTickets:      total,
		OpenTickets:       byStatus[domain.TicketStatusOpen],
		InProgressTickets: byStatus[domain.TicketStatusInProgress],
		ResolvedTickets:   byStatus[domain.TicketStatusResolved],
		ClosedTickets:     byStatus[domain.TicketStatusClosed],
		TotalTechnicians:  technicians,
		TotalStaff:        staff,
	}, nil
}

// TicketsPerTechnician returns the assignee workload distribution.
func (s *AnalyticsService) TicketsPerTechnician(ctx context.Context) ([]repository.TechnicianLoad, error) {
	loads, err := s.analytics.TicketsPerTechnician(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return loads, nil
}
