package service

import (
	"context"

	"github.com/spec-kit/support-crm/internal/domain"
	"github.com/spec-kit/support-crm/internal/repository"
	apperrors "github.com/spec-kit/support-crm/pkg/util"
)

// ReportService produces filtered ticket listings with user references
// resolved to names for export views.
type ReportService struct {
	tickets repository.TicketRepository
	users   repository.UserRepository
}

// UserRef is a resolved user reference. A dangling id (deleted user) yields
// a ref with the id only.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// TicketReport is one report row.
type TicketReport struct {
	Ticket     domain.Ticket `json:"ticket"`
	AssignedTo UserRef       `json:"assignedTo"`
	CreatedBy  UserRef       `json:"createdBy"`
}

// NewReportService constructs the service.
func NewReportService(tickets repository.TicketRepository, users repository.UserRepository) *ReportService {
	return &ReportService{tickets: tickets, users: users}
}

// TicketReports lists tickets matching the filter with assignee and creator
// resolved. Lookups are cached per request so a large report does not hammer
// the users table.
func (s *ReportService) TicketReports(ctx context.Context, filter repository.TicketFilter) ([]TicketReport, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	cache := make(map[string]UserRef)
	resolve := func(id string) UserRef {
		if id == "" {
			return UserRef{}
		}
		if ref, ok := cache[id]; ok {
			return ref
		}
		ref := UserRef{ID: id}
		if user, err := s.users.GetByID(ctx, id); err == nil {
			ref.Name = user.Name
			ref.Email = user.Email
		}
		cache[id] = ref
		return ref
	}

	result := make([]TicketReport, 0, len(tickets))
	for _, ticket := range tickets {
		result = append(result, TicketReport{
			Ticket:     ticket,
			AssignedTo: resolve(ticket.AssignedTo),
			CreatedBy:  resolve(ticket.CreatedBy),
		})
	}
	return result, nil
}
