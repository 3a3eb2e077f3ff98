package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-crm/internal/domain"
	"github.com/spec-kit/support-crm/internal/repository"
	apperrors "github.com/spec-kit/support-crm/pkg/util"
)

// UserService covers profile reads/updates and the admin user directory.
type UserService struct {
	users     repository.UserRepository
	tickets   repository.TicketRepository
	analytics repository.AnalyticsRepository
}

// UserDependencies bundles repositories for the user service.
type UserDependencies struct {
	UserRepo      repository.UserRepository
	TicketRepo    repository.TicketRepository
	AnalyticsRepo repository.AnalyticsRepository
}

// ProfileUpdateInput carries optional profile fields. Nil pointers leave the
// current value in place.
type ProfileUpdateInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	City    *string
	State   *string
	Country *string
}

// TechnicianSummary is a directory row with workload counters.
type TechnicianSummary struct {
	User            domain.User
	TicketsAssigned int64
	TicketsResolved int64
}

// TechnicianDetail is a single technician with their assigned tickets.
type TechnicianDetail struct {
	User    domain.User
	Tickets []domain.Ticket
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{
		users:     deps.UserRepo,
		tickets:   deps.TicketRepo,
		analytics: deps.AnalyticsRepo,
	}
}

// GetProfile returns the caller's own record.
func (s *UserService) GetProfile(ctx context.Context, actorID string) (*domain.User, error) {
	return s.getUser(ctx, actorID)
}

// UpdateProfile applies partial changes to the caller's own record. An email
// change is checked against the directory first so the unique index never
// surfaces as an opaque 500.
func (s *UserService) UpdateProfile(ctx context.Context, actorID string, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.getUser(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, apperrors.NewValidationError("email cannot be empty", nil)
		}
		if email != user.Email {
			if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing.ID != user.ID {
				return nil, apperrors.NewValidationError("email already registered", map[string]any{"email": email})
			} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.MapError(err)
			}
			user.Email = email
		}
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.City != nil {
		user.City = *input.City
	}
	if input.State != nil {
		user.State = *input.State
	}
	if input.Country != nil {
		user.Country = *input.Country
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	user.PasswordHash = ""
	return user, nil
}

// ListTechnicians returns every technician with assignment counters for the
// admin dashboard.
func (s *UserService) ListTechnicians(ctx context.Context) ([]TechnicianSummary, error) {
	technicians, err := s.users.ListByRole(ctx, domain.RoleTechnician)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	result := make([]TechnicianSummary, 0, len(technicians))
	for _, technician := range technicians {
		technician.PasswordHash = ""
		summary := TechnicianSummary{User: technician}
		if stats, err := s.analytics.TechnicianTicketStats(ctx, technician.ID); err == nil {
			summary.TicketsAssigned = stats.TicketsAssigned
			summary.TicketsResolved = stats.TicketsResolved
		}
		result = append(result, summary)
	}
	return result, nil
}

// GetTechnician returns one technician with their assigned tickets.
func (s *UserService) GetTechnician(ctx context.Context, id string) (*TechnicianDetail, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleTechnician {
		return nil, apperrors.NewNotFound("technician", map[string]any{"id": id})
	}

	tickets, err := s.tickets.ListByAssignee(ctx, user.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &TechnicianDetail{User: *user, Tickets: tickets}, nil
}

// ListStaff returns every staff account.
func (s *UserService) ListStaff(ctx context.Context) ([]domain.User, error) {
	staff, err := s.users.ListByRole(ctx, domain.RoleStaff)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range staff {
		staff[i].PasswordHash = ""
	}
	return staff, nil
}

// GetStaff returns one staff account.
func (s *UserService) GetStaff(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleStaff {
		return nil, apperrors.NewNotFound("staff member", map[string]any{"id": id})
	}
	return user, nil
}

// DeleteUser removes an account. Self-deletion is rejected; tickets that
// reference the user keep their now-dangling ids.
func (s *UserService) DeleteUser(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return apperrors.NewValidationError("cannot delete your own account", nil)
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"id": targetID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *UserService) getUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	user.PasswordHash = ""
	return user, nil
}
