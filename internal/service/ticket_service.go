package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-crm/internal/config"
	"github.com/spec-kit/support-crm/internal/domain"
	"github.com/spec-kit/support-crm/internal/events"
	"github.com/spec-kit/support-crm/internal/repository"
	apperrors "github.com/spec-kit/support-crm/pkg/util"
)

// TicketService drives the ticket lifecycle: creation from a pending
// complaint, status transitions with an append-only history log, and
// role/ownership checks that cannot be expressed in the static policy table.
type TicketService struct {
	tickets    repository.TicketRepository
	history    repository.TicketHistoryRepository
	complaints repository.ComplaintRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	lifecycle  config.LifecycleConfig
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo    repository.TicketRepository
	HistoryRepo   repository.TicketHistoryRepository
	ComplaintRepo repository.ComplaintRepository
	UserRepo      repository.UserRepository
	Dispatcher    events.Dispatcher
	Lifecycle     config.LifecycleConfig
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title         string
	Description   string
	Priority      domain.TicketPriority
	AssignedTo    string
	CustomerEmail string
}

// TicketUpdateInput describes the staff/admin update payload. Nil fields are
// left untouched.
type TicketUpdateInput struct {
	Status     *domain.TicketStatus
	AssignedTo *string
}

// TicketListFilter describes staff listing filters.
type TicketListFilter struct {
	Status *domain.TicketStatus
	SortBy string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		history:    deps.HistoryRepo,
		complaints: deps.ComplaintRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		lifecycle:  deps.Lifecycle,
	}
}

// CreateTicket creates a ticket from the most recent pending complaint for
// the given customer email. The complaint lookup, ticket insert and complaint
// status flip are three sequential writes with no surrounding transaction;
// notification delivery is best-effort and never rolls anything back.
func (s *TicketService) CreateTicket(ctx context.Context, creator *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.CustomerEmail) == "" || input.AssignedTo == "" {
		return nil, apperrors.NewValidationError("title, assignedTo and customerEmail required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidTicketPriority(priority) {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	technician, err := s.users.GetByID(ctx, input.AssignedTo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("assigned user", map[string]any{"id": input.AssignedTo})
		}
		return nil, apperrors.MapError(err)
	}

	complaint, err := s.complaints.GetLatestPendingByEmail(ctx, input.CustomerEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("pending complaint for this customer", map[string]any{"email": input.CustomerEmail})
		}
		return nil, apperrors.MapError(err)
	}

	complaintID := complaint.ID
	ticket := &domain.Ticket{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Priority:    priority,
		Status:      domain.TicketStatusOpen,
		AssignedTo:  technician.ID,
		CreatedBy:   creator.ID,
		Customer: domain.Customer{
			Name:  complaint.Name,
			Email: complaint.Email,
			Phone: complaint.Phone,
		},
		ComplaintID: &complaintID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	complaint.Status = domain.ComplaintStatusTicketCreated
	if err := s.complaints.UpdateStatus(ctx, complaint); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.NewConflict("complaint was modified concurrently", map[string]any{"complaint_id": complaint.ID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventTicketCreated,
		ActorID: creator.ID,
		Payload: events.TicketCreatedPayload{
			TicketID:        ticket.ID,
			Title:           ticket.Title,
			TechnicianID:    technician.ID,
			TechnicianName:  technician.Name,
			TechnicianEmail: technician.Email,
			Customer:        ticket.Customer,
		},
	})
	return ticket, nil
}

// ListTickets returns tickets for staff/admin dashboards.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		Status: filter.Status,
		SortBy: filter.SortBy,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListAssignedTickets returns the caller's assigned tickets.
func (s *TicketService) ListAssignedTickets(ctx context.Context, userID string) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByAssignee(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicket fetches a ticket with its history, enforcing per-document
// ownership: staff/admin see everything, a technician only their assigned
// tickets. Email equality with the embedded customer snapshot also grants
// access; that string match is the only customer correlation key the system
// has.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, []domain.HistoryEntry, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}

	switch actor.Role {
	case domain.RoleAdmin, domain.RoleStaff:
	case domain.RoleTechnician:
		if ticket.AssignedTo != actor.ID && !strings.EqualFold(ticket.Customer.Email, actor.Email) {
			return nil, nil, apperrors.NewForbidden("not authorized to view this ticket")
		}
	default:
		return nil, nil, apperrors.NewForbidden("not authorized to view this ticket")
	}

	history, err := s.history.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return ticket, history, nil
}

// UpdateTicket applies a staff/admin status and/or assignment change. One
// history entry is appended per call when anything actually changed; a no-op
// update appends nothing. A reassignment notifies the new assignee.
func (s *TicketService) UpdateTicket(ctx context.Context, actor *domain.User, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	statusChanged := false
	oldStatus := ticket.Status
	if input.Status != nil && *input.Status != ticket.Status {
		if !domain.CanTransitionTicket(ticket.Status, *input.Status, actor.Role, s.lifecycle.AdminOverride) {
			return nil, apperrors.NewValidationError("illegal status transition", map[string]any{
				"from": ticket.Status,
				"to":   *input.Status,
			})
		}
		ticket.Status = *input.Status
		statusChanged = true
	}

	assignmentChanged := false
	var newAssignee *domain.User
	if input.AssignedTo != nil && *input.AssignedTo != ticket.AssignedTo {
		newAssignee, err = s.users.GetByID(ctx, *input.AssignedTo)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("assigned user", map[string]any{"id": *input.AssignedTo})
			}
			return nil, apperrors.MapError(err)
		}
		ticket.AssignedTo = newAssignee.ID
		assignmentChanged = true
	}

	if !statusChanged && !assignmentChanged {
		return ticket, nil
	}

	if err := s.saveTicket(ctx, ticket); err != nil {
		return nil, err
	}
	if err := s.appendHistory(ctx, ticket, actor.ID, time.Time{}); err != nil {
		return nil, err
	}

	if statusChanged {
		s.publishStatusChange(ctx, actor, ticket, oldStatus)
	}
	if assignmentChanged {
		s.publish(ctx, events.Event{
			Type:    events.EventTicketAssigned,
			ActorID: actor.ID,
			Payload: events.TicketAssignedPayload{
				TicketID:        ticket.ID,
				Title:           ticket.Title,
				TechnicianID:    newAssignee.ID,
				TechnicianName:  newAssignee.Name,
				TechnicianEmail: newAssignee.Email,
			},
		})
	}
	return ticket, nil
}

// StartProgress moves a ticket to in-progress. Only the assigned technician
// may call it.
func (s *TicketService) StartProgress(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	return s.technicianTransition(ctx, actor, ticketID, domain.TicketStatusInProgress)
}

// Resolve marks a ticket resolved, stamps resolvedAt and notifies the ticket
// creator. Only the assigned technician may call it.
func (s *TicketService) Resolve(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	return s.technicianTransition(ctx, actor, ticketID, domain.TicketStatusResolved)
}

func (s *TicketService) technicianTransition(ctx context.Context, actor *domain.User, ticketID string, to domain.TicketStatus) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.AssignedTo != actor.ID {
		return nil, apperrors.NewForbidden("not authorized to update this ticket")
	}
	if !domain.CanTransitionTicket(ticket.Status, to, actor.Role, s.lifecycle.AdminOverride) {
		return nil, apperrors.NewValidationError("illegal status transition", map[string]any{
			"from": ticket.Status,
			"to":   to,
		})
	}

	oldStatus := ticket.Status
	now := time.Now()
	ticket.Status = to
	if to == domain.TicketStatusResolved {
		ticket.ResolvedAt = &now
	}
	if err := s.saveTicket(ctx, ticket); err != nil {
		return nil, err
	}
	if err := s.appendHistory(ctx, ticket, actor.ID, now); err != nil {
		return nil, err
	}
	s.publishStatusChange(ctx, actor, ticket, oldStatus)
	return ticket, nil
}

// Close closes a ticket, stamps closedAt and notifies the creator. Only the
// user who created the ticket may close it.
func (s *TicketService) Close(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.CreatedBy != actor.ID {
		return nil, apperrors.NewForbidden("not authorized to close this ticket")
	}
	if !domain.CanTransitionTicket(ticket.Status, domain.TicketStatusClosed, actor.Role, s.lifecycle.AdminOverride) {
		return nil, apperrors.NewValidationError("illegal status transition", map[string]any{
			"from": ticket.Status,
			"to":   domain.TicketStatusClosed,
		})
	}

	oldStatus := ticket.Status
	now := time.Now()
	ticket.Status = domain.TicketStatusClosed
	ticket.ClosedAt = &now
	if err := s.saveTicket(ctx, ticket); err != nil {
		return nil, err
	}
	if err := s.appendHistory(ctx, ticket, actor.ID, now); err != nil {
		return nil, err
	}
	s.publishStatusChange(ctx, actor, ticket, oldStatus)
	return ticket, nil
}

// Delete removes a ticket. History rows go with it; the linked complaint is
// left untouched.
func (s *TicketService) Delete(ctx context.Context, ticketID string) error {
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TicketService) getTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) saveTicket(ctx context.Context, ticket *domain.Ticket) error {
	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return apperrors.NewConflict("ticket was modified concurrently", map[string]any{"id": ticket.ID})
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"id": ticket.ID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TicketService) appendHistory(ctx context.Context, ticket *domain.Ticket, actorID string, at time.Time) error {
	entry := &domain.HistoryEntry{
		TicketID:  ticket.ID,
		Status:    ticket.Status,
		UpdatedBy: actorID,
		UpdatedAt: at,
	}
	if err := s.history.Append(ctx, entry); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// publishStatusChange loads the creator so the notification can address the
// right person. A missing creator (deleted user) silently skips the email.
func (s *TicketService) publishStatusChange(ctx context.Context, actor *domain.User, ticket *domain.Ticket, oldStatus domain.TicketStatus) {
	payload := events.TicketStatusChangedPayload{
		TicketID:    ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		OldStatus:   oldStatus,
		NewStatus:   ticket.Status,
		ActorName:   actor.Name,
	}
	if creator, err := s.users.GetByID(ctx, ticket.CreatedBy); err == nil {
		payload.CreatorName = creator.Name
		payload.CreatorEmail = creator.Email
	}
	s.publish(ctx, events.Event{
		Type:    events.EventTicketStatusChanged,
		ActorID: actor.ID,
		Payload: payload,
	})
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
