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

// ComplaintService handles intake and triage of customer complaints.
// Submission is unauthenticated; everything else sits behind staff routes.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	dispatcher events.Dispatcher
	lifecycle  config.LifecycleConfig
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	Dispatcher    events.Dispatcher
	Lifecycle     config.LifecycleConfig
}

// ComplaintInput is the public submission payload.
type ComplaintInput struct {
	Name             string
	Email            string
	Phone            string
	Address          string
	ProductName      string
	SerialNumber     string
	DateOfPurchase   time.Time
	IssueDescription string
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		dispatcher: deps.Dispatcher,
		lifecycle:  deps.Lifecycle,
	}
}

// Submit records a new complaint in Pending state. Email is the only key
// later used to correlate the complaint with a ticket, so it is required and
// normalized.
func (s *ComplaintService) Submit(ctx context.Context, input ComplaintInput) (*domain.Complaint, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || strings.TrimSpace(input.IssueDescription) == "" {
		return nil, apperrors.NewValidationError("name, email and issueDescription required", nil)
	}

	complaint := &domain.Complaint{
		Name:             name,
		Email:            email,
		Phone:            input.Phone,
		Address:          input.Address,
		ProductName:      input.ProductName,
		SerialNumber:     input.SerialNumber,
		DateOfPurchase:   input.DateOfPurchase,
		IssueDescription: strings.TrimSpace(input.IssueDescription),
		Status:           domain.ComplaintStatusPending,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventComplaintReceived,
			Timestamp: time.Now(),
			Payload: events.ComplaintReceivedPayload{
				ComplaintID:   complaint.ID,
				CustomerName:  complaint.Name,
				CustomerEmail: complaint.Email,
				ProductName:   complaint.ProductName,
			},
		})
	}
	return complaint, nil
}

// List returns all complaints, newest first.
func (s *ComplaintService) List(ctx context.Context) ([]domain.Complaint, error) {
	complaints, err := s.complaints.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return complaints, nil
}

// Get fetches one complaint.
func (s *ComplaintService) Get(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

// UpdateStatus moves a complaint along its lifecycle. Setting the current
// status again is a no-op; anything off the transition graph is rejected
// before touching storage.
func (s *ComplaintService) UpdateStatus(ctx context.Context, actor *domain.User, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	if !domain.ValidComplaintStatus(status) {
		return nil, apperrors.NewValidationError("invalid complaint status", map[string]any{"status": status})
	}

	complaint, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if complaint.Status == status {
		return complaint, nil
	}
	if !domain.CanTransitionComplaint(complaint.Status, status, actor.Role, s.lifecycle.AdminOverride) {
		return nil, apperrors.NewValidationError("illegal status transition", map[string]any{
			"from": complaint.Status,
			"to":   status,
		})
	}

	complaint.Status = status
	if err := s.complaints.UpdateStatus(ctx, complaint); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.NewConflict("complaint was modified concurrently", map[string]any{"id": id})
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

// Delete removes a complaint. Tickets already cut from it keep their copy of
// the customer snapshot.
func (s *ComplaintService) Delete(ctx context.Context, id string) error {
	if err := s.complaints.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}
