package dto

import (
	"time"

	"github.com/spec-kit/support-crm/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Priority      domain.TicketPriority `json:"priority"`
	AssignedTo    string                `json:"assignedTo"`
	CustomerEmail string                `json:"customerEmail"`
}

// UpdateTicketRequest payload for staff/admin updates. Absent fields are
// left unchanged.
type UpdateTicketRequest struct {
	Status     *domain.TicketStatus `json:"status"`
	AssignedTo *string              `json:"assignedTo"`
}

// CustomerResponse is the embedded contact snapshot.
type CustomerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// TicketResponse is the standard ticket representation.
type TicketResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	AssignedTo  string                `json:"assignedTo"`
	CreatedBy   string                `json:"createdBy"`
	Customer    CustomerResponse      `json:"customer"`
	ComplaintID *string               `json:"complaintId,omitempty"`
	ResolvedAt  *time.Time            `json:"resolvedAt,omitempty"`
	ClosedAt    *time.Time            `json:"closedAt,omitempty"`
	Version     int64                 `json:"version"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// HistoryEntryResponse is one lifecycle log line.
type HistoryEntryResponse struct {
	ID        string              `json:"id"`
	Status    domain.TicketStatus `json:"status"`
	UpdatedBy string              `json:"updatedBy"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// TicketDetailResponse is a ticket plus its history log.
type TicketDetailResponse struct {
	TicketResponse
	History []HistoryEntryResponse `json:"statusHistory"`
}

// UserRefResponse is a resolved user reference in reports.
type UserRefResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// TicketReportResponse is one report row.
type TicketReportResponse struct {
	TicketResponse
	AssignedToUser UserRefResponse `json:"assignedToUser"`
	CreatedByUser  UserRefResponse `json:"createdByUser"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Priority:    ticket.Priority,
		Status:      ticket.Status,
		AssignedTo:  ticket.AssignedTo,
		CreatedBy:   ticket.CreatedBy,
		Customer: CustomerResponse{
			Name:  ticket.Customer.Name,
			Email: ticket.Customer.Email,
			Phone: ticket.Customer.Phone,
		},
		ComplaintID: ticket.ComplaintID,
		ResolvedAt:  ticket.ResolvedAt,
		ClosedAt:    ticket.ClosedAt,
		Version:     ticket.Version,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

// NewHistoryResponses maps history entries.
func NewHistoryResponses(entries []domain.HistoryEntry) []HistoryEntryResponse {
	result := make([]HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, HistoryEntryResponse{
			ID:        entry.ID,
			Status:    entry.Status,
			UpdatedBy: entry.UpdatedBy,
			UpdatedAt: entry.UpdatedAt,
		})
	}
	return result
}
