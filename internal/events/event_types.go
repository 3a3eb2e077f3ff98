package events

import (
	"time"

	"github.com/spec-kit/support-crm/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintReceived      EventType = "complaint_received"
	EventTicketCreated          EventType = "ticket_created"
	EventTicketStatusChanged    EventType = "ticket_status_changed"
	EventTicketAssigned         EventType = "ticket_assigned"
	EventUserRegistered         EventType = "user_registered"
	EventPasswordResetRequested EventType = "password_reset_requested"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ComplaintReceivedPayload payload.
type ComplaintReceivedPayload struct {
	ComplaintID   string `json:"complaint_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	ProductName   string `json:"product_name"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID        string          `json:"ticket_id"`
	Title           string          `json:"title"`
	TechnicianID    string          `json:"technician_id"`
	TechnicianName  string          `json:"technician_name"`
	TechnicianEmail string          `json:"technician_email"`
	Customer        domain.Customer `json:"customer"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketID     string              `json:"ticket_id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	OldStatus    domain.TicketStatus `json:"old_status"`
	NewStatus    domain.TicketStatus `json:"new_status"`
	ActorName    string              `json:"actor_name"`
	CreatorName  string              `json:"creator_name"`
	CreatorEmail string              `json:"creator_email"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TicketID        string `json:"ticket_id"`
	Title           string `json:"title"`
	TechnicianID    string `json:"technician_id"`
	TechnicianName  string `json:"technician_name"`
	TechnicianEmail string `json:"technician_email"`
}

// UserRegisteredPayload payload. PlainPassword carries the generated
// credential for the welcome email only; it is never persisted.
type UserRegisteredPayload struct {
	UserID        string      `json:"user_id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Role          domain.Role `json:"role"`
	PlainPassword string      `json:"-"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	ResetLink string `json:"-"`
}
