package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// ValidTicketStatus reports whether s is a known ticket status.
func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// ValidTicketPriority reports whether p is a known priority.
func ValidTicketPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// Customer is the contact snapshot copied from the originating complaint at
// ticket creation time. It is a value, not a reference; later complaint edits
// do not flow back into the ticket.
type Customer struct {
	Name  string
	Email string
	Phone string
}

// Ticket is the unit of trackable support work.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Priority    TicketPriority
	Status      TicketStatus
	AssignedTo  string
	CreatedBy   string
	Customer    Customer
	ComplaintID *string
	ResolvedAt  *time.Time
	ClosedAt    *time.Time
	// Version increments on every successful write and guards against
	// lost updates via conditional UPDATE.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
