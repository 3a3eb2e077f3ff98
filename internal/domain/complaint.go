package domain

import "time"

// ComplaintStatus enumerates lifecycle states for customer complaints.
type ComplaintStatus string

const (
	ComplaintStatusPending       ComplaintStatus = "Pending"
	ComplaintStatusTicketCreated ComplaintStatus = "Ticket Created"
	ComplaintStatusClosed        ComplaintStatus = "Closed"
)

// ValidComplaintStatus reports whether s is a known complaint status.
func ValidComplaintStatus(s ComplaintStatus) bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusTicketCreated, ComplaintStatusClosed:
		return true
	}
	return false
}

// Complaint is an inbound customer issue report, the precursor to a ticket.
// Customer identity is free text correlated only by email.
type Complaint struct {
	ID               string
	Name             string
	Email            string
	Phone            string
	Address          string
	ProductName      string
	SerialNumber     string
	DateOfPurchase   time.Time
	IssueDescription string
	Status           ComplaintStatus
	Version          int64
	CreatedAt        time.Time
}
