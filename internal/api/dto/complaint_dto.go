package dto

import (
	"time"

	"github.com/spec-kit/support-crm/internal/domain"
)

// SubmitComplaintRequest is the public intake payload.
type SubmitComplaintRequest struct {
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	ProductName      string    `json:"productName"`
	SerialNumber     string    `json:"serialNumber"`
	DateOfPurchase   time.Time `json:"dateOfPurchase"`
	IssueDescription string    `json:"issueDescription"`
}

// UpdateComplaintStatusRequest payload.
type UpdateComplaintStatusRequest struct {
	Status domain.ComplaintStatus `json:"status"`
}

// ComplaintResponse is the standard complaint representation.
type ComplaintResponse struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Email            string                 `json:"email"`
	Phone            string                 `json:"phone,omitempty"`
	Address          string                 `json:"address,omitempty"`
	ProductName      string                 `json:"productName"`
	SerialNumber     string                 `json:"serialNumber,omitempty"`
	DateOfPurchase   time.Time              `json:"dateOfPurchase"`
	IssueDescription string                 `json:"issueDescription"`
	Status           domain.ComplaintStatus `json:"status"`
	Version          int64                  `json:"version"`
	CreatedAt        time.Time              `json:"createdAt"`
}

// NewComplaintResponse maps a domain complaint.
func NewComplaintResponse(complaint *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:               complaint.ID,
		Name:             complaint.Name,
		Email:            complaint.Email,
		Phone:            complaint.Phone,
		Address:          complaint.Address,
		ProductName:      complaint.ProductName,
		SerialNumber:     complaint.SerialNumber,
		DateOfPurchase:   complaint.DateOfPurchase,
		IssueDescription: complaint.IssueDescription,
		Status:           complaint.Status,
		Version:          complaint.Version,
		CreatedAt:        complaint.CreatedAt,
	}
}
