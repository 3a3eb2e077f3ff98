package domain

import "time"

// Role enumerates internal operator roles. Customers are not users; they
// exist only as snapshots embedded in complaints and tickets.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleStaff      Role = "staff"
	RoleTechnician Role = "technician"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleTechnician:
		return true
	}
	return false
}

// User is the domain model for internal operators.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Address      string
	City         string
	State        string
	Country      string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
