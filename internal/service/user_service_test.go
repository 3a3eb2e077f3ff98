package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/spec-kit/support-crm/internal/domain"
	"github.com/spec-kit/support-crm/internal/repository"
)

type analyticsRepoFake struct {
	tickets *ticketRepoFake
}

func (f *analyticsRepoFake) CountTicketsByStatus(context.Context) (map[domain.TicketStatus]int64, error) {
	result := make(map[domain.TicketStatus]int64)
	for _, t := range f.tickets.tickets {
		result[t.Status]++
	}
	return result, nil
}

func (f *analyticsRepoFake) CountTickets(context.Context) (int64, error) {
	return int64(len(f.tickets.tickets)), nil
}

func (f *analyticsRepoFake) CountUsersByRole(context.Context, domain.Role) (int64, error) {
	return 0, nil
}

func (f *analyticsRepoFake) TicketsPerTechnician(context.Context) ([]repository.TechnicianLoad, error) {
	return nil, nil
}

func (f *analyticsRepoFake) TechnicianTicketStats(_ context.Context, technicianID string) (*repository.TechnicianStats, error) {
	stats := &repository.TechnicianStats{}
	for _, t := range f.tickets.tickets {
		if t.AssignedTo != technicianID {
			continue
		}
		stats.TicketsAssigned++
		if t.Status == domain.TicketStatusResolved {
			stats.TicketsResolved++
		}
	}
	return stats, nil
}

func newUserServiceFixture() (*UserService, *userRepoFake, *ticketRepoFake) {
	users := newUserRepoFake(
		&domain.User{ID: "admin-1", Name: "Ada", Email: "ada@corp.test", Role: domain.RoleAdmin},
		&domain.User{ID: "tech-1", Name: "Tess", Email: "tess@corp.test", Role: domain.RoleTechnician},
		&domain.User{ID: "staff-1", Name: "Sam", Email: "sam@corp.test", Role: domain.RoleStaff},
	)
	tickets := newTicketRepoFake(
		&domain.Ticket{ID: "t-1", AssignedTo: "tech-1", Status: domain.TicketStatusResolved},
		&domain.Ticket{ID: "t-2", AssignedTo: "tech-1", Status: domain.TicketStatusOpen},
	)
	svc := NewUserService(UserDependencies{
		UserRepo:      users,
		TicketRepo:    tickets,
		AnalyticsRepo: &analyticsRepoFake{tickets: tickets},
	})
	return svc, users, tickets
}

func TestListTechniciansWithStats(t *testing.T) {
	svc, _, _ := newUserServiceFixture()

	summaries, err := svc.ListTechnicians(context.Background())
	if err != nil {
		t.Fatalf("ListTechnicians: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d technicians, want 1", len(summaries))
	}
	s := summaries[0]
	if s.User.ID != "tech-1" || s.TicketsAssigned != 2 || s.TicketsResolved != 1 {
		t.Errorf("summary = %+v, want tech-1 with 2 assigned / 1 resolved", s)
	}
	if s.User.PasswordHash != "" {
		t.Error("password hash leaked in listing")
	}
}

func TestGetTechnicianIncludesAssignedTickets(t *testing.T) {
	svc, _, _ := newUserServiceFixture()

	detail, err := svc.GetTechnician(context.Background(), "tech-1")
	if err != nil {
		t.Fatalf("GetTechnician: %v", err)
	}
	if len(detail.Tickets) != 2 {
		t.Errorf("got %d tickets, want 2", len(detail.Tickets))
	}

	_, err = svc.GetTechnician(context.Background(), "staff-1")
	if status := httpStatusOf(t, err); status != http.StatusNotFound {
		t.Fatalf("staff looked up as technician: status = %d, want 404", status)
	}
}

func TestDeleteUserRejectsSelf(t *testing.T) {
	svc, users, _ := newUserServiceFixture()

	err := svc.DeleteUser(context.Background(), "admin-1", "admin-1")
	if status := httpStatusOf(t, err); status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}

	if err := svc.DeleteUser(context.Background(), "admin-1", "tech-1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := users.GetByID(context.Background(), "tech-1"); err == nil {
		t.Error("user still present after delete")
	}
}

func TestDeleteUserLeavesTicketReferences(t *testing.T) {
	svc, _, tickets := newUserServiceFixture()

	if err := svc.DeleteUser(context.Background(), "admin-1", "tech-1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	ticket, err := tickets.GetByID(context.Background(), "t-1")
	if err != nil {
		t.Fatalf("ticket gone after user delete: %v", err)
	}
	if ticket.AssignedTo != "tech-1" {
		t.Errorf("assignee rewritten to %q, want dangling tech-1", ticket.AssignedTo)
	}
}

func TestUpdateProfileEmailUniqueness(t *testing.T) {
	svc, _, _ := newUserServiceFixture()
	taken := "ada@corp.test"

	_, err := svc.UpdateProfile(context.Background(), "staff-1", ProfileUpdateInput{Email: &taken})
	if status := httpStatusOf(t, err); status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}

	fresh := "sam.new@corp.test"
	updated, err := svc.UpdateProfile(context.Background(), "staff-1", ProfileUpdateInput{Email: &fresh})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Email != "sam.new@corp.test" {
		t.Errorf("email = %q, want sam.new@corp.test", updated.Email)
	}
}
