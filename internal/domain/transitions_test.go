package domain

import "testing"

func TestCanTransitionTicket(t *testing.T) {
	cases := []struct {
		name     string
		from, to TicketStatus
		actor    Role
		override bool
		want     bool
	}{
		{"open to in-progress", TicketStatusOpen, TicketStatusInProgress, RoleTechnician, false, true},
		{"open to resolved", TicketStatusOpen, TicketStatusResolved, RoleTechnician, false, true},
		{"in-progress to resolved", TicketStatusInProgress, TicketStatusResolved, RoleTechnician, false, true},
		{"resolved to closed", TicketStatusResolved, TicketStatusClosed, RoleStaff, false, true},
		{"closed is terminal", TicketStatusClosed, TicketStatusOpen, RoleTechnician, false, false},
		{"no backwards move", TicketStatusResolved, TicketStatusInProgress, RoleTechnician, false, false},
		{"same status is not a transition", TicketStatusOpen, TicketStatusOpen, RoleAdmin, true, false},
		{"unknown target rejected", TicketStatusOpen, TicketStatus("bogus"), RoleAdmin, true, false},
		{"admin override reopens closed", TicketStatusClosed, TicketStatusOpen, RoleAdmin, true, true},
		{"staff override reverses resolve", TicketStatusResolved, TicketStatusInProgress, RoleStaff, true, true},
		{"override does not apply to technician", TicketStatusClosed, TicketStatusOpen, RoleTechnician, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CanTransitionTicket(tc.from, tc.to, tc.actor, tc.override)
			if got != tc.want {
				t.Fatalf("CanTransitionTicket(%q, %q, %q, %v) = %v, want %v",
					tc.from, tc.to, tc.actor, tc.override, got, tc.want)
			}
		})
	}
}

func TestCanTransitionComplaint(t *testing.T) {
	cases := []struct {
		name     string
		from, to ComplaintStatus
		actor    Role
		override bool
		want     bool
	}{
		{"pending to ticket created", ComplaintStatusPending, ComplaintStatusTicketCreated, RoleStaff, false, true},
		{"pending to closed", ComplaintStatusPending, ComplaintStatusClosed, RoleStaff, false, true},
		{"ticket created to closed", ComplaintStatusTicketCreated, ComplaintStatusClosed, RoleStaff, false, true},
		{"closed is terminal", ComplaintStatusClosed, ComplaintStatusPending, RoleStaff, false, false},
		{"no reverse without override", ComplaintStatusTicketCreated, ComplaintStatusPending, RoleStaff, false, false},
		{"admin override reopens", ComplaintStatusClosed, ComplaintStatusPending, RoleAdmin, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CanTransitionComplaint(tc.from, tc.to, tc.actor, tc.override)
			if got != tc.want {
				t.Fatalf("CanTransitionComplaint(%q, %q, %q, %v) = %v, want %v",
					tc.from, tc.to, tc.actor, tc.override, got, tc.want)
			}
		})
	}
}
