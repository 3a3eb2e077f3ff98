package domain

// The status graphs below are the single source of truth for lifecycle
// validation. Services must consult them before persisting any status
// mutation; an illegal transition is a rejected operation, not a silent
// overwrite.

var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed},
	TicketStatusInProgress: {TicketStatusResolved, TicketStatusClosed},
	TicketStatusResolved:   {TicketStatusClosed},
	TicketStatusClosed:     {},
}

var complaintTransitions = map[ComplaintStatus][]ComplaintStatus{
	ComplaintStatusPending:       {ComplaintStatusTicketCreated, ComplaintStatusClosed},
	ComplaintStatusTicketCreated: {ComplaintStatusClosed},
	ComplaintStatusClosed:        {},
}

// CanTransitionTicket reports whether moving a ticket from one status to
// another is legal for the acting role. When adminOverride is set, admin and
// staff actors may perform any transition between valid statuses, matching
// the historical behavior where back-office updates were unguarded.
func CanTransitionTicket(from, to TicketStatus, actor Role, adminOverride bool) bool {
	if !ValidTicketStatus(from) || !ValidTicketStatus(to) || from == to {
		return false
	}
	if adminOverride && (actor == RoleAdmin || actor == RoleStaff) {
		return true
	}
	for _, next := range ticketTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionComplaint reports whether a complaint status change is legal.
// The override carries the same meaning as for tickets: staff and admin may
// reverse or skip states when it is enabled.
func CanTransitionComplaint(from, to ComplaintStatus, actor Role, adminOverride bool) bool {
	if !ValidComplaintStatus(from) || !ValidComplaintStatus(to) || from == to {
		return false
	}
	if adminOverride && (actor == RoleAdmin || actor == RoleStaff) {
		return true
	}
	for _, next := range complaintTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
