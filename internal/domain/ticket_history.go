package domain

import "time"

// HistoryEntry is an immutable log record of a ticket status or assignment
// change. Entries are appended once per observed transition; a no-op update
// never produces one.
type HistoryEntry struct {
	ID        string
	TicketID  string
	Status    TicketStatus
	UpdatedBy string
	UpdatedAt time.Time
}
