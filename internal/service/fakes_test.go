package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-crm/internal/domain"
	"github.com/spec-kit/support-crm/internal/events"
	"github.com/spec-kit/support-crm/internal/repository"
	apperrors "github.com/spec-kit/support-crm/pkg/util"
)

// In-memory fakes shared by the service tests.

type userRepoFake struct {
	users map[string]*domain.User
}

func newUserRepoFake(users ...*domain.User) *userRepoFake {
	f := &userRepoFake{users: make(map[string]*domain.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *userRepoFake) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *userRepoFake) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *userRepoFake) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *userRepoFake) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *userRepoFake) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	var result []domain.User
	for _, u := range f.users {
		if u.Role == role {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *userRepoFake) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

type complaintRepoFake struct {
	complaints map[string]*domain.Complaint
	conflict   bool
}

func newComplaintRepoFake(complaints ...*domain.Complaint) *complaintRepoFake {
	f := &complaintRepoFake{complaints: make(map[string]*domain.Complaint)}
	for _, c := range complaints {
		f.complaints[c.ID] = c
	}
	return f
}

func (f *complaintRepoFake) Create(_ context.Context, complaint *domain.Complaint) error {
	if complaint.ID == "" {
		complaint.ID = fmt.Sprintf("complaint-%d", len(f.complaints)+1)
	}
	complaint.Version = 1
	complaint.CreatedAt = time.Now()
	cp := *complaint
	f.complaints[complaint.ID] = &cp
	return nil
}

func (f *complaintRepoFake) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	if c, ok := f.complaints[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *complaintRepoFake) GetLatestPendingByEmail(_ context.Context, email string) (*domain.Complaint, error) {
	var latest *domain.Complaint
	for _, c := range f.complaints {
		if c.Email != email || c.Status != domain.ComplaintStatusPending {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, pgx.ErrNoRows
	}
	cp := *latest
	return &cp, nil
}

func (f *complaintRepoFake) List(_ context.Context) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for _, c := range f.complaints {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (f *complaintRepoFake) UpdateStatus(_ context.Context, complaint *domain.Complaint) error {
	if f.conflict {
		return repository.ErrVersionConflict
	}
	stored, ok := f.complaints[complaint.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != complaint.Version {
		return repository.ErrVersionConflict
	}
	stored.Status = complaint.Status
	stored.Version++
	complaint.Version = stored.Version
	return nil
}

func (f *complaintRepoFake) Delete(_ context.Context, id string) error {
	if _, ok := f.complaints[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.complaints, id)
	return nil
}

type ticketRepoFake struct {
	tickets  map[string]*domain.Ticket
	conflict bool
}

func newTicketRepoFake(tickets ...*domain.Ticket) *ticketRepoFake {
	f := &ticketRepoFake{tickets: make(map[string]*domain.Ticket)}
	for _, t := range tickets {
		if t.Version == 0 {
			t.Version = 1
		}
		f.tickets[t.ID] = t
	}
	return f
}

func (f *ticketRepoFake) Create(_ context.Context, ticket *domain.Ticket) error {
	if ticket.ID == "" {
		ticket.ID = fmt.Sprintf("ticket-%d", len(f.tickets)+1)
	}
	ticket.Version = 1
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	cp := *ticket
	f.tickets[ticket.ID] = &cp
	return nil
}

func (f *ticketRepoFake) Update(_ context.Context, ticket *domain.Ticket) error {
	if f.conflict {
		return repository.ErrVersionConflict
	}
	stored, ok := f.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != ticket.Version {
		return repository.ErrVersionConflict
	}
	cp := *ticket
	cp.Version = stored.Version + 1
	cp.UpdatedAt = time.Now()
	f.tickets[ticket.ID] = &cp
	ticket.Version = cp.Version
	ticket.UpdatedAt = cp.UpdatedAt
	return nil
}

func (f *ticketRepoFake) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	if t, ok := f.tickets[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *ticketRepoFake) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, t := range f.tickets {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.AssignedTo != nil && t.AssignedTo != *filter.AssignedTo {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *ticketRepoFake) ListByAssignee(_ context.Context, userID string) ([]domain.Ticket, error) {
	assignee := userID
	return f.ListWithFilter(context.Background(), repository.TicketFilter{AssignedTo: &assignee})
}

func (f *ticketRepoFake) Delete(_ context.Context, id string) error {
	if _, ok := f.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.tickets, id)
	return nil
}

type historyRepoFake struct {
	entries []domain.HistoryEntry
}

func (f *historyRepoFake) Append(_ context.Context, entry *domain.HistoryEntry) error {
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now()
	}
	entry.ID = fmt.Sprintf("history-%d", len(f.entries)+1)
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *historyRepoFake) ListByTicket(_ context.Context, ticketID string) ([]domain.HistoryEntry, error) {
	var result []domain.HistoryEntry
	for _, e := range f.entries {
		if e.TicketID == ticketID {
			result = append(result, e)
		}
	}
	return result, nil
}

type dispatcherFake struct {
	published []events.Event
}

func (f *dispatcherFake) Publish(_ context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

func (f *dispatcherFake) Subscribe(events.EventType, events.EventHandler) {}

func (f *dispatcherFake) byType(eventType events.EventType) []events.Event {
	var result []events.Event
	for _, e := range f.published {
		if e.Type == eventType {
			result = append(result, e)
		}
	}
	return result
}

func httpStatusOf(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("error %v is not a DomainError", err)
	}
	return domainErr.HTTPStatus
}
