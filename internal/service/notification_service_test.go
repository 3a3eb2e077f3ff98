package service

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/support-crm/internal/config"
	"github.com/spec-kit/support-crm/internal/domain"
	"github.com/spec-kit/support-crm/internal/events"
)

func newNotificationFixture() (*NotificationService, events.Dispatcher) {
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, nil, zap.NewNop(), config.NotificationConfig{QueueSize: 8})
	svc.RegisterHandlers()
	return svc, dispatcher
}

func drainOne(t *testing.T, svc *NotificationService) OutboundEmail {
	t.Helper()
	select {
	case email := <-svc.Queue():
		return email
	default:
		t.Fatal("no email enqueued")
		return OutboundEmail{}
	}
}

func TestTicketAssignedEmail(t *testing.T) {
	svc, dispatcher := newNotificationFixture()

	_ = dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventTicketAssigned,
		Payload: events.TicketAssignedPayload{
			TicketID:        "t-1",
			Title:           "Broken blender",
			TechnicianName:  "Tess",
			TechnicianEmail: "tess@corp.test",
		},
	})

	email := drainOne(t, svc)
	if email.To != "tess@corp.test" {
		t.Errorf("to = %q, want tess@corp.test", email.To)
	}
	if email.Subject != "New Ticket Assigned: Broken blender" {
		t.Errorf("subject = %q", email.Subject)
	}
	if !strings.Contains(email.Body, "Tess") {
		t.Errorf("body does not address the technician: %q", email.Body)
	}
}

func TestTicketCreatedEnqueuesTechnicianAndCustomerEmails(t *testing.T) {
	svc, dispatcher := newNotificationFixture()

	_ = dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventTicketCreated,
		Payload: events.TicketCreatedPayload{
			Title:           "Broken blender",
			TechnicianName:  "Tess",
			TechnicianEmail: "tess@corp.test",
			Customer:        domain.Customer{Name: "Cora", Email: "cora@example.test"},
		},
	})

	first := drainOne(t, svc)
	second := drainOne(t, svc)
	recipients := map[string]bool{first.To: true, second.To: true}
	if !recipients["tess@corp.test"] || !recipients["cora@example.test"] {
		t.Errorf("recipients = %v, want technician and customer", recipients)
	}
}

func TestStatusChangedEmailOnlyForResolvedAndClosed(t *testing.T) {
	svc, dispatcher := newNotificationFixture()

	_ = dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventTicketStatusChanged,
		Payload: events.TicketStatusChangedPayload{
			Title:        "Broken blender",
			NewStatus:    domain.TicketStatusInProgress,
			CreatorEmail: "sam@corp.test",
		},
	})
	select {
	case email := <-svc.Queue():
		t.Fatalf("in-progress change produced email %+v", email)
	default:
	}

	_ = dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventTicketStatusChanged,
		Payload: events.TicketStatusChangedPayload{
			Title:        "Broken blender",
			NewStatus:    domain.TicketStatusResolved,
			CreatorName:  "Sam",
			CreatorEmail: "sam@corp.test",
			ActorName:    "Tess",
		},
	})
	email := drainOne(t, svc)
	if email.Subject != "Ticket Resolved: Broken blender" {
		t.Errorf("subject = %q", email.Subject)
	}
	if !strings.Contains(email.Body, "marked as resolved by Tess") {
		t.Errorf("body = %q", email.Body)
	}
}

func TestQueueFullDropsInsteadOfBlocking(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, nil, zap.NewNop(), config.NotificationConfig{QueueSize: 1})
	svc.RegisterHandlers()

	for i := 0; i < 3; i++ {
		_ = dispatcher.Publish(context.Background(), events.Event{
			Type: events.EventTicketAssigned,
			Payload: events.TicketAssignedPayload{
				Title:           "Overflow",
				TechnicianEmail: "tess@corp.test",
			},
		})
	}
	// One message fits; the rest are dropped without blocking the publisher.
	_ = drainOne(t, svc)
	select {
	case email := <-svc.Queue():
		t.Fatalf("unexpected second email %+v", email)
	default:
	}
}
