package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/support-crm/internal/config"
	"github.com/spec-kit/support-crm/internal/domain"
	"github.com/spec-kit/support-crm/internal/events"
	"github.com/spec-kit/support-crm/internal/notify"
)

// OutboundEmail is one rendered message waiting for delivery.
type OutboundEmail struct {
	To      string
	Subject string
	Body    string
}

// NotificationService turns domain events into emails. Handlers only render
// and enqueue; delivery happens on the worker goroutine so a slow or failing
// transport can never block or fail the mutation that triggered it.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     notify.Mailer
	logger     *zap.Logger
	queue      chan OutboundEmail
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer notify.Mailer, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	size := cfg.QueueSize
	if size <= 0 {
		size = 64
	}
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
		queue:      make(chan OutboundEmail, size),
	}
}

// Queue exposes the outbound channel for the delivery worker.
func (n *NotificationService) Queue() <-chan OutboundEmail {
	return n.queue
}

// Deliver sends one message, logging and swallowing any failure.
func (n *NotificationService) Deliver(ctx context.Context, email OutboundEmail) {
	if err := n.mailer.Send(ctx, email.To, email.Subject, email.Body); err != nil {
		n.logger.Error("email send failed",
			zap.String("to", email.To),
			zap.String("subject", email.Subject),
			zap.Error(err))
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
}

func (n *NotificationService) handleTicketCreated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	if payload.TechnicianEmail != "" {
		n.enqueue(OutboundEmail{
			To:      payload.TechnicianEmail,
			Subject: fmt.Sprintf("New Ticket Assigned: %s", payload.Title),
			Body: fmt.Sprintf("Hi %s,\n\nYou have been assigned a new ticket:\n\nTitle: %s\nCustomer: %s (%s)\n\nThanks",
				payload.TechnicianName, payload.Title, payload.Customer.Name, payload.Customer.Email),
		})
	}
	n.enqueue(OutboundEmail{
		To:      payload.Customer.Email,
		Subject: fmt.Sprintf("Ticket Created: %s", payload.Title),
		Body: fmt.Sprintf("Hi %s,\n\nYour ticket has been created successfully.\n\nThanks",
			payload.Customer.Name),
	})
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok || payload.CreatorEmail == "" {
		return nil
	}
	var subject, verb string
	switch payload.NewStatus {
	case domain.TicketStatusResolved:
		subject = fmt.Sprintf("Ticket Resolved: %s", payload.Title)
		verb = "marked as resolved"
	case domain.TicketStatusClosed:
		subject = fmt.Sprintf("Ticket Closed: %s", payload.Title)
		verb = "closed"
	default:
		return nil
	}
	n.enqueue(OutboundEmail{
		To:      payload.CreatorEmail,
		Subject: subject,
		Body: fmt.Sprintf("Hi %s,\n\nThe ticket you created has been %s by %s.\n\nTitle: %s\nDescription: %s\n\nThanks",
			payload.CreatorName, verb, payload.ActorName, payload.Title, payload.Description),
	})
	return nil
}

func (n *NotificationService) handleTicketAssigned(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok || payload.TechnicianEmail == "" {
		return nil
	}
	n.enqueue(OutboundEmail{
		To:      payload.TechnicianEmail,
		Subject: fmt.Sprintf("New Ticket Assigned: %s", payload.Title),
		Body: fmt.Sprintf("Hi %s,\n\nYou have been assigned a new ticket titled %q.\n\nPlease check and proceed accordingly.\n\nThanks",
			payload.TechnicianName, payload.Title),
	})
	return nil
}

func (n *NotificationService) handleUserRegistered(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		return nil
	}
	n.enqueue(OutboundEmail{
		To:      payload.Email,
		Subject: "Your account has been created",
		Body: fmt.Sprintf("Hello %s,\n\nYour account has been created.\nEmail: %s\nPassword: %s\n\nPlease login and change your password.",
			payload.Name, payload.Email, payload.PlainPassword),
	})
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return nil
	}
	n.enqueue(OutboundEmail{
		To:      payload.Email,
		Subject: "Password Reset Request",
		Body:    fmt.Sprintf("Click the following link to reset your password: %s", payload.ResetLink),
	})
	return nil
}

// enqueue never blocks: when the queue is full the message is dropped with a
// log line, matching the best-effort delivery contract.
func (n *NotificationService) enqueue(email OutboundEmail) {
	select {
	case n.queue <- email:
	default:
		n.logger.Warn("notification queue full; dropping email",
			zap.String("to", email.To),
			zap.String("subject", email.Subject))
	}
}
