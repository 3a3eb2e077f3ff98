package worker

import (
	"context"

	"github.com/spec-kit/support-crm/internal/service"
)

// StartNotificationWorker subscribes the notification service to domain
// events and drains its outbound queue on a dedicated goroutine until the
// context is cancelled.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case email := <-notificationService.Queue():
				notificationService.Deliver(ctx, email)
			}
		}
	}()
}
