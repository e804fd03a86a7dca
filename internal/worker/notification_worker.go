package worker

import (
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/service"
)

// StartNotificationWorker subscribes the notification service to SLA
// lifecycle events on the dispatcher.
func StartNotificationWorker(notifications *service.NotificationService) {
	if notifications == nil {
		return
	}
	notifications.RegisterHandlers()
}
