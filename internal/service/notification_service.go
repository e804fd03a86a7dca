package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/vamsrich/sap-itsm-platform-sub000/internal/config"
	"github.com/vamsrich/sap-itsm-platform-sub000/internal/events"
)

// NotificationService consumes SLA notification intents. It is the
// boundary to the mail subsystem: intents are logged and handed to stub
// transports here; actual template rendering and SMTP delivery live
// outside this service and retry independently.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSLANotification, n.handleNotificationIntent)
	n.dispatcher.Subscribe(events.EventSLAPaused, n.handlePauseTransition)
	n.dispatcher.Subscribe(events.EventSLAResumed, n.handlePauseTransition)
}

func (n *NotificationService) handleNotificationIntent(ctx context.Context, event events.Event) error {
	intent, ok := event.Payload.(events.Intent)
	if !ok {
		n.logger.Warn("unexpected notification payload", zap.String("event_id", event.ID))
		return nil
	}
	n.logger.Info("SLANotificationIntent",
		zap.String("ticket_id", intent.TicketID),
		zap.String("tracking_id", intent.TrackingID),
		zap.String("kind", string(intent.Kind)),
		zap.Time("emitted_at", intent.EmittedAt))
	n.sendEmailNotificationStub(ctx, event, string(intent.Kind))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePauseTransition(ctx context.Context, event events.Event) error {
	n.logger.Info("SLAPauseTransition",
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event, kind string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("ticket_id", event.TicketID),
		zap.String("kind", kind))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}
