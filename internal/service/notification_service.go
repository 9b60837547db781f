package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/event-ticketing/internal/config"
	"github.com/spec-kit/event-ticketing/internal/events"
)

// NotificationService handles emitting notifications for domain events.
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
	n.dispatcher.Subscribe(events.EventPaymentInitialized, n.handlePaymentInitialized)
	n.dispatcher.Subscribe(events.EventPaymentPaid, n.handlePaymentPaid)
	n.dispatcher.Subscribe(events.EventPaymentFailed, n.handlePaymentFailed)
	n.dispatcher.Subscribe(events.EventTicketIssued, n.handleTicketIssued)
	n.dispatcher.Subscribe(events.EventFeedbackCreated, n.handleFeedbackCreated)
}

func (n *NotificationService) handlePaymentInitialized(ctx context.Context, event events.Event) error {
	n.logger.Info("PaymentInitialized", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handlePaymentPaid(ctx context.Context, event events.Event) error {
	n.logger.Info("PaymentPaid", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePaymentFailed(ctx context.Context, event events.Event) error {
	n.logger.Warn("PaymentFailed", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketIssued(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketIssued", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleFeedbackCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("FeedbackCreated", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
