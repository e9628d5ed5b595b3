package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"delicias-backend/internal/models"
	"delicias-backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WebhookService consumes asynchronous gateway notifications and brings the
// matching order to its authoritative status
type WebhookService struct {
	store     OrderStore
	gateway   Gateway
	publisher EventPublisher
	logger    *zap.Logger
}

// NewWebhookService creates a new webhook service
func NewWebhookService(store OrderStore, gateway Gateway, publisher EventPublisher) *WebhookService {
	return &WebhookService{
		store:     store,
		gateway:   gateway,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// Notification is the gateway's webhook envelope. Only the type and the
// payment id are read; business fields are re-fetched from the gateway.
type Notification struct {
	Type string `json:"type"`
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

// ProcessNotification handles one webhook delivery. A nil return means the
// delivery is acknowledged; models.ErrOrderNotFound maps to 404 at the
// handler, any other error to 500 so the gateway redelivers.
func (s *WebhookService) ProcessNotification(ctx context.Context, n *Notification) error {
	ctx, span := util.StartSpan(ctx, "WebhookService.ProcessNotification")
	defer span.End()

	util.WebhooksReceivedTotal.WithLabelValues(n.Type).Inc()

	if n.Type != "payment" {
		s.logger.Debug("Ignoring non-payment notification", zap.String("type", n.Type))
		return nil
	}

	paymentID := n.Data.ID.String()
	if paymentID == "" {
		s.logger.Debug("Webhook carries no payment id")
		return nil
	}

	// The pushed payload is only a pointer; status comes from an
	// authenticated fetch.
	payment, err := s.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		util.GatewayErrorsTotal.WithLabelValues("get_payment").Inc()
		return fmt.Errorf("failed to fetch payment %s: %w", paymentID, err)
	}

	order, err := s.store.GetOrderByExternalReference(ctx, payment.ExternalReference)
	if err != nil {
		return err
	}

	mapped := MapGatewayStatus(payment.Status)
	next := NextStatus(order.Status, mapped)
	if next != mapped {
		s.logger.Warn("Ignoring status regression for settled order",
			zap.String("external_reference", order.ExternalReference),
			zap.String("current", order.Status),
			zap.String("incoming", mapped))
	}

	if err := s.store.UpdateOrderPayment(ctx, order.ExternalReference, next,
		payment.ID.String(), payment.Status, payment.StatusDetail); err != nil {
		return fmt.Errorf("failed to update order %s: %w", order.ExternalReference, err)
	}

	util.OrderStatusTransitionsTotal.WithLabelValues(order.Status, next).Inc()
	s.logger.Info("Order updated from webhook",
		zap.String("external_reference", order.ExternalReference),
		zap.String("status", next),
		zap.String("mp_status", payment.Status))

	// Downstream notifications ride on Kafka so their failures never make
	// the gateway redeliver.
	if next != order.Status {
		s.publishTransition(ctx, order, next, payment.ID.String(), payment.StatusDetail)
	}

	return nil
}

func (s *WebhookService) publishTransition(ctx context.Context, order *models.Order, next, paymentID, detail string) {
	base := models.BaseEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
	}

	switch next {
	case models.OrderStatusCompleted:
		base.EventType = models.EventTypeOrderCompleted
		event := &models.OrderCompletedEvent{
			BaseEvent:         base,
			ExternalReference: order.ExternalReference,
			PayerEmail:        order.PayerEmail,
			TotalPrice:        order.TotalPrice,
			PaymentID:         paymentID,
		}
		if err := s.publisher.PublishOrderCompleted(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderCompleted event", zap.Error(err))
		}

	case models.OrderStatusCancelled:
		base.EventType = models.EventTypeOrderCancelled
		event := &models.OrderCancelledEvent{
			BaseEvent:         base,
			ExternalReference: order.ExternalReference,
			PayerEmail:        order.PayerEmail,
			Reason:            detail,
		}
		if err := s.publisher.PublishOrderCancelled(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderCancelled event", zap.Error(err))
		}
	}
}
