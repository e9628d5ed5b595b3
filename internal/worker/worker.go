package worker

import (
	"context"
	"log"

	"delicias-backend/internal/broker"
	"delicias-backend/internal/mailer"
	"delicias-backend/internal/models"
	"delicias-backend/internal/util"
)

// MailWorker consumes order lifecycle events and sends buyer notifications.
// Mail failures stay inside this worker; they never reach the webhook
// acknowledgement path.
type MailWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	mailer       *mailer.Mailer
}

// NewMailWorker creates a new mail worker
func NewMailWorker(consumer *broker.Consumer, m *mailer.Mailer) *MailWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnOrderCompleted(func(ctx context.Context, event *models.OrderCompletedEvent) error {
		if err := m.SendOrderConfirmation(event); err != nil {
			util.MailsFailedTotal.Inc()
			log.Printf("Failed to send confirmation for %s: %v", event.ExternalReference, err)
			return nil
		}
		util.MailsSentTotal.Inc()
		return nil
	})

	eventHandler.OnOrderCancelled(func(ctx context.Context, event *models.OrderCancelledEvent) error {
		if err := m.SendOrderCancelled(event); err != nil {
			util.MailsFailedTotal.Inc()
			log.Printf("Failed to send cancellation for %s: %v", event.ExternalReference, err)
			return nil
		}
		util.MailsSentTotal.Inc()
		return nil
	})

	return &MailWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		mailer:       m,
	}
}

// Start starts the worker
func (w *MailWorker) Start(ctx context.Context) error {
	log.Println("Starting mail worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *MailWorker) Stop() error {
	log.Println("Stopping mail worker...")
	return w.consumer.Close()
}
