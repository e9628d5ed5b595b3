package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"delicias-backend/internal/mercadopago"
	"delicias-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paymentNotification(id string) *Notification {
	var n Notification
	n.Type = "payment"
	n.Data.ID = json.Number(id)
	return &n
}

func pendingOrder(ref string) *models.Order {
	return &models.Order{
		ID:                1,
		ExternalReference: ref,
		PayerEmail:        "ana@example.com",
		TotalPrice:        5000,
		Status:            models.OrderStatusPending,
	}
}

func TestProcessNotificationIgnoresNonPayment(t *testing.T) {
	gateway := &fakeGateway{}
	store := newFakeOrderStore()
	store.orders["order_123"] = pendingOrder("order_123")
	svc := NewWebhookService(store, gateway, &fakePublisher{})

	var n Notification
	n.Type = "merchant_order"
	n.Data.ID = json.Number("999")

	err := svc.ProcessNotification(context.Background(), &n)
	require.NoError(t, err)

	assert.Zero(t, gateway.getCalls)
	assert.Equal(t, models.OrderStatusPending, store.orders["order_123"].Status)
}

func TestProcessNotificationIgnoresMissingPaymentID(t *testing.T) {
	gateway := &fakeGateway{}
	svc := NewWebhookService(newFakeOrderStore(), gateway, &fakePublisher{})

	var n Notification
	n.Type = "payment"

	err := svc.ProcessNotification(context.Background(), &n)
	require.NoError(t, err)
	assert.Zero(t, gateway.getCalls)
}

func TestProcessNotificationApproved(t *testing.T) {
	gateway := &fakeGateway{
		payment: &mercadopago.Payment{
			ID:                json.Number("999"),
			Status:            "approved",
			StatusDetail:      "accredited",
			ExternalReference: "order_123",
		},
	}
	store := newFakeOrderStore()
	store.orders["order_123"] = pendingOrder("order_123")
	publisher := &fakePublisher{}
	svc := NewWebhookService(store, gateway, publisher)

	err := svc.ProcessNotification(context.Background(), paymentNotification("999"))
	require.NoError(t, err)

	order := store.orders["order_123"]
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.Equal(t, "999", order.MPPaymentID)
	assert.Equal(t, "approved", order.MPStatus)
	assert.Equal(t, "accredited", order.MPStatusDetail)

	require.Len(t, publisher.completed, 1)
	assert.Equal(t, "order_123", publisher.completed[0].ExternalReference)
	assert.Equal(t, "999", publisher.completed[0].PaymentID)
}

func TestProcessNotificationIdempotent(t *testing.T) {
	gateway := &fakeGateway{
		payment: &mercadopago.Payment{
			ID:                json.Number("999"),
			Status:            "approved",
			StatusDetail:      "accredited",
			ExternalReference: "order_123",
		},
	}
	store := newFakeOrderStore()
	store.orders["order_123"] = pendingOrder("order_123")
	publisher := &fakePublisher{}
	svc := NewWebhookService(store, gateway, publisher)

	require.NoError(t, svc.ProcessNotification(context.Background(), paymentNotification("999")))
	require.NoError(t, svc.ProcessNotification(context.Background(), paymentNotification("999")))

	order := store.orders["order_123"]
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.Equal(t, "999", order.MPPaymentID)
	assert.Equal(t, "accredited", order.MPStatusDetail)

	// the buyer gets exactly one confirmation
	assert.Len(t, publisher.completed, 1)
}

func TestProcessNotificationRejected(t *testing.T) {
	gateway := &fakeGateway{
		payment: &mercadopago.Payment{
			ID:                json.Number("1000"),
			Status:            "rejected",
			StatusDetail:      "cc_rejected_insufficient_amount",
			ExternalReference: "order_123",
		},
	}
	store := newFakeOrderStore()
	store.orders["order_123"] = pendingOrder("order_123")
	publisher := &fakePublisher{}
	svc := NewWebhookService(store, gateway, publisher)

	err := svc.ProcessNotification(context.Background(), paymentNotification("1000"))
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCancelled, store.orders["order_123"].Status)
	require.Len(t, publisher.cancelled, 1)
	assert.Equal(t, "cc_rejected_insufficient_amount", publisher.cancelled[0].Reason)
}

func TestProcessNotificationDoesNotRegressTerminalOrder(t *testing.T) {
	gateway := &fakeGateway{
		payment: &mercadopago.Payment{
			ID:                json.Number("999"),
			Status:            "pending",
			StatusDetail:      "pending_waiting_payment",
			ExternalReference: "order_123",
		},
	}
	store := newFakeOrderStore()
	completed := pendingOrder("order_123")
	completed.Status = models.OrderStatusCompleted
	store.orders["order_123"] = completed
	publisher := &fakePublisher{}
	svc := NewWebhookService(store, gateway, publisher)

	err := svc.ProcessNotification(context.Background(), paymentNotification("999"))
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCompleted, store.orders["order_123"].Status)
	assert.Empty(t, publisher.completed)
	assert.Empty(t, publisher.cancelled)
}

func TestProcessNotificationOrderNotFound(t *testing.T) {
	gateway := &fakeGateway{
		payment: &mercadopago.Payment{
			ID:                json.Number("999"),
			Status:            "approved",
			ExternalReference: "order_missing",
		},
	}
	store := newFakeOrderStore()
	svc := NewWebhookService(store, gateway, &fakePublisher{})

	err := svc.ProcessNotification(context.Background(), paymentNotification("999"))
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
	assert.Zero(t, store.updates)
}

func TestProcessNotificationGatewayFetchError(t *testing.T) {
	gateway := &fakeGateway{getErr: &mercadopago.APIError{StatusCode: 500, Body: "boom"}}
	store := newFakeOrderStore()
	store.orders["order_123"] = pendingOrder("order_123")
	svc := NewWebhookService(store, gateway, &fakePublisher{})

	err := svc.ProcessNotification(context.Background(), paymentNotification("999"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrOrderNotFound)
	assert.Equal(t, models.OrderStatusPending, store.orders["order_123"].Status)
}

func TestProcessNotificationUpdateFailure(t *testing.T) {
	gateway := &fakeGateway{
		payment: &mercadopago.Payment{
			ID:                json.Number("999"),
			Status:            "approved",
			ExternalReference: "order_123",
		},
	}
	store := newFakeOrderStore()
	store.orders["order_123"] = pendingOrder("order_123")
	store.updateErr = errors.New("db down")
	svc := NewWebhookService(store, gateway, &fakePublisher{})

	err := svc.ProcessNotification(context.Background(), paymentNotification("999"))
	require.Error(t, err)
}
