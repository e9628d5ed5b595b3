package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"delicias-backend/config"
	"delicias-backend/internal/mercadopago"
	"delicias-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMPConfig() config.MercadoPagoConfig {
	return config.MercadoPagoConfig{
		AccessToken: "test-token",
		APIURL:      "https://api.test",
		BaseURL:     "https://delicias.test",
		Currency:    "CLP",
	}
}

func newCheckout(store OrderStore, gateway Gateway, publisher EventPublisher) *CheckoutService {
	return NewCheckoutService(store, gateway, publisher, testMPConfig())
}

func TestCreatePaymentValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     *CreatePaymentRequest
		wantErr string
	}{
		{
			name:    "empty_items",
			req:     &CreatePaymentRequest{PayerEmail: "ana@example.com"},
			wantErr: "Items array is required and cannot be empty",
		},
		{
			name: "email_without_at",
			req: &CreatePaymentRequest{
				Items:      []models.LineItem{{Title: "Torta", Quantity: 1, UnitPrice: 12000}},
				PayerEmail: "not-an-email",
			},
			wantErr: "Valid payer email is required",
		},
		{
			name: "missing_email",
			req: &CreatePaymentRequest{
				Items: []models.LineItem{{Title: "Torta", Quantity: 1, UnitPrice: 12000}},
			},
			wantErr: "Valid payer email is required",
		},
		{
			name: "item_without_title",
			req: &CreatePaymentRequest{
				Items:      []models.LineItem{{Quantity: 1, UnitPrice: 12000}},
				PayerEmail: "ana@example.com",
			},
			wantErr: "Each item must have title, quantity, and unit_price",
		},
		{
			name: "item_without_quantity",
			req: &CreatePaymentRequest{
				Items:      []models.LineItem{{Title: "Torta", UnitPrice: 12000}},
				PayerEmail: "ana@example.com",
			},
			wantErr: "Each item must have title, quantity, and unit_price",
		},
		{
			name: "negative_quantity",
			req: &CreatePaymentRequest{
				Items:      []models.LineItem{{Title: "Torta", Quantity: -1, UnitPrice: 12000}},
				PayerEmail: "ana@example.com",
			},
			wantErr: "Quantity and unit_price must be positive numbers",
		},
		{
			name: "negative_unit_price",
			req: &CreatePaymentRequest{
				Items:      []models.LineItem{{Title: "Torta", Quantity: 1, UnitPrice: -500}},
				PayerEmail: "ana@example.com",
			},
			wantErr: "Quantity and unit_price must be positive numbers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := &fakeGateway{}
			store := newFakeOrderStore()
			svc := newCheckout(store, gateway, &fakePublisher{})

			_, err := svc.CreatePayment(context.Background(), tt.req, "")

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantErr, verr.Error())

			// validation failures must short-circuit before the gateway
			assert.Zero(t, gateway.createCalls)
			assert.Empty(t, store.orders)
		})
	}
}

func TestCreatePaymentSuccess(t *testing.T) {
	gateway := &fakeGateway{
		pref: &mercadopago.Preference{
			ID:               "pref-123",
			InitPoint:        "https://mp.test/init",
			SandboxInitPoint: "https://mp.test/sandbox",
		},
	}
	store := newFakeOrderStore()
	publisher := &fakePublisher{}
	svc := newCheckout(store, gateway, publisher)

	req := &CreatePaymentRequest{
		Items:      []models.LineItem{{Title: "Alfajores", Quantity: 2, UnitPrice: 2500}},
		PayerEmail: "ana@example.com",
	}

	resp, err := svc.CreatePayment(context.Background(), req, "")
	require.NoError(t, err)

	assert.Equal(t, "https://mp.test/init", resp.InitPoint)
	assert.Equal(t, "https://mp.test/sandbox", resp.SandboxInitPoint)
	assert.Equal(t, "pref-123", resp.PreferenceID)
	assert.Regexp(t, regexp.MustCompile(`^order_\d+$`), resp.ExternalReference)

	order, err := store.GetOrderByExternalReference(context.Background(), resp.ExternalReference)
	require.NoError(t, err)
	assert.Equal(t, float64(5000), order.TotalPrice)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "pref-123", order.MPPreferenceID)
	assert.Equal(t, "ana@example.com", order.PayerEmail)

	require.Len(t, publisher.created, 1)
	assert.Equal(t, resp.ExternalReference, publisher.created[0].ExternalReference)
}

func TestCreatePaymentDefaultsCurrency(t *testing.T) {
	gateway := &fakeGateway{pref: &mercadopago.Preference{ID: "pref-1"}}
	svc := newCheckout(newFakeOrderStore(), gateway, &fakePublisher{})

	req := &CreatePaymentRequest{
		Items: []models.LineItem{
			{Title: "Torta", Quantity: 1, UnitPrice: 12000},
			{Title: "Brownie", Quantity: 3, UnitPrice: 1500, CurrencyID: "ARS"},
		},
		PayerEmail: "ana@example.com",
	}

	_, err := svc.CreatePayment(context.Background(), req, "")
	require.NoError(t, err)

	require.NotNil(t, gateway.lastPref)
	assert.Equal(t, "CLP", gateway.lastPref.Items[0].CurrencyID)
	assert.Equal(t, "ARS", gateway.lastPref.Items[1].CurrencyID)
	assert.Equal(t, "approved", gateway.lastPref.AutoReturn)
	assert.Equal(t, "https://delicias.test/api/v1/payments/webhook", gateway.lastPref.NotificationURL)
}

func TestCreatePaymentUsesOriginForBackURLs(t *testing.T) {
	gateway := &fakeGateway{pref: &mercadopago.Preference{ID: "pref-1"}}
	svc := newCheckout(newFakeOrderStore(), gateway, &fakePublisher{})

	req := &CreatePaymentRequest{
		Items:      []models.LineItem{{Title: "Torta", Quantity: 1, UnitPrice: 12000}},
		PayerEmail: "ana@example.com",
	}

	_, err := svc.CreatePayment(context.Background(), req, "https://shop.example")
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example/?payment=success", gateway.lastPref.BackURLs.Success)
	assert.Equal(t, "https://shop.example/?payment=pending", gateway.lastPref.BackURLs.Pending)
	assert.Equal(t, "https://shop.example/?payment=failure", gateway.lastPref.BackURLs.Failure)

	// webhook URL must stay pinned to the configured base
	assert.Equal(t, "https://delicias.test/api/v1/payments/webhook", gateway.lastPref.NotificationURL)
}

func TestCreatePaymentKeepsCallerReference(t *testing.T) {
	gateway := &fakeGateway{pref: &mercadopago.Preference{ID: "pref-1"}}
	store := newFakeOrderStore()
	svc := newCheckout(store, gateway, &fakePublisher{})

	req := &CreatePaymentRequest{
		Items:             []models.LineItem{{Title: "Torta", Quantity: 1, UnitPrice: 12000}},
		PayerEmail:        "ana@example.com",
		ExternalReference: "order_42_custom",
	}

	resp, err := svc.CreatePayment(context.Background(), req, "")
	require.NoError(t, err)
	assert.Equal(t, "order_42_custom", resp.ExternalReference)
	assert.Contains(t, store.orders, "order_42_custom")
}

func TestCreatePaymentGatewayError(t *testing.T) {
	apiErr := &mercadopago.APIError{StatusCode: 401, Body: "invalid token"}
	gateway := &fakeGateway{createErr: apiErr}
	store := newFakeOrderStore()
	svc := newCheckout(store, gateway, &fakePublisher{})

	req := &CreatePaymentRequest{
		Items:             []models.LineItem{{Title: "Torta", Quantity: 1, UnitPrice: 12000}},
		PayerEmail:        "ana@example.com",
		ExternalReference: "order_7",
	}

	_, err := svc.CreatePayment(context.Background(), req, "")
	require.Error(t, err)

	var gotAPIErr *mercadopago.APIError
	assert.ErrorAs(t, err, &gotAPIErr)

	// the intent row is closed out, not left dangling
	order, err := store.GetOrderByExternalReference(context.Background(), "order_7")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
}

func TestCreatePaymentStoreFailureIsNonFatal(t *testing.T) {
	gateway := &fakeGateway{pref: &mercadopago.Preference{ID: "pref-1", InitPoint: "https://mp.test/init"}}
	store := newFakeOrderStore()
	store.createErr = errors.New("db down")
	svc := newCheckout(store, gateway, &fakePublisher{})

	req := &CreatePaymentRequest{
		Items:      []models.LineItem{{Title: "Torta", Quantity: 1, UnitPrice: 12000}},
		PayerEmail: "ana@example.com",
	}

	resp, err := svc.CreatePayment(context.Background(), req, "")
	require.NoError(t, err)
	assert.Equal(t, "https://mp.test/init", resp.InitPoint)
	assert.Equal(t, 1, gateway.createCalls)
}
