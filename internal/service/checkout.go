package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"delicias-backend/config"
	"delicias-backend/internal/broker"
	"delicias-backend/internal/mercadopago"
	"delicias-backend/internal/models"
	"delicias-backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gateway is the payment gateway surface used by the checkout and webhook
// services
type Gateway interface {
	CreatePreference(ctx context.Context, pref *mercadopago.PreferenceRequest) (*mercadopago.Preference, error)
	GetPayment(ctx context.Context, paymentID string) (*mercadopago.Payment, error)
}

// OrderStore is the order persistence surface used by the checkout and
// webhook services
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByExternalReference(ctx context.Context, ref string) (*models.Order, error)
	MarkOrderPending(ctx context.Context, ref, preferenceID string) error
	UpdateOrderStatus(ctx context.Context, ref, status string) error
	UpdateOrderPayment(ctx context.Context, ref, status, paymentID, mpStatus, mpStatusDetail string) error
}

// EventPublisher publishes order lifecycle events
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error
	PublishOrderCompleted(ctx context.Context, event *models.OrderCompletedEvent) error
	PublishOrderCancelled(ctx context.Context, event *models.OrderCancelledEvent) error
}

var _ Gateway = (*mercadopago.Client)(nil)
var _ EventPublisher = (*broker.EventPublisher)(nil)

// ValidationError marks a client input error so the handler can answer 400
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func errInvalid(msg string) error {
	return &ValidationError{msg: msg}
}

// CheckoutService turns a cart into a gateway-hosted checkout session and a
// locally tracked order
type CheckoutService struct {
	store     OrderStore
	gateway   Gateway
	publisher EventPublisher
	cfg       config.MercadoPagoConfig
	logger    *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(store OrderStore, gateway Gateway, publisher EventPublisher, cfg config.MercadoPagoConfig) *CheckoutService {
	return &CheckoutService{
		store:     store,
		gateway:   gateway,
		publisher: publisher,
		cfg:       cfg,
		logger:    util.GetLogger(),
	}
}

// CreatePaymentRequest is the checkout input
type CreatePaymentRequest struct {
	Items             []models.LineItem `json:"items"`
	PayerEmail        string            `json:"payer_email"`
	ExternalReference string            `json:"external_reference,omitempty"`
}

// CreatePaymentResponse carries the gateway redirect URLs back to the client
type CreatePaymentResponse struct {
	InitPoint         string `json:"init_point"`
	SandboxInitPoint  string `json:"sandbox_init_point"`
	PreferenceID      string `json:"preference_id"`
	ExternalReference string `json:"external_reference"`
}

// validate checks the cart in a fixed order so failures always report the
// first broken rule
func (s *CheckoutService) validate(req *CreatePaymentRequest) error {
	if len(req.Items) == 0 {
		return errInvalid("Items array is required and cannot be empty")
	}
	if !strings.Contains(req.PayerEmail, "@") {
		return errInvalid("Valid payer email is required")
	}
	for _, item := range req.Items {
		if item.Title == "" || item.Quantity == 0 || item.UnitPrice == 0 {
			return errInvalid("Each item must have title, quantity, and unit_price")
		}
		if item.Quantity < 0 || item.UnitPrice < 0 {
			return errInvalid("Quantity and unit_price must be positive numbers")
		}
	}
	return nil
}

// CreatePayment validates the cart, records an intent row, creates the
// gateway preference and promotes the row to pending. Origin, when non-empty,
// overrides the configured base URL for the buyer-facing back URLs.
func (s *CheckoutService) CreatePayment(ctx context.Context, req *CreatePaymentRequest, origin string) (*CreatePaymentResponse, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.CreatePayment")
	defer span.End()

	if err := s.validate(req); err != nil {
		util.PaymentValidationFailedTotal.WithLabelValues(validationReason(err)).Inc()
		return nil, err
	}

	externalReference := req.ExternalReference
	if externalReference == "" {
		externalReference = fmt.Sprintf("order_%d", time.Now().UnixMilli())
	}

	items := make([]models.LineItem, len(req.Items))
	var total float64
	for i, item := range req.Items {
		items[i] = item
		if items[i].CurrencyID == "" {
			items[i].CurrencyID = s.cfg.Currency
		}
		total += item.UnitPrice * float64(item.Quantity)
	}

	serialized, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize items: %w", err)
	}

	// Intent row first. If this write fails the checkout still proceeds:
	// the gateway session is what the buyer needs, the local row is
	// bookkeeping.
	order := &models.Order{
		ExternalReference: externalReference,
		PayerEmail:        req.PayerEmail,
		Products:          string(serialized),
		TotalPrice:        total,
		Status:            models.OrderStatusInitiating,
	}
	intentRecorded := true
	if err := s.store.CreateOrder(ctx, order); err != nil {
		intentRecorded = false
		s.logger.Error("Failed to record order intent",
			zap.String("external_reference", externalReference),
			zap.Error(err))
	}

	baseURL := s.cfg.BaseURL
	if origin != "" {
		baseURL = origin
	}

	pref := &mercadopago.PreferenceRequest{
		Items:             items,
		Payer:             mercadopago.Payer{Email: req.PayerEmail},
		BackURLs:          backURLs(baseURL),
		AutoReturn:        "approved",
		ExternalReference: externalReference,
		NotificationURL:   s.cfg.BaseURL + "/api/v1/payments/webhook",
	}

	created, err := s.gateway.CreatePreference(ctx, pref)
	if err != nil {
		util.GatewayErrorsTotal.WithLabelValues("create_preference").Inc()
		if intentRecorded {
			if uerr := s.store.UpdateOrderStatus(ctx, externalReference, models.OrderStatusCancelled); uerr != nil {
				s.logger.Error("Failed to cancel order intent", zap.Error(uerr))
			}
		}
		return nil, fmt.Errorf("failed to create preference: %w", err)
	}

	if intentRecorded {
		if err := s.store.MarkOrderPending(ctx, externalReference, created.ID); err != nil {
			s.logger.Error("Failed to mark order pending",
				zap.String("external_reference", externalReference),
				zap.Error(err))
		}
	}

	util.PaymentsCreatedTotal.Inc()
	s.logger.Info("Checkout session created",
		zap.String("external_reference", externalReference),
		zap.String("preference_id", created.ID),
		zap.Float64("total_price", total))

	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now(),
		},
		ExternalReference: externalReference,
		PayerEmail:        req.PayerEmail,
		TotalPrice:        total,
		PreferenceID:      created.ID,
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}

	return &CreatePaymentResponse{
		InitPoint:         created.InitPoint,
		SandboxInitPoint:  created.SandboxInitPoint,
		PreferenceID:      created.ID,
		ExternalReference: externalReference,
	}, nil
}

func backURLs(baseURL string) mercadopago.BackURLs {
	return mercadopago.BackURLs{
		Success: baseURL + "/?payment=success",
		Pending: baseURL + "/?payment=pending",
		Failure: baseURL + "/?payment=failure",
	}
}

func validationReason(err error) string {
	switch err.Error() {
	case "Items array is required and cannot be empty":
		return "items_required"
	case "Valid payer email is required":
		return "invalid_email"
	case "Each item must have title, quantity, and unit_price":
		return "incomplete_item"
	default:
		return "non_positive_amount"
	}
}
