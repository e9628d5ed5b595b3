package service

import (
	"context"

	"delicias-backend/internal/mercadopago"
	"delicias-backend/internal/models"
)

// fakeGateway counts calls and replays canned responses
type fakeGateway struct {
	createCalls int
	lastPref    *mercadopago.PreferenceRequest
	pref        *mercadopago.Preference
	createErr   error

	getCalls int
	payment  *mercadopago.Payment
	getErr   error
}

func (g *fakeGateway) CreatePreference(ctx context.Context, pref *mercadopago.PreferenceRequest) (*mercadopago.Preference, error) {
	g.createCalls++
	g.lastPref = pref
	if g.createErr != nil {
		return nil, g.createErr
	}
	return g.pref, nil
}

func (g *fakeGateway) GetPayment(ctx context.Context, paymentID string) (*mercadopago.Payment, error) {
	g.getCalls++
	if g.getErr != nil {
		return nil, g.getErr
	}
	return g.payment, nil
}

// fakeOrderStore keeps orders in a map keyed by external reference
type fakeOrderStore struct {
	orders    map[string]*models.Order
	createErr error
	updateErr error
	updates   int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]*models.Order)}
}

func (s *fakeOrderStore) CreateOrder(ctx context.Context, order *models.Order) error {
	if s.createErr != nil {
		return s.createErr
	}
	cp := *order
	s.orders[order.ExternalReference] = &cp
	return nil
}

func (s *fakeOrderStore) GetOrderByExternalReference(ctx context.Context, ref string) (*models.Order, error) {
	order, ok := s.orders[ref]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	cp := *order
	return &cp, nil
}

func (s *fakeOrderStore) MarkOrderPending(ctx context.Context, ref, preferenceID string) error {
	if order, ok := s.orders[ref]; ok {
		order.Status = models.OrderStatusPending
		order.MPPreferenceID = preferenceID
	}
	return nil
}

func (s *fakeOrderStore) UpdateOrderStatus(ctx context.Context, ref, status string) error {
	if order, ok := s.orders[ref]; ok {
		order.Status = status
	}
	return nil
}

func (s *fakeOrderStore) UpdateOrderPayment(ctx context.Context, ref, status, paymentID, mpStatus, mpStatusDetail string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	order, ok := s.orders[ref]
	if !ok {
		return models.ErrOrderNotFound
	}
	s.updates++
	order.Status = status
	order.MPPaymentID = paymentID
	order.MPStatus = mpStatus
	order.MPStatusDetail = mpStatusDetail
	return nil
}

// fakePublisher records published events
type fakePublisher struct {
	created   []*models.OrderCreatedEvent
	completed []*models.OrderCompletedEvent
	cancelled []*models.OrderCancelledEvent
}

func (p *fakePublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	p.created = append(p.created, event)
	return nil
}

func (p *fakePublisher) PublishOrderCompleted(ctx context.Context, event *models.OrderCompletedEvent) error {
	p.completed = append(p.completed, event)
	return nil
}

func (p *fakePublisher) PublishOrderCancelled(ctx context.Context, event *models.OrderCancelledEvent) error {
	p.cancelled = append(p.cancelled, event)
	return nil
}
