package service

import (
	"context"

	"delicias-backend/internal/models"
	"delicias-backend/internal/store"
	"delicias-backend/internal/util"

	"go.uber.org/zap"
)

// OrderService serves order history and admin order management
type OrderService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store *store.Store) *OrderService {
	return &OrderService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// ListOrdersByEmail returns a buyer's order history
func (s *OrderService) ListOrdersByEmail(ctx context.Context, email string) ([]models.Order, error) {
	return s.store.GetOrdersByEmail(ctx, email)
}

// ListOrders returns all orders (admin)
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.store.GetOrders(ctx)
}

// GetOrder returns one order by ID
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return s.store.GetOrderByID(ctx, id)
}

// OverrideStatus sets an order's status manually (admin). Overrides go
// through the same monotonic transition as webhooks: a settled order stays
// settled.
func (s *OrderService) OverrideStatus(ctx context.Context, id int64, status string) (*models.Order, error) {
	switch status {
	case models.OrderStatusPending, models.OrderStatusCompleted, models.OrderStatusCancelled:
	default:
		return nil, errInvalid("Unknown order status")
	}

	order, err := s.store.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := NextStatus(order.Status, status)
	if next != order.Status {
		if err := s.store.UpdateOrderStatus(ctx, order.ExternalReference, next); err != nil {
			return nil, err
		}
		util.OrderStatusTransitionsTotal.WithLabelValues(order.Status, next).Inc()
		s.logger.Info("Order status overridden",
			zap.Int64("order_id", order.ID),
			zap.String("from", order.Status),
			zap.String("to", next))
	}
	order.Status = next
	return order, nil
}
