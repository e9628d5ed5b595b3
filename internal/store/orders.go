package store

import (
	"context"
	"database/sql"
	"errors"

	"delicias-backend/internal/models"
)

// CreateOrder inserts a new checkout attempt. The row is written before the
// gateway is called, so the caller sets status to initiating.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (external_reference, payer_email, products, total_price, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, order, query,
		order.ExternalReference, order.PayerEmail, order.Products,
		order.TotalPrice, order.Status)
}

// GetOrderByExternalReference retrieves an order by its external reference
func (s *Store) GetOrderByExternalReference(ctx context.Context, ref string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE external_reference = $1", ref)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkOrderPending moves an intent row to pending and records the gateway
// preference id. Called after the gateway accepted the preference.
func (s *Store) MarkOrderPending(ctx context.Context, ref, preferenceID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, mp_preference_id = $2, updated_at = NOW()
		 WHERE external_reference = $3`,
		models.OrderStatusPending, preferenceID, ref)
	return err
}

// UpdateOrderStatus updates only the lifecycle status
func (s *Store) UpdateOrderStatus(ctx context.Context, ref, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE external_reference = $2",
		status, ref)
	return err
}

// UpdateOrderPayment overwrites the payment fields from the authoritative
// gateway payment resource. A full overwrite keeps duplicate webhook
// deliveries idempotent.
func (s *Store) UpdateOrderPayment(ctx context.Context, ref, status, paymentID, mpStatus, mpStatusDetail string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE orders
		 SET status = $1, mp_payment_id = $2, mp_status = $3, mp_status_detail = $4, updated_at = NOW()
		 WHERE external_reference = $5`,
		status, paymentID, mpStatus, mpStatusDetail, ref)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrOrderNotFound
	}
	return nil
}

// GetOrdersByEmail retrieves a buyer's order history, newest first
func (s *Store) GetOrdersByEmail(ctx context.Context, email string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE payer_email = $1 ORDER BY created_at DESC", email)
	return orders, err
}

// GetOrders retrieves all orders, newest first
func (s *Store) GetOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders ORDER BY created_at DESC")
	return orders, err
}
