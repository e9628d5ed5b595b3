package store

import (
	"context"

	"delicias-backend/internal/models"
)

// GetActiveSubscriptions retrieves active club plans ordered by price
func (s *Store) GetActiveSubscriptions(ctx context.Context) ([]models.ClubSubscription, error) {
	var subs []models.ClubSubscription
	err := s.db.SelectContext(ctx, &subs,
		"SELECT * FROM club_subscriptions WHERE is_active = TRUE ORDER BY price")
	return subs, err
}

// CreateSubscription creates a club plan
func (s *Store) CreateSubscription(ctx context.Context, sub *models.ClubSubscription) error {
	query := `
		INSERT INTO club_subscriptions (name, tier, price, description, features, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, sub, query,
		sub.Name, sub.Tier, sub.Price, sub.Description, sub.Features, sub.IsActive)
}

// GetActiveDiscounts retrieves active, unexpired discount codes
func (s *Store) GetActiveDiscounts(ctx context.Context) ([]models.ClubDiscount, error) {
	var discounts []models.ClubDiscount
	err := s.db.SelectContext(ctx, &discounts,
		"SELECT * FROM club_discounts WHERE is_active = TRUE AND valid_until > NOW() ORDER BY valid_until")
	return discounts, err
}

// CreateDiscount creates a discount code
func (s *Store) CreateDiscount(ctx context.Context, d *models.ClubDiscount) error {
	query := `
		INSERT INTO club_discounts (code, title, description, discount_percentage, tier_required, valid_until, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, d, query,
		d.Code, d.Title, d.Description, d.DiscountPercentage, d.TierRequired,
		d.ValidUntil, d.IsActive)
}

// GetActiveMessages retrieves active club announcements, newest first
func (s *Store) GetActiveMessages(ctx context.Context) ([]models.ClubMessage, error) {
	var messages []models.ClubMessage
	err := s.db.SelectContext(ctx, &messages,
		"SELECT * FROM club_messages WHERE is_active = TRUE ORDER BY created_at DESC")
	return messages, err
}

// CreateMessage creates a club announcement
func (s *Store) CreateMessage(ctx context.Context, m *models.ClubMessage) error {
	query := `
		INSERT INTO club_messages (title, content, target_tier, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, m, query,
		m.Title, m.Content, m.TargetTier, m.IsActive)
}

// CreateContactRequest records a custom order inquiry
func (s *Store) CreateContactRequest(ctx context.Context, cr *models.ContactRequest) error {
	query := `
		INSERT INTO contact_requests (name, phone, product, date, voucher_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, cr, query,
		cr.Name, cr.Phone, cr.Product, cr.Date, cr.VoucherURL)
}

// GetContactRequests retrieves all custom order inquiries, newest first
func (s *Store) GetContactRequests(ctx context.Context) ([]models.ContactRequest, error) {
	var requests []models.ContactRequest
	err := s.db.SelectContext(ctx, &requests,
		"SELECT * FROM contact_requests ORDER BY created_at DESC")
	return requests, err
}
