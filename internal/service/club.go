package service

import (
	"context"

	"delicias-backend/internal/models"
	"delicias-backend/internal/store"
	"delicias-backend/internal/util"

	"go.uber.org/zap"
)

// ClubService serves membership plans, discounts and announcements
type ClubService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewClubService creates a new club service
func NewClubService(store *store.Store) *ClubService {
	return &ClubService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// ListSubscriptions returns the active membership plans
func (s *ClubService) ListSubscriptions(ctx context.Context) ([]models.ClubSubscription, error) {
	return s.store.GetActiveSubscriptions(ctx)
}

// CreateSubscription creates a membership plan (admin)
func (s *ClubService) CreateSubscription(ctx context.Context, sub *models.ClubSubscription) error {
	return s.store.CreateSubscription(ctx, sub)
}

// ListDiscounts returns the active discounts a member of tier may redeem
func (s *ClubService) ListDiscounts(ctx context.Context, tier string) ([]models.ClubDiscount, error) {
	discounts, err := s.store.GetActiveDiscounts(ctx)
	if err != nil {
		return nil, err
	}
	return FilterDiscountsByTier(discounts, tier), nil
}

// CreateDiscount creates a discount code (admin)
func (s *ClubService) CreateDiscount(ctx context.Context, d *models.ClubDiscount) error {
	return s.store.CreateDiscount(ctx, d)
}

// ListMessages returns the active announcements visible to a member of tier
func (s *ClubService) ListMessages(ctx context.Context, tier string) ([]models.ClubMessage, error) {
	messages, err := s.store.GetActiveMessages(ctx)
	if err != nil {
		return nil, err
	}
	return FilterMessagesByTier(messages, tier), nil
}

// CreateMessage creates an announcement (admin)
func (s *ClubService) CreateMessage(ctx context.Context, m *models.ClubMessage) error {
	return s.store.CreateMessage(ctx, m)
}

// CreateContactRequest records a custom cake inquiry
func (s *ClubService) CreateContactRequest(ctx context.Context, cr *models.ContactRequest) error {
	s.logger.Info("Contact request received",
		zap.String("name", cr.Name),
		zap.String("product", cr.Product))
	return s.store.CreateContactRequest(ctx, cr)
}

// ListContactRequests returns all custom cake inquiries (admin)
func (s *ClubService) ListContactRequests(ctx context.Context) ([]models.ContactRequest, error) {
	return s.store.GetContactRequests(ctx)
}

// FilterDiscountsByTier keeps the discounts a member of tier may redeem
func FilterDiscountsByTier(discounts []models.ClubDiscount, tier string) []models.ClubDiscount {
	eligible := make([]models.ClubDiscount, 0, len(discounts))
	for _, d := range discounts {
		if models.TierAtLeast(tier, d.TierRequired) {
			eligible = append(eligible, d)
		}
	}
	return eligible
}

// FilterMessagesByTier keeps announcements targeted at tier or untargeted
func FilterMessagesByTier(messages []models.ClubMessage, tier string) []models.ClubMessage {
	visible := make([]models.ClubMessage, 0, len(messages))
	for _, m := range messages {
		if models.TierAtLeast(tier, m.TargetTier) {
			visible = append(visible, m)
		}
	}
	return visible
}
