package service

import (
	"context"
	"errors"
	"time"

	"delicias-backend/internal/models"
	"delicias-backend/internal/redisclient"
	"delicias-backend/internal/store"
	"delicias-backend/internal/util"

	"go.uber.org/zap"
)

const catalogCacheTTL = 5 * time.Minute

// CatalogService serves products and club recipes
type CatalogService struct {
	store  *store.Store
	cache  *redisclient.Client
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store, cache *redisclient.Client) *CatalogService {
	return &CatalogService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// ListProducts returns the catalog, served from Redis when warm
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	if s.cache != nil {
		var cached []models.Product
		err := s.cache.GetProducts(ctx, &cached)
		if err == nil {
			util.CatalogCacheHitsTotal.Inc()
			return cached, nil
		}
		if !errors.Is(err, redisclient.ErrCacheMiss) {
			s.logger.Warn("Catalog cache read failed", zap.Error(err))
		}
	}

	products, err := s.store.GetProducts(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProducts(ctx, products, catalogCacheTTL); err != nil {
			s.logger.Warn("Catalog cache write failed", zap.Error(err))
		}
	}
	return products, nil
}

// GetProduct returns a single product
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.store.GetProductByID(ctx, id)
}

// CreateProduct creates a product and drops the catalog cache
func (s *CatalogService) CreateProduct(ctx context.Context, p *models.Product) error {
	if err := s.store.CreateProduct(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// UpdateProduct updates a product and drops the catalog cache
func (s *CatalogService) UpdateProduct(ctx context.Context, p *models.Product) error {
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// DeleteProduct removes a product and drops the catalog cache
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProducts(ctx); err != nil {
		s.logger.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}

// ListRecipes returns recipe metadata with gated fields stripped
func (s *CatalogService) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	recipes, err := s.store.GetRecipes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range recipes {
		recipes[i] = RedactRecipeForTier(recipes[i], "")
	}
	return recipes, nil
}

// GetRecipe returns a recipe with content visible only to a sufficient tier
func (s *CatalogService) GetRecipe(ctx context.Context, id int64, tier string) (*models.Recipe, error) {
	recipe, err := s.store.GetRecipeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	redacted := RedactRecipeForTier(*recipe, tier)
	return &redacted, nil
}

// CreateRecipe creates a recipe (admin)
func (s *CatalogService) CreateRecipe(ctx context.Context, r *models.Recipe) error {
	return s.store.CreateRecipe(ctx, r)
}

// UpdateRecipe updates a recipe (admin)
func (s *CatalogService) UpdateRecipe(ctx context.Context, r *models.Recipe) error {
	return s.store.UpdateRecipe(ctx, r)
}

// DeleteRecipe removes a recipe (admin)
func (s *CatalogService) DeleteRecipe(ctx context.Context, id int64) error {
	return s.store.DeleteRecipe(ctx, id)
}

// RedactRecipeForTier strips the member-only fields when tier does not reach
// the recipe's required tier. Metadata stays visible either way.
func RedactRecipeForTier(r models.Recipe, tier string) models.Recipe {
	if models.TierAtLeast(tier, r.TierRequired) {
		return r
	}
	r.Content = ""
	r.VideoURL = ""
	return r
}
