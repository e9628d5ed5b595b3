package store

import (
	"context"
	"database/sql"
	"errors"

	"delicias-backend/internal/models"
)

// GetProducts retrieves the full catalog
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY id")
	return products, err
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct creates a new product
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (name, description, price, category, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, p, query,
		p.Name, p.Description, p.Price, p.Category, p.ImageURL)
}

// UpdateProduct updates an existing product
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET name = $1, description = $2, price = $3, category = $4, image_url = $5
		 WHERE id = $6`,
		p.Name, p.Description, p.Price, p.Category, p.ImageURL, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrProductNotFound
	}
	return nil
}

// DeleteProduct removes a product
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrProductNotFound
	}
	return nil
}

// GetRecipes retrieves all recipes
func (s *Store) GetRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.SelectContext(ctx, &recipes, "SELECT * FROM recipes ORDER BY id")
	return recipes, err
}

// GetRecipeByID retrieves a recipe by ID
func (s *Store) GetRecipeByID(ctx context.Context, id int64) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.GetContext(ctx, &recipe, "SELECT * FROM recipes WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrRecipeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// CreateRecipe creates a new recipe
func (s *Store) CreateRecipe(ctx context.Context, r *models.Recipe) error {
	query := `
		INSERT INTO recipes (title, description, content, image_url, video_url, tier_required)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, r, query,
		r.Title, r.Description, r.Content, r.ImageURL, r.VideoURL, r.TierRequired)
}

// UpdateRecipe updates an existing recipe
func (s *Store) UpdateRecipe(ctx context.Context, r *models.Recipe) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE recipes SET title = $1, description = $2, content = $3, image_url = $4,
		 video_url = $5, tier_required = $6 WHERE id = $7`,
		r.Title, r.Description, r.Content, r.ImageURL, r.VideoURL, r.TierRequired, r.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrRecipeNotFound
	}
	return nil
}

// DeleteRecipe removes a recipe
func (s *Store) DeleteRecipe(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM recipes WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrRecipeNotFound
	}
	return nil
}
