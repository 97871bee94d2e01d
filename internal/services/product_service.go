package services

import (
	"fmt"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"go.uber.org/zap"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	logger *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		logger: logger,
	}
}

// ListProducts runs the catalog query described by filter.
func (s *ProductService) ListProducts(filter catalog.Filter) ([]models.Product, error) {
	plan := catalog.Build(filter)
	s.logger.Debug("listing products", zap.Strings("stages", plan.Names()))

	products, err := s.repo.Find(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct normalizes and stores a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	product.ID = ""
	product.Normalize()
	if err := s.repo.Create(product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	s.logger.Info("product created", zap.String("product_id", product.ID), zap.String("name", product.Name))
	return nil
}

// UpdateProduct replaces the editable fields of product id. The creation
// time of the stored product is kept.
func (s *ProductService) UpdateProduct(id string, product *models.Product) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	product.ID = id
	product.CreatedAt = existing.CreatedAt
	product.Normalize()
	if err := s.repo.Update(product); err != nil {
		return fmt.Errorf("failed to update product %s: %w", id, err)
	}
	s.logger.Info("product updated", zap.String("product_id", id))
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.String("product_id", id))
	return nil
}
