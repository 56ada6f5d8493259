package service

import (
	"context"

	"github.com/shopcart/api/internal/models"
	"github.com/shopcart/api/internal/repository"
)

// ProductService handles business logic for products
type ProductService struct {
	repo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// CreateProduct stores a new product and returns it with its assigned id
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	id, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}
	product.ID = id
	return product, nil
}

// ListProducts returns all products, optionally filtered by category
func (s *ProductService) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	return s.repo.List(ctx, category)
}

// GetProduct returns a product by id
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProduct replaces all fields of a product
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, product *models.Product) error {
	return s.repo.Update(ctx, id, product)
}

// DeleteProduct removes a product and, through the schema cascade, its cart rows
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
