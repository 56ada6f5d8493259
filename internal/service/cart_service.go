package service

import (
	"context"
	"fmt"

	"github.com/shopcart/api/internal/models"
	"github.com/shopcart/api/internal/repository"
)

// InsufficientStockError is returned when a cart mutation would drive a
// product's stock below zero. Available is the most the caller could have
// requested.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock. Available: %d", e.Available)
}

// CartUpdateResult reports the outcome of a cart quantity update
type CartUpdateResult struct {
	UpdatedStock int `json:"updatedStock"`
	OldQuantity  int `json:"oldQuantity"`
	NewQuantity  int `json:"newQuantity"`
}

// CartService handles cart business logic, in particular keeping product
// stock consistent with cart quantities: the sum of a cart line and its
// product's remaining stock is preserved across every mutation.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new cart service
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// CreateCart creates a cart line for a product and reserves its quantity
// from the product's stock.
//
// The decrement is a single conditional statement, so even two requests
// racing past the stock check cannot take the stock negative: the loser's
// decrement affects no row and is reported as insufficient stock.
func (s *CartService) CreateCart(ctx context.Context, productID int64, quantity int) (*models.Cart, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.Stock < quantity {
		return nil, &InsufficientStockError{Available: product.Stock}
	}

	ok, err := s.productRepo.AdjustStock(ctx, productID, -quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		// lost a race after the check; report the stock as it is now
		return nil, s.insufficientStock(ctx, productID, 0)
	}

	cart := &models.Cart{ProductID: productID, Quantity: quantity}
	id, err := s.cartRepo.Create(ctx, cart)
	if err != nil {
		// release the reservation so stock stays consistent
		if _, restoreErr := s.productRepo.AdjustStock(ctx, productID, quantity); restoreErr != nil {
			return nil, fmt.Errorf("%w (stock restore failed: %v)", err, restoreErr)
		}
		return nil, err
	}
	cart.ID = id

	return cart, nil
}

// UpdateCart changes a cart line's quantity (and optionally its product
// reference) and applies the quantity difference to the referenced product's
// stock. The difference baseline is the existing cart row's quantity; when the
// request names a different product, the adjustment lands on that product.
func (s *CartService) UpdateCart(ctx context.Context, id int64, productID int64, quantity int) (*CartUpdateResult, error) {
	cart, err := s.cartRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	diff := quantity - cart.Quantity
	newStock := product.Stock - diff
	if newStock < 0 {
		return nil, &InsufficientStockError{Available: product.Stock + cart.Quantity}
	}

	ok, err := s.productRepo.AdjustStock(ctx, productID, -diff)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.insufficientStock(ctx, productID, cart.Quantity)
	}

	if err := s.cartRepo.Update(ctx, id, productID, quantity); err != nil {
		if _, restoreErr := s.productRepo.AdjustStock(ctx, productID, diff); restoreErr != nil {
			return nil, fmt.Errorf("%w (stock restore failed: %v)", err, restoreErr)
		}
		return nil, err
	}

	return &CartUpdateResult{
		UpdatedStock: newStock,
		OldQuantity:  cart.Quantity,
		NewQuantity:  quantity,
	}, nil
}

// DeleteCart removes a cart line. Stock is intentionally not restored: a
// cart line represents a reservation, and deleting it abandons the reserved
// quantity rather than returning it to the shelf.
func (s *CartService) DeleteCart(ctx context.Context, id int64) error {
	return s.cartRepo.Delete(ctx, id)
}

// GetCart returns a cart line joined with its product attributes
func (s *CartService) GetCart(ctx context.Context, id int64) (*models.CartWithProduct, error) {
	return s.cartRepo.GetByIDWithProduct(ctx, id)
}

// ListCarts returns all cart lines joined with their product attributes
func (s *CartService) ListCarts(ctx context.Context) ([]models.CartWithProduct, error) {
	return s.cartRepo.ListWithProducts(ctx)
}

// ListCartsByProduct returns the cart lines referencing a product
func (s *CartService) ListCartsByProduct(ctx context.Context, productID int64) ([]models.Cart, error) {
	return s.cartRepo.ListByProductID(ctx, productID)
}

// insufficientStock re-reads the product to report an accurate available
// quantity after a conditional stock adjustment affected no row.
func (s *CartService) insufficientStock(ctx context.Context, productID int64, oldQuantity int) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	return &InsufficientStockError{Available: product.Stock + oldQuantity}
}
