package repository

import (
	"context"
	"sync"

	"github.com/shopcart/api/internal/models"
)

// InMemoryStore holds products and carts in process memory. It backs the
// service and handler tests and is handy for local development without a
// database. Deleting a product cascades to its cart rows, mirroring the
// schema's foreign key.
type InMemoryStore struct {
	mu            sync.Mutex
	products      map[int64]models.Product
	carts         map[int64]models.Cart
	nextProductID int64
	nextCartID    int64
}

// NewInMemoryStore creates an empty in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		products:      make(map[int64]models.Product),
		carts:         make(map[int64]models.Cart),
		nextProductID: 1,
		nextCartID:    1,
	}
}

// Products returns a ProductRepository view of the store
func (s *InMemoryStore) Products() ProductRepository {
	return &memoryProductRepository{store: s}
}

// Carts returns a CartRepository view of the store
func (s *InMemoryStore) Carts() CartRepository {
	return &memoryCartRepository{store: s}
}

type memoryProductRepository struct {
	store *InMemoryStore
}

func (r *memoryProductRepository) Create(ctx context.Context, product *models.Product) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextProductID
	s.nextProductID++
	p := *product
	p.ID = id
	s.products[id] = p
	return id, nil
}

func (r *memoryProductRepository) List(ctx context.Context, category string) ([]models.Product, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	products := []models.Product{}
	for id := int64(1); id < s.nextProductID; id++ {
		p, ok := s.products[id]
		if !ok {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *memoryProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (r *memoryProductRepository) Update(ctx context.Context, id int64, product *models.Product) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrProductNotFound
	}
	p := *product
	p.ID = id
	s.products[id] = p
	return nil
}

func (r *memoryProductRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.products, id)
	// cascade, as the foreign key would
	for cartID, cart := range s.carts {
		if cart.ProductID == id {
			delete(s.carts, cartID)
		}
	}
	return nil
}

func (r *memoryProductRepository) AdjustStock(ctx context.Context, id int64, delta int) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok || p.Stock+delta < 0 {
		return false, nil
	}
	p.Stock += delta
	s.products[id] = p
	return true, nil
}

type memoryCartRepository struct {
	store *InMemoryStore
}

func (r *memoryCartRepository) Create(ctx context.Context, cart *models.Cart) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextCartID
	s.nextCartID++
	c := *cart
	c.ID = id
	s.carts[id] = c
	return id, nil
}

func (r *memoryCartRepository) ListWithProducts(ctx context.Context) ([]models.CartWithProduct, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	carts := []models.CartWithProduct{}
	for id := int64(1); id < s.nextCartID; id++ {
		c, ok := s.carts[id]
		if !ok {
			continue
		}
		p, ok := s.products[c.ProductID]
		if !ok {
			continue
		}
		carts = append(carts, joinCartProduct(c, p))
	}
	return carts, nil
}

func (r *memoryCartRepository) ListByProductID(ctx context.Context, productID int64) ([]models.Cart, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	carts := []models.Cart{}
	for id := int64(1); id < s.nextCartID; id++ {
		c, ok := s.carts[id]
		if ok && c.ProductID == productID {
			carts = append(carts, c)
		}
	}
	return carts, nil
}

func (r *memoryCartRepository) GetByID(ctx context.Context, id int64) (*models.Cart, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[id]
	if !ok {
		return nil, ErrCartNotFound
	}
	return &c, nil
}

func (r *memoryCartRepository) GetByIDWithProduct(ctx context.Context, id int64) (*models.CartWithProduct, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[id]
	if !ok {
		return nil, ErrCartNotFound
	}
	p, ok := s.products[c.ProductID]
	if !ok {
		return nil, ErrCartNotFound
	}
	joined := joinCartProduct(c, p)
	return &joined, nil
}

func (r *memoryCartRepository) Update(ctx context.Context, id int64, productID int64, quantity int) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[id]
	if !ok {
		return ErrCartNotFound
	}
	c.ProductID = productID
	c.Quantity = quantity
	s.carts[id] = c
	return nil
}

func (r *memoryCartRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, id)
	return nil
}

func joinCartProduct(c models.Cart, p models.Product) models.CartWithProduct {
	return models.CartWithProduct{
		Cart:               c,
		ProductName:        p.Name,
		ProductDescription: p.Description,
		ProductPrice:       p.Price,
		ProductCategory:    p.Category,
		ProductStock:       p.Stock,
	}
}
