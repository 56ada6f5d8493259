package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopcart/api/internal/models"
)

var (
	ErrCartNotFound = errors.New("cart not found")
)

// CartRepository defines the interface for cart data access
type CartRepository interface {
	Create(ctx context.Context, cart *models.Cart) (int64, error)
	ListWithProducts(ctx context.Context) ([]models.CartWithProduct, error)
	ListByProductID(ctx context.Context, productID int64) ([]models.Cart, error)
	GetByID(ctx context.Context, id int64) (*models.Cart, error)
	GetByIDWithProduct(ctx context.Context, id int64) (*models.CartWithProduct, error)
	Update(ctx context.Context, id int64, productID int64, quantity int) error
	Delete(ctx context.Context, id int64) error
}

// PostgresCartRepository implements CartRepository over database/sql
type PostgresCartRepository struct {
	db *sql.DB
}

// NewPostgresCartRepository creates a new Postgres-backed cart repository
func NewPostgresCartRepository(db *sql.DB) *PostgresCartRepository {
	return &PostgresCartRepository{db: db}
}

// Create inserts a cart row and returns its assigned id
func (r *PostgresCartRepository) Create(ctx context.Context, cart *models.Cart) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO carts (product_id, quantity) VALUES ($1, $2) RETURNING id`,
		cart.ProductID, cart.Quantity,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert cart: %w", err)
	}
	return id, nil
}

const cartProductJoin = `
	SELECT
		c.id, c.product_id, c.quantity,
		p.name, p.description, p.price, p.category, p.stock
	FROM carts c
	JOIN products p ON c.product_id = p.id`

// ListWithProducts returns all cart rows joined with their product attributes
func (r *PostgresCartRepository) ListWithProducts(ctx context.Context) ([]models.CartWithProduct, error) {
	rows, err := r.db.QueryContext(ctx, cartProductJoin+` ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("list carts: %w", err)
	}
	defer rows.Close()

	carts := []models.CartWithProduct{}
	for rows.Next() {
		var c models.CartWithProduct
		if err := rows.Scan(
			&c.ID, &c.ProductID, &c.Quantity,
			&c.ProductName, &c.ProductDescription, &c.ProductPrice, &c.ProductCategory, &c.ProductStock,
		); err != nil {
			return nil, fmt.Errorf("scan cart: %w", err)
		}
		carts = append(carts, c)
	}
	return carts, rows.Err()
}

// ListByProductID returns the cart rows referencing a product
func (r *PostgresCartRepository) ListByProductID(ctx context.Context, productID int64) ([]models.Cart, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, quantity FROM carts WHERE product_id = $1 ORDER BY id`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("list carts by product: %w", err)
	}
	defer rows.Close()

	carts := []models.Cart{}
	for rows.Next() {
		var c models.Cart
		if err := rows.Scan(&c.ID, &c.ProductID, &c.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart: %w", err)
		}
		carts = append(carts, c)
	}
	return carts, rows.Err()
}

// GetByID returns a cart row by its id
func (r *PostgresCartRepository) GetByID(ctx context.Context, id int64) (*models.Cart, error) {
	var c models.Cart
	err := r.db.QueryRowContext(ctx,
		`SELECT id, product_id, quantity FROM carts WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.ProductID, &c.Quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return &c, nil
}

// GetByIDWithProduct returns a cart row joined with its product attributes
func (r *PostgresCartRepository) GetByIDWithProduct(ctx context.Context, id int64) (*models.CartWithProduct, error) {
	var c models.CartWithProduct
	err := r.db.QueryRowContext(ctx, cartProductJoin+` WHERE c.id = $1`, id).Scan(
		&c.ID, &c.ProductID, &c.Quantity,
		&c.ProductName, &c.ProductDescription, &c.ProductPrice, &c.ProductCategory, &c.ProductStock,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return &c, nil
}

// Update sets the product reference and quantity of a cart row
func (r *PostgresCartRepository) Update(ctx context.Context, id int64, productID int64, quantity int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE carts SET product_id = $1, quantity = $2 WHERE id = $3`,
		productID, quantity, id,
	)
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	if affected == 0 {
		return ErrCartNotFound
	}
	return nil
}

// Delete removes a cart row. Deleting an absent id is not an error.
func (r *PostgresCartRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
