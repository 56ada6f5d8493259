package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopcart/api/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) (int64, error)
	List(ctx context.Context, category string) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Update(ctx context.Context, id int64, product *models.Product) error
	Delete(ctx context.Context, id int64) error

	// AdjustStock applies delta to the product's stock in a single conditional
	// statement and reports whether a row was updated. The condition
	// stock + delta >= 0 keeps stock non-negative without a read-check-write gap.
	AdjustStock(ctx context.Context, id int64, delta int) (bool, error)
}

// PostgresProductRepository implements ProductRepository over database/sql
type PostgresProductRepository struct {
	db *sql.DB
}

// NewPostgresProductRepository creates a new Postgres-backed product repository
func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

// Create inserts a product and returns its assigned id
func (r *PostgresProductRepository) Create(ctx context.Context, product *models.Product) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO products (name, description, price, category, stock) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		product.Name, product.Description, product.Price, product.Category, product.Stock,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return id, nil
}

// List returns all products, optionally filtered by category
func (r *PostgresProductRepository) List(ctx context.Context, category string) ([]models.Product, error) {
	query := `SELECT id, name, description, price, category, stock FROM products ORDER BY id`
	args := []any{}
	if category != "" {
		query = `SELECT id, name, description, price, category, stock FROM products WHERE category = $1 ORDER BY id`
		args = append(args, category)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Stock); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetByID returns a product by its id
func (r *PostgresProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, price, category, stock FROM products WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Stock)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update replaces all fields of a product
func (r *PostgresProductRepository) Update(ctx context.Context, id int64, product *models.Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = $1, description = $2, price = $3, category = $4, stock = $5 WHERE id = $6`,
		product.Name, product.Description, product.Price, product.Category, product.Stock, id,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete removes a product. Dependent cart rows are removed by the
// ON DELETE CASCADE constraint. Deleting an absent id is not an error.
func (r *PostgresProductRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// AdjustStock applies delta to stock only when the result stays non-negative.
// Returns false when the condition failed or the product does not exist.
func (r *PostgresProductRepository) AdjustStock(ctx context.Context, id int64, delta int) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET stock = stock + $1 WHERE id = $2 AND stock + $1 >= 0`,
		delta, id,
	)
	if err != nil {
		return false, fmt.Errorf("adjust stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("adjust stock: %w", err)
	}
	return affected > 0, nil
}
