package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcart/api/internal/models"
)

func newCartRepo(t *testing.T) (*PostgresCartRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresCartRepository(db), mock
}

func TestCartRepository_Create(t *testing.T) {
	repo, mock := newCartRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO carts (product_id, quantity) VALUES ($1, $2) RETURNING id`,
	)).
		WithArgs(int64(1), 3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	id, err := repo.Create(context.Background(), &models.Cart{ProductID: 1, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_ListWithProducts(t *testing.T) {
	repo, mock := newCartRepo(t)

	rows := sqlmock.NewRows([]string{
		"id", "product_id", "quantity",
		"name", "description", "price", "category", "stock",
	}).
		AddRow(int64(1), int64(1), 3, "Pen", "Blue pen", int64(10), "stationery", 2).
		AddRow(int64(2), int64(2), 1, "Mug", "Ceramic mug", int64(25), "kitchen", 4)
	mock.ExpectQuery(regexp.QuoteMeta(cartProductJoin + ` ORDER BY c.id`)).
		WillReturnRows(rows)

	carts, err := repo.ListWithProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, carts, 2)
	assert.Equal(t, int64(1), carts[0].ID)
	assert.Equal(t, "Pen", carts[0].ProductName)
	assert.Equal(t, 2, carts[0].ProductStock)
	assert.Equal(t, "kitchen", carts[1].ProductCategory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_ListByProductID(t *testing.T) {
	repo, mock := newCartRepo(t)

	rows := sqlmock.NewRows([]string{"id", "product_id", "quantity"}).
		AddRow(int64(1), int64(5), 2)
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, product_id, quantity FROM carts WHERE product_id = $1 ORDER BY id`,
	)).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	carts, err := repo.ListByProductID(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, carts, 1)
	assert.Equal(t, int64(5), carts[0].ProductID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newCartRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, product_id, quantity FROM carts WHERE id = $1`,
	)).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_GetByIDWithProduct(t *testing.T) {
	repo, mock := newCartRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(cartProductJoin + ` WHERE c.id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "product_id", "quantity",
			"name", "description", "price", "category", "stock",
		}).AddRow(int64(1), int64(1), 3, "Pen", "Blue pen", int64(10), "stationery", 2))

	cart, err := repo.GetByIDWithProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Quantity)
	assert.Equal(t, "Pen", cart.ProductName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_Update(t *testing.T) {
	repo, mock := newCartRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE carts SET product_id = $1, quantity = $2 WHERE id = $3`,
	)).
		WithArgs(int64(1), 4, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Update(context.Background(), 1, 1, 4))

	// absent row
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE carts SET product_id = $1, quantity = $2 WHERE id = $3`,
	)).
		WithArgs(int64(1), 4, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Update(context.Background(), 99, 1, 4), ErrCartNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_Delete(t *testing.T) {
	repo, mock := newCartRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM carts WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}
