package postgres

import (
	"testing"
	"time"

	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productRowColumns = []string{"id", "name", "stock", "unit_cost", "owner_id", "version", "created_at", "updated_at"}

func TestProductsRepository_ListProducts(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	type testCase struct {
		name string

		prepareFn func(t *testing.T, mock pgxmock.PgxConnIface)

		expectedProducts []domain.Product
		expectedErr      error
	}

	testCases := []testCase{
		{
			name: "products in id order",
			prepareFn: func(t *testing.T, mock pgxmock.PgxConnIface) {
				t.Helper()
				rows := pgxmock.NewRows(productRowColumns).
					AddRow(int64(1), "Chips", 5, int64(30), int64(2), int64(1), createdAt, createdAt).
					AddRow(int64(2), "Cola", 0, int64(45), int64(2), int64(4), createdAt, createdAt)
				mock.ExpectQuery("SELECT (.+) FROM products ORDER BY id").
					WillReturnRows(rows)
			},
			expectedProducts: []domain.Product{
				{ID: 1, Name: "Chips", Stock: 5, UnitCost: 30, OwnerID: 2, Version: 1, CreatedAt: createdAt, UpdatedAt: createdAt},
				{ID: 2, Name: "Cola", Stock: 0, UnitCost: 45, OwnerID: 2, Version: 4, CreatedAt: createdAt, UpdatedAt: createdAt},
			},
		},
		{
			name: "empty catalogue",
			prepareFn: func(t *testing.T, mock pgxmock.PgxConnIface) {
				t.Helper()
				mock.ExpectQuery("SELECT (.+) FROM products ORDER BY id").
					WillReturnRows(pgxmock.NewRows(productRowColumns))
			},
			expectedProducts: []domain.Product{},
		},
		{
			name: "query error",
			prepareFn: func(t *testing.T, mock pgxmock.PgxConnIface) {
				t.Helper()
				mock.ExpectQuery("SELECT (.+) FROM products ORDER BY id").
					WillReturnError(assert.AnError)
			},
			expectedErr: assert.AnError,
		},
	}

	for _, tc := range testCases {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock, err := pgxmock.NewConn()
			require.NoError(t, err)
			defer mock.Close(t.Context())

			tt.prepareFn(t, mock)

			repo := NewProductsRepository(mock)
			products, err := repo.ListProducts(t.Context())

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedProducts, products)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProductsRepository_GetProduct(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer mock.Close(t.Context())

	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(productRowColumns).
			AddRow(int64(7), "Chips", 5, int64(30), int64(2), int64(9), createdAt, createdAt))
	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
		WithArgs(int64(8)).
		WillReturnError(pgx.ErrNoRows)

	repo := NewProductsRepository(mock)

	product, err := repo.GetProduct(t.Context(), 7)
	require.NoError(t, err)
	assert.Equal(t, domain.Product{
		ID: 7, Name: "Chips", Stock: 5, UnitCost: 30, OwnerID: 2, Version: 9, CreatedAt: createdAt, UpdatedAt: createdAt,
	}, product)

	_, err = repo.GetProduct(t.Context(), 8)
	assert.ErrorIs(t, err, &domain.ProductNotFoundError{})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductsRepository_CreateProduct(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	draft := domain.ProductDraft{Name: "Chips", Stock: 5, UnitCost: 30, OwnerID: 2}

	type testCase struct {
		name string

		prepareFn func(t *testing.T, mock pgxmock.PgxConnIface)

		expectedProduct domain.Product
		expectedErr     error
	}

	testCases := []testCase{
		{
			name: "created at initial version",
			prepareFn: func(t *testing.T, mock pgxmock.PgxConnIface) {
				t.Helper()
				mock.ExpectQuery("INSERT INTO products").
					WithArgs("Chips", 5, int64(30), int64(2)).
					WillReturnRows(pgxmock.NewRows(productRowColumns).
						AddRow(int64(1), "Chips", 5, int64(30), int64(2), int64(1), createdAt, createdAt))
			},
			expectedProduct: domain.Product{
				ID: 1, Name: "Chips", Stock: 5, UnitCost: 30, OwnerID: 2, Version: domain.InitialVersion, CreatedAt: createdAt, UpdatedAt: createdAt,
			},
		},
		{
			name: "unknown owner",
			prepareFn: func(t *testing.T, mock pgxmock.PgxConnIface) {
				t.Helper()
				mock.ExpectQuery("INSERT INTO products").
					WithArgs("Chips", 5, int64(30), int64(2)).
					WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode})
			},
			expectedErr: &domain.UserNotFoundError{},
		},
	}

	for _, tc := range testCases {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock, err := pgxmock.NewConn()
			require.NoError(t, err)
			defer mock.Close(t.Context())

			tt.prepareFn(t, mock)

			repo := NewProductsRepository(mock)
			product, err := repo.CreateProduct(t.Context(), draft)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedProduct, product)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProductsRepository_UpdateProduct(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	updatedAt := createdAt.Add(time.Hour)
	product := domain.Product{ID: 7, Name: "Crisps", Stock: 4, UnitCost: 35, OwnerID: 2, Version: 9}

	type testCase struct {
		name string

		prepareFn func(t *testing.T, mock pgxmock.PgxConnIface)

		expectedProduct domain.Product
		expectedErr     error
	}

	testCases := []testCase{
		{
			name: "version matches",
			prepareFn: func(t *testing.T, mock pgxmock.PgxConnIface) {
				t.Helper()
				mock.ExpectQuery("UPDATE products SET name").
					WithArgs("Crisps", 4, int64(35), int64(7), int64(9)).
					WillReturnRows(pgxmock.NewRows(productRowColumns).
						AddRow(int64(7), "Crisps", 4, int64(35), int64(2), int64(10), createdAt, updatedAt))
			},
			expectedProduct: domain.Product{
				ID: 7, Name: "Crisps", Stock: 4, UnitCost: 35, OwnerID: 2, Version: 10, CreatedAt: createdAt, UpdatedAt: updatedAt,
			},
		},
		{
			name: "version moved on",
			prepareFn: func(t *testing.T, mock pgxmock.PgxConnIface) {
				t.Helper()
				mock.ExpectQuery("UPDATE products SET name").
					WithArgs("Crisps", 4, int64(35), int64(7), int64(9)).
					WillReturnError(pgx.ErrNoRows)
				mock.ExpectQuery("SELECT version FROM products").
					WithArgs(int64(7)).
					WillReturnRows(pgxmock.NewRows([]string{"version"}).AddRow(int64(11)))
			},
			expectedErr: &domain.VersionConflictError{},
		},
	}

	for _, tc := range testCases {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock, err := pgxmock.NewConn()
			require.NoError(t, err)
			defer mock.Close(t.Context())

			tt.prepareFn(t, mock)

			repo := NewProductsRepository(mock)
			stored, err := repo.UpdateProduct(t.Context(), product, product.Version)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedProduct, stored)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProductsRepository_DeleteProduct(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name string

		prepareFn func(t *testing.T, mock pgxmock.PgxConnIface)

		expectedErr error
	}

	testCases := []testCase{
		{
			name: "deleted",
			prepareFn: func(t *testing.T, mock pgxmock.PgxConnIface) {
				t.Helper()
				mock.ExpectExec("DELETE FROM products").
					WithArgs(int64(7), int64(9)).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
			},
		},
		{
			name: "referenced by transactions",
			prepareFn: func(t *testing.T, mock pgxmock.PgxConnIface) {
				t.Helper()
				mock.ExpectExec("DELETE FROM products").
					WithArgs(int64(7), int64(9)).
					WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode})
			},
			expectedErr: &domain.ProductInUseError{},
		},
		{
			name: "already gone",
			prepareFn: func(t *testing.T, mock pgxmock.PgxConnIface) {
				t.Helper()
				mock.ExpectExec("DELETE FROM products").
					WithArgs(int64(7), int64(9)).
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
				mock.ExpectQuery("SELECT version FROM products").
					WithArgs(int64(7)).
					WillReturnError(pgx.ErrNoRows)
			},
			expectedErr: &domain.ProductNotFoundError{},
		},
		{
			name: "stale version",
			prepareFn: func(t *testing.T, mock pgxmock.PgxConnIface) {
				t.Helper()
				mock.ExpectExec("DELETE FROM products").
					WithArgs(int64(7), int64(9)).
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
				mock.ExpectQuery("SELECT version FROM products").
					WithArgs(int64(7)).
					WillReturnRows(pgxmock.NewRows([]string{"version"}).AddRow(int64(10)))
			},
			expectedErr: &domain.VersionConflictError{},
		},
	}

	for _, tc := range testCases {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock, err := pgxmock.NewConn()
			require.NoError(t, err)
			defer mock.Close(t.Context())

			tt.prepareFn(t, mock)

			repo := NewProductsRepository(mock)
			err = repo.DeleteProduct(t.Context(), 7, 9)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProductsRepository_SetStock(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer mock.Close(t.Context())

	mock.ExpectQuery("UPDATE products SET stock").
		WithArgs(2, int64(7), int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"version"}).AddRow(int64(10)))

	repo := NewProductsRepository(mock)
	version, err := repo.SetStock(t.Context(), 7, 2, 9)

	require.NoError(t, err)
	assert.Equal(t, domain.Version(10), version)
	assert.NoError(t, mock.ExpectationsWereMet())
}
