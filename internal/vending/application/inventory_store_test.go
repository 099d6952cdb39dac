package application

import (
	"testing"

	vendingmocks "github.com/OmarShamkh/vending-machine-api/gen/mocks/vending"
	"github.com/OmarShamkh/vending-machine-api/internal/pkg/logging"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T {
	return &v
}

func TestInventoryStore_DecrementStock(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name      string
		productID int64
		quantity  int
		expected  domain.Version

		prepareFn func(t *testing.T, products *vendingmocks.MockProductRepository)

		expectedVersion domain.Version
		expectedErr     error
	}

	tests := []testCase{
		{
			name:      "successful decrement",
			productID: 7,
			quantity:  2,
			expected:  4,
			prepareFn: func(t *testing.T, products *vendingmocks.MockProductRepository) {
				products.EXPECT().GetProduct(gomock.Any(), int64(7)).
					Return(domain.Product{ID: 7, Stock: 5, Version: 4}, nil)
				products.EXPECT().SetStock(gomock.Any(), int64(7), 3, domain.Version(4)).
					Return(domain.Version(5), nil)
			},
			expectedVersion: 5,
		},
		{
			name:      "decrement to zero",
			productID: 7,
			quantity:  5,
			expected:  4,
			prepareFn: func(t *testing.T, products *vendingmocks.MockProductRepository) {
				products.EXPECT().GetProduct(gomock.Any(), int64(7)).
					Return(domain.Product{ID: 7, Stock: 5, Version: 4}, nil)
				products.EXPECT().SetStock(gomock.Any(), int64(7), 0, domain.Version(4)).
					Return(domain.Version(5), nil)
			},
			expectedVersion: 5,
		},
		{
			name:      "zero quantity",
			productID: 7,
			quantity:  0,
			expected:  4,
			prepareFn: func(t *testing.T, products *vendingmocks.MockProductRepository) {
			},
			expectedErr: &domain.InvalidArgumentsError{},
		},
		{
			name:      "insufficient stock",
			productID: 7,
			quantity:  6,
			expected:  4,
			prepareFn: func(t *testing.T, products *vendingmocks.MockProductRepository) {
				products.EXPECT().GetProduct(gomock.Any(), int64(7)).
					Return(domain.Product{ID: 7, Stock: 5, Version: 4}, nil)
			},
			expectedErr: &domain.InsufficientStockError{},
		},
		{
			name:      "stale version",
			productID: 7,
			quantity:  1,
			expected:  3,
			prepareFn: func(t *testing.T, products *vendingmocks.MockProductRepository) {
				products.EXPECT().GetProduct(gomock.Any(), int64(7)).
					Return(domain.Product{ID: 7, Stock: 5, Version: 4}, nil)
			},
			expectedErr: &domain.VersionConflictError{},
		},
		{
			name:      "product not found",
			productID: 8,
			quantity:  1,
			expected:  1,
			prepareFn: func(t *testing.T, products *vendingmocks.MockProductRepository) {
				products.EXPECT().GetProduct(gomock.Any(), int64(8)).
					Return(domain.Product{}, &domain.ProductNotFoundError{Msg: "product 8 not found"})
			},
			expectedErr: &domain.ProductNotFoundError{},
		},
	}

	for _, tc := range tests {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			products := vendingmocks.NewMockProductRepository(ctrl)
			tt.prepareFn(t, products)

			store := NewInventoryStore(products, logging.DiscardLogger)
			version, err := store.DecrementStock(t.Context(), tt.productID, tt.quantity, tt.expected)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedVersion, version)
			}
		})
	}
}

func TestInventoryStore_Create(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name   string
		caller domain.Caller
		draft  domain.ProductDraft

		prepareFn func(t *testing.T, products *vendingmocks.MockProductRepository)

		expectedErr error
	}

	seller := domain.Caller{UserID: 3, Role: domain.RoleSeller}

	tests := []testCase{
		{
			name:   "seller creates product owned by them",
			caller: seller,
			draft:  domain.ProductDraft{Name: "Cola", Stock: 10, UnitCost: 45, OwnerID: 99},
			prepareFn: func(t *testing.T, products *vendingmocks.MockProductRepository) {
				products.EXPECT().CreateProduct(gomock.Any(), domain.ProductDraft{Name: "Cola", Stock: 10, UnitCost: 45, OwnerID: 3}).
					Return(domain.Product{ID: 1, Name: "Cola", Stock: 10, UnitCost: 45, OwnerID: 3, Version: domain.InitialVersion}, nil)
			},
		},
		{
			name:   "buyer cannot create",
			caller: domain.Caller{UserID: 4, Role: domain.RoleBuyer},
			draft:  domain.ProductDraft{Name: "Cola", Stock: 10, UnitCost: 45},
			prepareFn: func(t *testing.T, products *vendingmocks.MockProductRepository) {
			},
			expectedErr: &domain.ForbiddenError{},
		},
		{
			name:   "cost not payable in coins",
			caller: seller,
			draft:  domain.ProductDraft{Name: "Cola", Stock: 10, UnitCost: 42},
			prepareFn: func(t *testing.T, products *vendingmocks.MockProductRepository) {
			},
			expectedErr: &domain.InvalidArgumentsError{},
		},
		{
			name:   "empty name",
			caller: seller,
			draft:  domain.ProductDraft{Stock: 10, UnitCost: 45},
			prepareFn: func(t *testing.T, products *vendingmocks.MockProductRepository) {
			},
			expectedErr: &domain.InvalidArgumentsError{},
		},
	}

	for _, tc := range tests {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			products := vendingmocks.NewMockProductRepository(ctrl)
			tt.prepareFn(t, products)

			store := NewInventoryStore(products, logging.DiscardLogger)
			product, err := store.Create(t.Context(), tt.caller, tt.draft)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.caller.UserID, product.OwnerID)
				assert.Equal(t, domain.InitialVersion, product.Version)
			}
		})
	}
}

func TestInventoryStore_Update(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name     string
		caller   domain.Caller
		patch    domain.ProductPatch
		expected domain.Version

		prepareFn func(t *testing.T, products *vendingmocks.MockProductRepository)

		expectedProduct domain.Product
		expectedErr     error
	}

	stored := domain.Product{ID: 7, Name: "Cola", Stock: 5, UnitCost: 45, OwnerID: 3, Version: 2}
	owner := domain.Caller{UserID: 3, Role: domain.RoleSeller}

	tests := []testCase{
		{
			name:     "owner updates cost",
			caller:   owner,
			patch:    domain.ProductPatch{UnitCost: ptr(int64(50))},
			expected: 2,
			prepareFn: func(t *testing.T, products *vendingmocks.MockProductRepository) {
				products.EXPECT().GetProduct(gomock.Any(), int64(7)).Return(stored, nil)

				want := stored
				want.UnitCost = 50
				saved := want
				saved.Version = 3
				products.EXPECT().UpdateProduct(gomock.Any(), want, domain.Version(2)).Return(saved, nil)
			},
			expectedProduct: domain.Product{ID: 7, Name: "Cola", Stock: 5, UnitCost: 50, OwnerID: 3, Version: 3},
		},
		{
			name:     "other seller is forbidden",
			caller:   domain.Caller{UserID: 5, Role: domain.RoleSeller},
			patch:    domain.ProductPatch{Stock: ptr(1)},
			expected: 2,
			prepareFn: func(t *testing.T, products *vendingmocks.MockProductRepository) {
				products.EXPECT().GetProduct(gomock.Any(), int64(7)).Return(stored, nil)
			},
			expectedErr: &domain.ForbiddenError{},
		},
		{
			name:     "buyer is forbidden",
			caller:   domain.Caller{UserID: 3, Role: domain.RoleBuyer},
			patch:    domain.ProductPatch{Stock: ptr(1)},
			expected: 2,
			prepareFn: func(t *testing.T, products *vendingmocks.MockProductRepository) {
			},
			expectedErr: &domain.ForbiddenError{},
		},
		{
			name:     "stale version",
			caller:   owner,
			patch:    domain.ProductPatch{Stock: ptr(1)},
			expected: 1,
			prepareFn: func(t *testing.T, products *vendingmocks.MockProductRepository) {
				products.EXPECT().GetProduct(gomock.Any(), int64(7)).Return(stored, nil)
			},
			expectedErr: &domain.VersionConflictError{},
		},
		{
			name:     "negative stock",
			caller:   owner,
			patch:    domain.ProductPatch{Stock: ptr(-1)},
			expected: 2,
			prepareFn: func(t *testing.T, products *vendingmocks.MockProductRepository) {
				products.EXPECT().GetProduct(gomock.Any(), int64(7)).Return(stored, nil)
			},
			expectedErr: &domain.InvalidArgumentsError{},
		},
	}

	for _, tc := range tests {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			products := vendingmocks.NewMockProductRepository(ctrl)
			tt.prepareFn(t, products)

			store := NewInventoryStore(products, logging.DiscardLogger)
			product, err := store.Update(t.Context(), tt.caller, 7, tt.patch, tt.expected)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedProduct, product)
			}
		})
	}
}

func TestInventoryStore_Delete(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name     string
		caller   domain.Caller
		expected domain.Version

		prepareFn func(t *testing.T, products *vendingmocks.MockProductRepository)

		expectedErr error
	}

	stored := domain.Product{ID: 7, Name: "Cola", Stock: 5, UnitCost: 45, OwnerID: 3, Version: 2}
	owner := domain.Caller{UserID: 3, Role: domain.RoleSeller}

	tests := []testCase{
		{
			name:     "owner deletes",
			caller:   owner,
			expected: 2,
			prepareFn: func(t *testing.T, products *vendingmocks.MockProductRepository) {
				products.EXPECT().GetProduct(gomock.Any(), int64(7)).Return(stored, nil)
				products.EXPECT().DeleteProduct(gomock.Any(), int64(7), domain.Version(2)).Return(nil)
			},
		},
		{
			name:     "product with purchase history",
			caller:   owner,
			expected: 2,
			prepareFn: func(t *testing.T, products *vendingmocks.MockProductRepository) {
				products.EXPECT().GetProduct(gomock.Any(), int64(7)).Return(stored, nil)
				products.EXPECT().DeleteProduct(gomock.Any(), int64(7), domain.Version(2)).
					Return(&domain.ProductInUseError{Msg: "product 7 has transactions"})
			},
			expectedErr: &domain.ProductInUseError{},
		},
		{
			name:     "other seller is forbidden",
			caller:   domain.Caller{UserID: 5, Role: domain.RoleSeller},
			expected: 2,
			prepareFn: func(t *testing.T, products *vendingmocks.MockProductRepository) {
				products.EXPECT().GetProduct(gomock.Any(), int64(7)).Return(stored, nil)
			},
			expectedErr: &domain.ForbiddenError{},
		},
		{
			name:     "stale version",
			caller:   owner,
			expected: 1,
			prepareFn: func(t *testing.T, products *vendingmocks.MockProductRepository) {
				products.EXPECT().GetProduct(gomock.Any(), int64(7)).Return(stored, nil)
			},
			expectedErr: &domain.VersionConflictError{},
		},
	}

	for _, tc := range tests {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			products := vendingmocks.NewMockProductRepository(ctrl)
			tt.prepareFn(t, products)

			store := NewInventoryStore(products, logging.DiscardLogger)
			err := store.Delete(t.Context(), tt.caller, 7, tt.expected)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
