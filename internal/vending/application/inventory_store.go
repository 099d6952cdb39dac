package application

import (
	"context"
	"fmt"

	"github.com/OmarShamkh/vending-machine-api/internal/pkg/logging"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
)

// InventoryStore owns product stock and the seller-scoped product lifecycle.
type InventoryStore struct {
	products domain.ProductRepository
	logger   logging.Logger
}

func NewInventoryStore(products domain.ProductRepository, logger logging.Logger) *InventoryStore {
	return &InventoryStore{
		products: products,
		logger:   logger,
	}
}

func (is *InventoryStore) Read(ctx context.Context, productID int64) (domain.Product, error) {
	return is.products.GetProduct(ctx, productID)
}

func (is *InventoryStore) List(ctx context.Context) ([]domain.Product, error) {
	return is.products.ListProducts(ctx)
}

func (is *InventoryStore) DecrementStock(ctx context.Context, productID int64, quantity int, expected domain.Version) (domain.Version, error) {
	if quantity < 1 {
		return 0, &domain.InvalidArgumentsError{Msg: "quantity must be at least 1"}
	}

	product, err := is.products.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}

	if err := checkVersion(product, expected); err != nil {
		return 0, err
	}

	if product.Stock < quantity {
		return 0, &domain.InsufficientStockError{
			Msg: fmt.Sprintf("product %d has %d in stock, %d requested", productID, product.Stock, quantity),
		}
	}

	version, err := is.products.SetStock(ctx, productID, product.Stock-quantity, expected)
	if err != nil {
		return 0, err
	}

	is.logger.Info("stock decremented", "product_id", productID, "quantity", quantity, "stock", product.Stock-quantity)

	return version, nil
}

func (is *InventoryStore) Create(ctx context.Context, caller domain.Caller, draft domain.ProductDraft) (domain.Product, error) {
	if caller.Role != domain.RoleSeller {
		return domain.Product{}, &domain.ForbiddenError{Msg: "only sellers can create products"}
	}

	draft.OwnerID = caller.UserID
	if err := domain.ValidateProductFields(draft.Name, draft.Stock, draft.UnitCost); err != nil {
		return domain.Product{}, err
	}

	product, err := is.products.CreateProduct(ctx, draft)
	if err != nil {
		return domain.Product{}, err
	}

	is.logger.Info("product created", "product_id", product.ID, "owner_id", product.OwnerID)

	return product, nil
}

func (is *InventoryStore) Update(ctx context.Context, caller domain.Caller, productID int64, patch domain.ProductPatch, expected domain.Version) (domain.Product, error) {
	product, err := is.ownedProduct(ctx, caller, productID)
	if err != nil {
		return domain.Product{}, err
	}

	if err := checkVersion(product, expected); err != nil {
		return domain.Product{}, err
	}

	updated := patch.Apply(product)
	if err := domain.ValidateProductFields(updated.Name, updated.Stock, updated.UnitCost); err != nil {
		return domain.Product{}, err
	}

	stored, err := is.products.UpdateProduct(ctx, updated, expected)
	if err != nil {
		return domain.Product{}, err
	}

	is.logger.Info("product updated", "product_id", stored.ID, "version", int64(stored.Version))

	return stored, nil
}

func (is *InventoryStore) Delete(ctx context.Context, caller domain.Caller, productID int64, expected domain.Version) error {
	product, err := is.ownedProduct(ctx, caller, productID)
	if err != nil {
		return err
	}

	if err := checkVersion(product, expected); err != nil {
		return err
	}

	if err := is.products.DeleteProduct(ctx, productID, expected); err != nil {
		return err
	}

	is.logger.Info("product deleted", "product_id", productID)

	return nil
}

// ownedProduct re-checks ownership even though the transport already
// restricts product mutation to sellers.
func (is *InventoryStore) ownedProduct(ctx context.Context, caller domain.Caller, productID int64) (domain.Product, error) {
	if caller.Role != domain.RoleSeller {
		return domain.Product{}, &domain.ForbiddenError{Msg: "only sellers can modify products"}
	}

	product, err := is.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}

	if product.OwnerID != caller.UserID {
		return domain.Product{}, &domain.ForbiddenError{
			Msg: fmt.Sprintf("product %d belongs to another seller", productID),
		}
	}

	return product, nil
}

func checkVersion(product domain.Product, expected domain.Version) error {
	if product.Version != expected {
		return &domain.VersionConflictError{
			Msg: fmt.Sprintf("product %d is at version %d, expected %d", product.ID, product.Version, expected),
		}
	}

	return nil
}
