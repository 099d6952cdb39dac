package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/OmarShamkh/vending-machine-api/internal/pkg/database"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
	"github.com/jackc/pgx/v5"
)

const (
	productsTable  = "products"
	productColumns = `id, name, stock, unit_cost, owner_id, version, created_at, updated_at`
)

type ProductsRepository struct {
	querier database.QueryExecuter
}

func NewProductsRepository(querier database.QueryExecuter) *ProductsRepository {
	return &ProductsRepository{
		querier: querier,
	}
}

func (r *ProductsRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	querySQL := `SELECT ` + productColumns + ` FROM products ORDER BY id`

	rows, err := r.querier.Query(ctx, querySQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

func (r *ProductsRepository) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	querySQL := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.querier.QueryRow(ctx, querySQL, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, notFound(productsTable, productID)
		}

		return domain.Product{}, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

func (r *ProductsRepository) CreateProduct(ctx context.Context, draft domain.ProductDraft) (domain.Product, error) {
	creationSQL := `INSERT INTO products (name, stock, unit_cost, owner_id) VALUES ($1, $2, $3, $4) RETURNING ` + productColumns

	row := r.querier.QueryRow(ctx, creationSQL, draft.Name, draft.Stock, draft.UnitCost, draft.OwnerID)
	product, err := scanProduct(row)
	if err != nil {
		if hasErrorCode(err, foreignKeyViolationCode) {
			return domain.Product{}, notFound(usersTable, draft.OwnerID)
		}

		return domain.Product{}, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

func (r *ProductsRepository) UpdateProduct(ctx context.Context, product domain.Product, expected domain.Version) (domain.Product, error) {
	updateSQL := `UPDATE products SET name = $1, stock = $2, unit_cost = $3, version = version + 1, updated_at = now()
		WHERE id = $4 AND version = $5 RETURNING ` + productColumns

	row := r.querier.QueryRow(ctx, updateSQL, product.Name, product.Stock, product.UnitCost, product.ID, int64(expected))
	stored, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, classifyMiss(ctx, r.querier, productsTable, product.ID, expected)
		}

		return domain.Product{}, fmt.Errorf("failed to update product: %w", err)
	}

	return stored, nil
}

func (r *ProductsRepository) DeleteProduct(ctx context.Context, productID int64, expected domain.Version) error {
	deleteSQL := `DELETE FROM products WHERE id = $1 AND version = $2`

	tag, err := r.querier.Exec(ctx, deleteSQL, productID, int64(expected))
	if err != nil {
		if hasErrorCode(err, foreignKeyViolationCode) {
			return &domain.ProductInUseError{Msg: fmt.Sprintf("product %d has recorded purchases", productID)}
		}

		return fmt.Errorf("failed to delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return classifyMiss(ctx, r.querier, productsTable, productID, expected)
	}

	return nil
}

func (r *ProductsRepository) SetStock(ctx context.Context, productID int64, stock int, expected domain.Version) (domain.Version, error) {
	return setProductStock(ctx, r.querier, productID, stock, expected)
}

func setProductStock(ctx context.Context, querier database.Querier, productID int64, stock int, expected domain.Version) (domain.Version, error) {
	updateSQL := `UPDATE products SET stock = $1, version = version + 1, updated_at = now()
		WHERE id = $2 AND version = $3 RETURNING version`

	var version int64
	err := querier.QueryRow(ctx, updateSQL, stock, productID, int64(expected)).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, classifyMiss(ctx, querier, productsTable, productID, expected)
		}

		return 0, fmt.Errorf("failed to update product stock: %w", err)
	}

	return domain.Version(version), nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		product domain.Product
		version int64
	)

	err := row.Scan(&product.ID, &product.Name, &product.Stock, &product.UnitCost, &product.OwnerID, &version, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return domain.Product{}, err
	}

	product.Version = domain.Version(version)

	return product, nil
}
