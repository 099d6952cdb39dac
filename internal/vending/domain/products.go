package domain

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"
)

const (
	MinUnitCost       = 5
	MaxUnitCost       = 1_000_000
	MaxProductNameLen = 100
)

type Product struct {
	ID        int64
	Name      string
	Stock     int
	UnitCost  int64
	OwnerID   int64
	Version   Version
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProductDraft struct {
	Name     string
	Stock    int
	UnitCost int64
	OwnerID  int64
}

// ProductPatch carries the seller-editable fields; nil leaves a field as is.
type ProductPatch struct {
	Name     *string
	Stock    *int
	UnitCost *int64
}

// Apply returns a copy of p with the patch applied.
func (pp ProductPatch) Apply(p Product) Product {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Stock != nil {
		p.Stock = *pp.Stock
	}
	if pp.UnitCost != nil {
		p.UnitCost = *pp.UnitCost
	}

	return p
}

// ValidateProductFields checks the invariants every stored product keeps.
// Costs must be whole coins so that change can always be paid out exactly.
func ValidateProductFields(name string, stock int, unitCost int64) error {
	if name == "" || utf8.RuneCountInString(name) > MaxProductNameLen {
		return &InvalidArgumentsError{Msg: fmt.Sprintf("product name must be 1 to %d characters", MaxProductNameLen)}
	}

	if stock < 0 {
		return &InvalidArgumentsError{Msg: "stock cannot be negative"}
	}

	if unitCost < MinUnitCost || unitCost > MaxUnitCost {
		return &InvalidArgumentsError{Msg: fmt.Sprintf("unit cost must be between %d and %d cents", MinUnitCost, MaxUnitCost)}
	}

	if unitCost%smallestDenomination != 0 {
		return &InvalidArgumentsError{Msg: fmt.Sprintf("unit cost must be a multiple of %d cents", smallestDenomination)}
	}

	return nil
}

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, productID int64) (Product, error)
	CreateProduct(ctx context.Context, draft ProductDraft) (Product, error)
	// UpdateProduct stores name, stock and cost of product only if the stored
	// row is still at expected, and returns the stored result.
	UpdateProduct(ctx context.Context, product Product, expected Version) (Product, error)
	DeleteProduct(ctx context.Context, productID int64, expected Version) error
	SetStock(ctx context.Context, productID int64, stock int, expected Version) (Version, error)
}
