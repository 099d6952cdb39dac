package application

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/OmarShamkh/vending-machine-api/internal/pkg/logging"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
)

type PurchaseResult struct {
	Transaction     domain.Transaction
	TotalSpent      int64
	ChangeGiven     int64
	ChangeBreakdown domain.ChangeBreakdown
	Product         domain.Product
	BuyerVersion    domain.Version
	ProductVersion  domain.Version
}

// PurchaseCoordinator turns a buyer's deposit into a product sale. Both
// records are read once, validated, and then written in a single commit that
// only lands if neither record changed in between.
type PurchaseCoordinator struct {
	users     domain.UserRepository
	products  domain.ProductRepository
	committer domain.PurchaseCommitter
	logger    logging.Logger

	now func() time.Time
}

func NewPurchaseCoordinator(
	users domain.UserRepository,
	products domain.ProductRepository,
	committer domain.PurchaseCommitter,
	logger logging.Logger,
) *PurchaseCoordinator {
	return &PurchaseCoordinator{
		users:     users,
		products:  products,
		committer: committer,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (pc *PurchaseCoordinator) Purchase(ctx context.Context, buyerID int64, productID int64, quantity int) (PurchaseResult, error) {
	if quantity < 1 {
		return PurchaseResult{}, &domain.InvalidArgumentsError{Msg: "quantity must be at least 1"}
	}

	buyer, err := pc.users.GetUser(ctx, buyerID)
	if err != nil {
		return PurchaseResult{}, err
	}

	product, err := pc.products.GetProduct(ctx, productID)
	if err != nil {
		return PurchaseResult{}, err
	}

	if product.Stock < quantity {
		pc.logger.Warn("purchase rejected", "reason", "insufficient stock", "buyer_id", buyerID,
			"product_id", productID, "requested", quantity, "available", product.Stock)
		return PurchaseResult{}, &domain.InsufficientStockError{
			Msg: fmt.Sprintf("product %d has %d in stock, %d requested", productID, product.Stock, quantity),
		}
	}

	// A total past the int64 range is more than any balance can hold.
	if product.UnitCost > math.MaxInt64/int64(quantity) {
		pc.logger.Warn("purchase rejected", "reason", "total out of range", "buyer_id", buyerID,
			"product_id", productID, "requested", quantity, "unit_cost", product.UnitCost)
		return PurchaseResult{}, &domain.InsufficientFundsError{
			Msg: fmt.Sprintf("%d units at %d cost more than any balance", quantity, product.UnitCost),
		}
	}

	totalCost := product.UnitCost * int64(quantity)
	if buyer.Balance < totalCost {
		pc.logger.Warn("purchase rejected", "reason", "insufficient funds", "buyer_id", buyerID,
			"product_id", productID, "required", totalCost, "balance", buyer.Balance)
		return PurchaseResult{}, &domain.InsufficientFundsError{
			Msg: fmt.Sprintf("purchase costs %d, balance is %d", totalCost, buyer.Balance),
		}
	}

	change := buyer.Balance - totalCost
	breakdown, err := domain.ComputeChange(change)
	if err != nil {
		return PurchaseResult{}, err
	}

	receipt, err := pc.committer.CommitPurchase(ctx, domain.PurchaseCommit{
		BuyerID:        buyer.ID,
		BuyerVersion:   buyer.Version,
		ProductID:      product.ID,
		ProductVersion: product.Version,
		NewStock:       product.Stock - quantity,
		Quantity:       quantity,
		TotalSpent:     totalCost,
		ChangeGiven:    change,
		CreatedAt:      pc.now(),
	})
	if err != nil {
		if domain.IsVersionConflict(err) {
			pc.logger.Warn("purchase conflicted", "buyer_id", buyerID, "product_id", productID, "error", err.Error())
		}
		return PurchaseResult{}, err
	}

	pc.logger.Info("purchase committed", "transaction_id", receipt.Transaction.ID, "buyer_id", buyerID,
		"product_id", productID, "quantity", quantity, "total_spent", totalCost, "change", change)

	updated := product
	updated.Stock = product.Stock - quantity
	updated.Version = receipt.ProductVersion

	return PurchaseResult{
		Transaction:     receipt.Transaction,
		TotalSpent:      totalCost,
		ChangeGiven:     change,
		ChangeBreakdown: breakdown,
		Product:         updated,
		BuyerVersion:    receipt.BuyerVersion,
		ProductVersion:  receipt.ProductVersion,
	}, nil
}
