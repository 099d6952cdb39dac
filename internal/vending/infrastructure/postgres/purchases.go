package postgres

import (
	"context"
	"fmt"

	"github.com/OmarShamkh/vending-machine-api/internal/pkg/database"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
)

type PurchaseCommitter struct {
	txManager database.TxManager
}

func NewPurchaseCommitter(txManager database.TxManager) *PurchaseCommitter {
	return &PurchaseCommitter{
		txManager: txManager,
	}
}

func (pc *PurchaseCommitter) CommitPurchase(ctx context.Context, commit domain.PurchaseCommit) (domain.PurchaseReceipt, error) {
	var receipt domain.PurchaseReceipt

	err := pc.txManager.WithinTransaction(ctx, func(ctx context.Context, executor database.QueryExecuter) error {
		buyerVersion, err := setUserBalance(ctx, executor, commit.BuyerID, 0, commit.BuyerVersion)
		if err != nil {
			return err
		}

		productVersion, err := setProductStock(ctx, executor, commit.ProductID, commit.NewStock, commit.ProductVersion)
		if err != nil {
			return err
		}

		tx, err := insertTransaction(ctx, executor, commit)
		if err != nil {
			return err
		}

		receipt = domain.PurchaseReceipt{
			Transaction:    tx,
			BuyerVersion:   buyerVersion,
			ProductVersion: productVersion,
		}

		return nil
	})
	if err != nil {
		return domain.PurchaseReceipt{}, err
	}

	return receipt, nil
}

func insertTransaction(ctx context.Context, querier database.Querier, commit domain.PurchaseCommit) (domain.Transaction, error) {
	insertSQL := `INSERT INTO transactions (buyer_id, product_id, quantity, total_spent, change_given, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	tx := domain.Transaction{
		BuyerID:     commit.BuyerID,
		ProductID:   commit.ProductID,
		Quantity:    commit.Quantity,
		TotalSpent:  commit.TotalSpent,
		ChangeGiven: commit.ChangeGiven,
		CreatedAt:   commit.CreatedAt,
	}

	err := querier.QueryRow(ctx, insertSQL, tx.BuyerID, tx.ProductID, tx.Quantity, tx.TotalSpent, tx.ChangeGiven, tx.CreatedAt).
		Scan(&tx.ID)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("failed to insert transaction record: %w", err)
	}

	return tx, nil
}
