package domain

import (
	"context"
	"time"
)

// Transaction is the immutable record of one successful purchase.
type Transaction struct {
	ID          int64
	BuyerID     int64
	ProductID   int64
	Quantity    int
	TotalSpent  int64
	ChangeGiven int64
	CreatedAt   time.Time
}

// PurchaseCommit is the set of conditional writes a purchase applies
// together: the buyer balance drops to zero, the product stock drops to
// NewStock and a transaction row is appended.
type PurchaseCommit struct {
	BuyerID        int64
	BuyerVersion   Version
	ProductID      int64
	ProductVersion Version
	NewStock       int
	Quantity       int
	TotalSpent     int64
	ChangeGiven    int64
	CreatedAt      time.Time
}

type PurchaseReceipt struct {
	Transaction    Transaction
	BuyerVersion   Version
	ProductVersion Version
}

type PurchaseCommitter interface {
	// CommitPurchase applies every write of commit or none of them. A stale
	// buyer or product version yields *VersionConflictError.
	CommitPurchase(ctx context.Context, commit PurchaseCommit) (PurchaseReceipt, error)
}
