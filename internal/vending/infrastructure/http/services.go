package http

import (
	"context"

	"github.com/OmarShamkh/vending-machine-api/internal/vending/application"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string, role domain.Role) (domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	GetUser(ctx context.Context, userID int64) (domain.User, error)
}

type InventoryService interface {
	Read(ctx context.Context, productID int64) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, caller domain.Caller, draft domain.ProductDraft) (domain.Product, error)
	Update(ctx context.Context, caller domain.Caller, productID int64, patch domain.ProductPatch, expected domain.Version) (domain.Product, error)
	Delete(ctx context.Context, caller domain.Caller, productID int64, expected domain.Version) error
}

type LedgerService interface {
	Read(ctx context.Context, userID int64) (application.BalanceView, error)
	Deposit(ctx context.Context, userID int64, coin int64, expected domain.Version) (application.BalanceView, error)
	Reset(ctx context.Context, userID int64, expected domain.Version) (application.ResetView, error)
}

type PurchaseService interface {
	Purchase(ctx context.Context, buyerID int64, productID int64, quantity int) (application.PurchaseResult, error)
}
