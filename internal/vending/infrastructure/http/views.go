package http

import (
	"time"

	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
)

type userView struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Deposit   int64     `json:"deposit"`
	Role      string    `json:"role"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserView(u domain.User) userView {
	return userView{
		ID:        u.ID,
		Username:  u.Username,
		Deposit:   u.Balance,
		Role:      string(u.Role),
		Version:   int64(u.Version),
		CreatedAt: u.CreatedAt,
	}
}

type productView struct {
	ID              int64     `json:"id"`
	ProductName     string    `json:"productName"`
	AmountAvailable int       `json:"amountAvailable"`
	Cost            int64     `json:"cost"`
	SellerID        int64     `json:"sellerId"`
	Version         int64     `json:"version"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func newProductView(p domain.Product) productView {
	return productView{
		ID:              p.ID,
		ProductName:     p.Name,
		AmountAvailable: p.Stock,
		Cost:            p.UnitCost,
		SellerID:        p.OwnerID,
		Version:         int64(p.Version),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

type depositView struct {
	Deposit int64 `json:"deposit"`
	Version int64 `json:"version"`
}

type buyView struct {
	TransactionID   int64                  `json:"transactionId"`
	TotalSpent      int64                  `json:"totalSpent"`
	Product         productView            `json:"product"`
	AmountPurchased int                    `json:"amountPurchased"`
	Change          int64                  `json:"change"`
	ChangeBreakdown domain.ChangeBreakdown `json:"changeBreakdown"`
	Version         int64                  `json:"version"`
}

type resetView struct {
	PreviousDeposit int64 `json:"previousDeposit"`
	NewDeposit      int64 `json:"newDeposit"`
	Version         int64 `json:"version"`
}
