package http

import (
	"context"
	"net/http"

	"github.com/OmarShamkh/vending-machine-api/internal/pkg/logging"
	"github.com/OmarShamkh/vending-machine-api/internal/pkg/retry"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/application"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/metrics"
	"github.com/gin-gonic/gin"
)

type depositRequestBody struct {
	Amount  int64  `json:"amount" binding:"required"`
	Version *int64 `json:"version"`
}

type buyRequestBody struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Amount    int   `json:"amount" binding:"required,gt=0"`
}

type BuyerHandler struct {
	responder
	ledger    LedgerService
	purchases PurchaseService
	policy    retry.Policy
}

func NewBuyerHandler(ledger LedgerService, purchases PurchaseService, policy retry.Policy, logger logging.Logger, recorder *metrics.Recorder) *BuyerHandler {
	return &BuyerHandler{
		responder: responder{logger: logger, metrics: recorder},
		ledger:    ledger,
		purchases: purchases,
		policy:    policy,
	}
}

func (h *BuyerHandler) GetDeposit(c *gin.Context) {
	caller, _ := callerFrom(c)

	view, err := h.ledger.Read(c.Request.Context(), caller.UserID)
	if err != nil {
		h.fail(c, "get_deposit", err)
		return
	}

	c.JSON(http.StatusOK, depositView{Deposit: view.Balance, Version: int64(view.Version)})
}

func (h *BuyerHandler) Deposit(c *gin.Context) {
	var body depositRequestBody

	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	caller, _ := callerFrom(c)

	var view application.BalanceView
	err := writeAtVersion(c.Request.Context(), h.policy, body.Version,
		h.currentVersion(caller.UserID),
		func(ctx context.Context, expected domain.Version) error {
			var err error
			view, err = h.ledger.Deposit(ctx, caller.UserID, body.Amount, expected)
			return err
		},
	)
	if err != nil {
		h.fail(c, "deposit", err)
		return
	}

	h.metrics.ObserveDeposit(body.Amount)

	c.JSON(http.StatusOK, depositView{Deposit: view.Balance, Version: int64(view.Version)})
}

func (h *BuyerHandler) Buy(c *gin.Context) {
	var body buyRequestBody

	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	caller, _ := callerFrom(c)

	// The purchase re-reads both records on every attempt, so a retried
	// purchase is validated against fresh state.
	var result application.PurchaseResult
	err := retry.Do(c.Request.Context(), h.policy, domain.IsVersionConflict, func(ctx context.Context) error {
		var err error
		result, err = h.purchases.Purchase(ctx, caller.UserID, body.ProductID, body.Amount)
		return err
	})
	if err != nil {
		h.fail(c, "buy", err)
		return
	}

	h.metrics.ObservePurchase(body.Amount, result.ChangeBreakdown)

	c.JSON(http.StatusOK, buyView{
		TransactionID:   result.Transaction.ID,
		TotalSpent:      result.TotalSpent,
		Product:         newProductView(result.Product),
		AmountPurchased: body.Amount,
		Change:          result.ChangeGiven,
		ChangeBreakdown: result.ChangeBreakdown,
		Version:         int64(result.BuyerVersion),
	})
}

func (h *BuyerHandler) Reset(c *gin.Context) {
	version, ok := versionFromQuery(c)
	if !ok {
		badRequest(c, "invalid version")
		return
	}

	caller, _ := callerFrom(c)

	var view application.ResetView
	err := writeAtVersion(c.Request.Context(), h.policy, version,
		h.currentVersion(caller.UserID),
		func(ctx context.Context, expected domain.Version) error {
			var err error
			view, err = h.ledger.Reset(ctx, caller.UserID, expected)
			return err
		},
	)
	if err != nil {
		h.fail(c, "reset", err)
		return
	}

	c.JSON(http.StatusOK, resetView{
		PreviousDeposit: view.PreviousBalance,
		NewDeposit:      view.NewBalance,
		Version:         int64(view.Version),
	})
}

func (h *BuyerHandler) Coins(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"validCoins": domain.ValidDenominations()})
}

func (h *BuyerHandler) currentVersion(userID int64) func(ctx context.Context) (domain.Version, error) {
	return func(ctx context.Context) (domain.Version, error) {
		view, err := h.ledger.Read(ctx, userID)
		if err != nil {
			return 0, err
		}

		return view.Version, nil
	}
}
