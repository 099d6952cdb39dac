package http

import (
	"context"
	"net/http"

	"github.com/OmarShamkh/vending-machine-api/internal/pkg/logging"
	"github.com/OmarShamkh/vending-machine-api/internal/pkg/retry"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/metrics"
	"github.com/gin-gonic/gin"
)

const idParamKey = "id"

type createProductRequestBody struct {
	ProductName     string `json:"productName" binding:"required"`
	AmountAvailable *int   `json:"amountAvailable" binding:"required"`
	Cost            int64  `json:"cost" binding:"required"`
}

type updateProductRequestBody struct {
	ProductName     *string `json:"productName"`
	AmountAvailable *int    `json:"amountAvailable"`
	Cost            *int64  `json:"cost"`
	Version         *int64  `json:"version"`
}

type ProductHandler struct {
	responder
	service InventoryService
	policy  retry.Policy
}

func NewProductHandler(service InventoryService, policy retry.Policy, logger logging.Logger, recorder *metrics.Recorder) *ProductHandler {
	return &ProductHandler{
		responder: responder{logger: logger, metrics: recorder},
		service:   service,
		policy:    policy,
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.service.List(c.Request.Context())
	if err != nil {
		h.fail(c, "list_products", err)
		return
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p))
	}

	c.JSON(http.StatusOK, views)
}

func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := idParam(c)
	if !ok {
		badRequest(c, "invalid product id")
		return
	}

	product, err := h.service.Read(c.Request.Context(), productID)
	if err != nil {
		h.fail(c, "get_product", err)
		return
	}

	c.JSON(http.StatusOK, newProductView(product))
}

func (h *ProductHandler) Create(c *gin.Context) {
	var body createProductRequestBody

	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	caller, _ := callerFrom(c)
	product, err := h.service.Create(c.Request.Context(), caller, domain.ProductDraft{
		Name:     body.ProductName,
		Stock:    *body.AmountAvailable,
		UnitCost: body.Cost,
	})
	if err != nil {
		h.fail(c, "create_product", err)
		return
	}

	c.JSON(http.StatusCreated, newProductView(product))
}

func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := idParam(c)
	if !ok {
		badRequest(c, "invalid product id")
		return
	}

	var body updateProductRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	caller, _ := callerFrom(c)
	patch := domain.ProductPatch{
		Name:     body.ProductName,
		Stock:    body.AmountAvailable,
		UnitCost: body.Cost,
	}

	var updated domain.Product
	err := writeAtVersion(c.Request.Context(), h.policy, body.Version,
		h.currentVersion(productID),
		func(ctx context.Context, expected domain.Version) error {
			var err error
			updated, err = h.service.Update(ctx, caller, productID, patch, expected)
			return err
		},
	)
	if err != nil {
		h.fail(c, "update_product", err)
		return
	}

	c.JSON(http.StatusOK, newProductView(updated))
}

func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := idParam(c)
	if !ok {
		badRequest(c, "invalid product id")
		return
	}

	version, ok := versionFromQuery(c)
	if !ok {
		badRequest(c, "invalid version")
		return
	}

	caller, _ := callerFrom(c)
	err := writeAtVersion(c.Request.Context(), h.policy, version,
		h.currentVersion(productID),
		func(ctx context.Context, expected domain.Version) error {
			return h.service.Delete(ctx, caller, productID, expected)
		},
	)
	if err != nil {
		h.fail(c, "delete_product", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) currentVersion(productID int64) func(ctx context.Context) (domain.Version, error) {
	return func(ctx context.Context) (domain.Version, error) {
		product, err := h.service.Read(ctx, productID)
		if err != nil {
			return 0, err
		}

		return product.Version, nil
	}
}
