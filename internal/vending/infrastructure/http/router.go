package http

import (
	"context"
	"net/http"
	"time"

	"github.com/OmarShamkh/vending-machine-api/internal/pkg/jwt"
	"github.com/OmarShamkh/vending-machine-api/internal/pkg/logging"
	"github.com/OmarShamkh/vending-machine-api/internal/pkg/retry"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/metrics"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Auth      AuthService
	Inventory InventoryService
	Ledger    LedgerService
	Purchases PurchaseService

	TokenParser jwt.TokenParser
	SecretKey   string
	RetryPolicy retry.Policy

	Logger       logging.Logger
	AccessLogger *zap.Logger
	Metrics      *metrics.Recorder

	// HealthCheck reports whether storage is reachable; nil means always healthy.
	HealthCheck func(ctx context.Context) error
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(
		NewRequestIDMiddleware(),
		ginzap.Ginzap(cfg.AccessLogger, time.RFC3339, true),
		ginzap.RecoveryWithZap(cfg.AccessLogger, true),
		cfg.Metrics.Middleware(),
	)

	authHandler := NewAuthHandler(cfg.Auth, cfg.Logger, cfg.Metrics)
	productHandler := NewProductHandler(cfg.Inventory, cfg.RetryPolicy, cfg.Logger, cfg.Metrics)
	buyerHandler := NewBuyerHandler(cfg.Ledger, cfg.Purchases, cfg.RetryPolicy, cfg.Logger, cfg.Metrics)
	authenticated := NewAuthMiddleware(cfg.TokenParser, cfg.SecretKey)

	router.GET("/health", healthHandler(cfg.HealthCheck))
	router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/user/:"+idParamKey, authenticated, authHandler.GetUser)
		}

		products := api.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:"+idParamKey, productHandler.Get)

			sellers := products.Group("", authenticated, RequireRole(domain.RoleSeller))
			{
				sellers.POST("", productHandler.Create)
				sellers.PUT("/:"+idParamKey, productHandler.Update)
				sellers.DELETE("/:"+idParamKey, productHandler.Delete)
			}
		}

		buyer := api.Group("/buyer", authenticated, RequireRole(domain.RoleBuyer))
		{
			buyer.GET("/deposit", buyerHandler.GetDeposit)
			buyer.POST("/deposit", buyerHandler.Deposit)
			buyer.POST("/buy", buyerHandler.Buy)
			buyer.POST("/reset", buyerHandler.Reset)
			buyer.GET("/coins", buyerHandler.Coins)
		}
	}

	return router
}

func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
