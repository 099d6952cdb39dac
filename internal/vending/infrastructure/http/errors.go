package http

import (
	"errors"
	"net/http"

	"github.com/OmarShamkh/vending-machine-api/internal/pkg/logging"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/metrics"
	"github.com/gin-gonic/gin"
)

// responder writes failures in one shape and counts them.
type responder struct {
	logger  logging.Logger
	metrics *metrics.Recorder
}

func (r responder) fail(c *gin.Context, operation string, err error) {
	r.metrics.ObserveFailure(operation, err)

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		requestID, _ := c.Get(requestIDKey)
		r.logger.Error("request failed", "operation", operation, "request_id", requestID, "error", err.Error())
		c.JSON(status, gin.H{"errors": "internal server error"})
		return
	}

	c.JSON(status, gin.H{"errors": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, &domain.InvalidCoinError{}),
		errors.Is(err, &domain.InvalidAmountError{}),
		errors.Is(err, &domain.InvalidArgumentsError{}),
		errors.Is(err, &domain.InsufficientStockError{}),
		errors.Is(err, &domain.InsufficientFundsError{}):
		return http.StatusBadRequest
	case errors.Is(err, &domain.CredentialsMismatchError{}):
		return http.StatusUnauthorized
	case errors.Is(err, &domain.ForbiddenError{}):
		return http.StatusForbidden
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsVersionConflict(err),
		errors.Is(err, &domain.UserExistsError{}),
		errors.Is(err, &domain.ProductInUseError{}):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": message})
}
