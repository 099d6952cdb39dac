package http

import (
	"net/http"

	"github.com/OmarShamkh/vending-machine-api/internal/pkg/logging"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/metrics"
	"github.com/gin-gonic/gin"
)

type registerRequestBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type loginRequestBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthHandler struct {
	responder
	service AuthService
}

func NewAuthHandler(service AuthService, logger logging.Logger, recorder *metrics.Recorder) *AuthHandler {
	return &AuthHandler{
		responder: responder{logger: logger, metrics: recorder},
		service:   service,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var body registerRequestBody

	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := h.service.Register(c.Request.Context(), body.Username, body.Password, domain.Role(body.Role))
	if err != nil {
		h.fail(c, "register", err)
		return
	}

	c.JSON(http.StatusCreated, newUserView(user))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequestBody

	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	token, err := h.service.Login(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		h.fail(c, "login", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AuthHandler) GetUser(c *gin.Context) {
	userID, ok := idParam(c)
	if !ok {
		badRequest(c, "invalid user id")
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "get_user", err)
		return
	}

	c.JSON(http.StatusOK, newUserView(user))
}
