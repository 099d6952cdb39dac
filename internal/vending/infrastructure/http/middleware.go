package http

import (
	"net/http"
	"strings"

	"github.com/OmarShamkh/vending-machine-api/internal/pkg/jwt"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	authHeaderName      = "Authorization"
	requestIDHeaderName = "X-Request-ID"

	userIDKey    = "vending.user_id"
	roleKey      = "vending.role"
	requestIDKey = "vending.request_id"
)

// NewAuthMiddleware accepts only requests carrying a valid bearer token and
// stores the caller identity on the context.
func NewAuthMiddleware(parser jwt.TokenParser, secretKey string) gin.HandlerFunc {
	secret := []byte(secretKey)

	return func(c *gin.Context) {
		header := c.GetHeader(authHeaderName)
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": "missing authorization header"})
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": "invalid auth header"})
			return
		}

		claims, err := parser.ParseToken(secret, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": "invalid token"})
			return
		}

		role := domain.Role(claims.Role)
		if !role.Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": "invalid token"})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(roleKey, role)
		c.Next()
	}
}

// RequireRole must run after NewAuthMiddleware.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": "user not authenticated"})
			return
		}

		if caller.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"errors": "only " + string(role) + "s can access this resource"})
			return
		}

		c.Next()
	}
}

func NewRequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeaderName)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeaderName, requestID)
		c.Next()
	}
}

func callerFrom(c *gin.Context) (domain.Caller, bool) {
	userID, ok := c.Get(userIDKey)
	if !ok {
		return domain.Caller{}, false
	}

	role, ok := c.Get(roleKey)
	if !ok {
		return domain.Caller{}, false
	}

	caller := domain.Caller{}
	caller.UserID, ok = userID.(int64)
	if !ok {
		return domain.Caller{}, false
	}

	caller.Role, ok = role.(domain.Role)
	if !ok {
		return domain.Caller{}, false
	}

	return caller, true
}
