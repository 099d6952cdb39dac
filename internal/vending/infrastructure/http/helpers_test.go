package http

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/OmarShamkh/vending-machine-api/internal/pkg/retry"
	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var testPolicy = retry.Policy{MaxAttempts: 3}

func newTestContext(t *testing.T, method, target string, body any, caller *domain.Caller) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	writer := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(writer)
	c.Request = httptest.NewRequest(method, target, &payload)
	c.Request.Header.Set("Content-Type", "application/json")

	if caller != nil {
		c.Set(userIDKey, caller.UserID)
		c.Set(roleKey, caller.Role)
	}

	return c, writer
}

func withID(c *gin.Context, id string) {
	c.Params = gin.Params{{Key: idParamKey, Value: id}}
}
