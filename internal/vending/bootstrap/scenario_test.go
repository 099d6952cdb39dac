package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/OmarShamkh/vending-machine-api/internal/pkg/logging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiClient struct {
	t       *testing.T
	baseURL string
}

// startApp runs the app on a random local port and returns a client for it.
func startApp(t *testing.T, cfg VendingConfig) apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	app := NewVendingApp(cfg, logging.DiscardLogger, zap.NewNop())

	runErr := make(chan error, 1)
	go func() {
		runErr <- app.Run(ctx, lis)
	}()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-runErr)
		app.Shutdown()
	})

	client := apiClient{t: t, baseURL: "http://" + lis.Addr().String()}
	require.Eventually(t, func() bool {
		resp, err := http.Get(client.baseURL + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 30*time.Second, 100*time.Millisecond)

	return client
}

func (c apiClient) do(method, path, token string, body any) (int, []byte) {
	c.t.Helper()

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, payload)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	return resp.StatusCode, respBody
}

func (c apiClient) signUp(username, role string) string {
	c.t.Helper()

	credentials := map[string]string{"username": username, "password": "password123", "role": role}
	status, _ := c.do(http.MethodPost, "/api/auth/register", "", credentials)
	require.Equal(c.t, http.StatusCreated, status)

	status, body := c.do(http.MethodPost, "/api/auth/login", "", credentials)
	require.Equal(c.t, http.StatusOK, status)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(c.t, json.Unmarshal(body, &login))
	require.NotEmpty(c.t, login.Token)

	return login.Token
}

type scenarioProduct struct {
	ID              int64 `json:"id"`
	AmountAvailable int   `json:"amountAvailable"`
	Cost            int64 `json:"cost"`
	SellerID        int64 `json:"sellerId"`
	Version         int64 `json:"version"`
}

type scenarioPurchase struct {
	TotalSpent      int64           `json:"totalSpent"`
	Change          int64           `json:"change"`
	ChangeBreakdown map[string]int  `json:"changeBreakdown"`
	AmountPurchased int             `json:"amountPurchased"`
	Product         scenarioProduct `json:"product"`
}

// runPurchaseScenario walks a seller and a buyer through a full sale.
func runPurchaseScenario(t *testing.T, client apiClient) {
	sellerToken := client.signUp("seller", "seller")
	buyerToken := client.signUp("buyer", "buyer")

	status, _ := client.do(http.MethodPost, "/api/auth/register", "",
		map[string]string{"username": "buyer", "password": "password123", "role": "buyer"})
	assert.Equal(t, http.StatusConflict, status)

	// STOCK THE MACHINE
	status, body := client.do(http.MethodPost, "/api/products", sellerToken,
		map[string]any{"productName": "Chips", "amountAvailable": 5, "cost": 30})
	require.Equal(t, http.StatusCreated, status, string(body))

	var product scenarioProduct
	require.NoError(t, json.Unmarshal(body, &product))
	assert.Equal(t, 5, product.AmountAvailable)
	assert.Equal(t, int64(1), product.Version)

	status, _ = client.do(http.MethodPost, "/api/products", buyerToken,
		map[string]any{"productName": "Soda", "amountAvailable": 1, "cost": 50})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = client.do(http.MethodPost, "/api/products", sellerToken,
		map[string]any{"productName": "Soda", "amountAvailable": 1, "cost": 33})
	assert.Equal(t, http.StatusBadRequest, status)

	// DEPOSIT
	status, body = client.do(http.MethodPost, "/api/buyer/deposit", buyerToken, map[string]any{"amount": 100})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.JSONEq(t, `{"deposit":100,"version":2}`, string(body))

	status, _ = client.do(http.MethodPost, "/api/buyer/deposit", buyerToken, map[string]any{"amount": 3})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = client.do(http.MethodPost, "/api/buyer/deposit", buyerToken, map[string]any{"amount": 5, "version": 1})
	assert.Equal(t, http.StatusConflict, status)

	// BUY
	productPath := "/api/products/" + strconv.FormatInt(product.ID, 10)
	status, body = client.do(http.MethodPost, "/api/buyer/buy", buyerToken,
		map[string]any{"productId": product.ID, "amount": 3})
	require.Equal(t, http.StatusOK, status, string(body))

	var purchase scenarioPurchase
	require.NoError(t, json.Unmarshal(body, &purchase))
	assert.Equal(t, int64(90), purchase.TotalSpent)
	assert.Equal(t, int64(10), purchase.Change)
	assert.Equal(t, map[string]int{"10": 1}, purchase.ChangeBreakdown)
	assert.Equal(t, 3, purchase.AmountPurchased)
	assert.Equal(t, 2, purchase.Product.AmountAvailable)

	status, body = client.do(http.MethodGet, "/api/buyer/deposit", buyerToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"deposit":0,"version":3}`, string(body))

	status, _ = client.do(http.MethodPost, "/api/buyer/buy", buyerToken,
		map[string]any{"productId": product.ID, "amount": 1})
	assert.Equal(t, http.StatusBadRequest, status)

	// RESET
	status, _ = client.do(http.MethodPost, "/api/buyer/deposit", buyerToken, map[string]any{"amount": 50})
	require.Equal(t, http.StatusOK, status)

	status, body = client.do(http.MethodPost, "/api/buyer/reset", buyerToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"previousDeposit":50,"newDeposit":0,"version":5}`, string(body))

	// INVENTORY AFTER THE SALE
	status, body = client.do(http.MethodGet, productPath, "", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &product))
	assert.Equal(t, 2, product.AmountAvailable)
	assert.Equal(t, int64(2), product.Version)

	status, _ = client.do(http.MethodDelete, productPath+"?version=2", sellerToken, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, body = client.do(http.MethodGet, "/api/buyer/coins", buyerToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"validCoins":[100,50,20,10,5]}`, string(body))
}
