package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"virtual-stock-trader/models"
	"virtual-stock-trader/services"
)

func setupTradeRouter(t *testing.T) (*gin.Engine, *models.User, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "alice@example.com")

	h := NewPortfolioHandler(db, services.NewPortfolioService(db))

	router := gin.New()
	router.POST("/portfolio/buy", asUser(user.ID), h.Buy)
	router.POST("/portfolio/sell", asUser(user.ID), h.Sell)
	router.GET("/portfolio", asUser(user.ID), h.GetPortfolio)
	router.GET("/transactions", asUser(user.ID), h.GetTransactions)
	return router, user, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBuyEndpoint(t *testing.T) {
	router, _, _ := setupTradeRouter(t)

	w := doJSON(t, router, http.MethodPost, "/portfolio/buy", gin.H{
		"stockSymbol": "AAPL",
		"quantity":    10,
		"price":       150.0,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp HoldingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AAPL", resp.StockSymbol)
	assert.Equal(t, 10, resp.SharesOwned)
	assert.Equal(t, 150.0, resp.AveragePrice)
	assert.NotZero(t, resp.ID)
}

func TestBuyEndpointRejectsBadInput(t *testing.T) {
	router, _, _ := setupTradeRouter(t)

	w := doJSON(t, router, http.MethodPost, "/portfolio/buy", gin.H{
		"stockSymbol": "AAPL",
		"quantity":    0,
		"price":       150.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/portfolio/buy", gin.H{
		"quantity": 5,
		"price":    150.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSellEndpointFullLiquidation(t *testing.T) {
	router, user, db := setupTradeRouter(t)

	w := doJSON(t, router, http.MethodPost, "/portfolio/buy", gin.H{
		"stockSymbol": "AAPL",
		"quantity":    10,
		"price":       100.0,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/portfolio/sell", gin.H{
		"stockSymbol": "AAPL",
		"quantity":    10,
		"price":       120.0,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp HoldingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.SharesOwned)
	assert.Equal(t, 100.0, resp.AveragePrice)

	var count int64
	require.NoError(t, db.Model(&models.Holding{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestSellEndpointErrorMapping(t *testing.T) {
	router, _, _ := setupTradeRouter(t)

	// No holding at all.
	w := doJSON(t, router, http.MethodPost, "/portfolio/sell", gin.H{
		"stockSymbol": "AAPL",
		"quantity":    1,
		"price":       100.0,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Holding exists but is too small.
	w = doJSON(t, router, http.MethodPost, "/portfolio/buy", gin.H{
		"stockSymbol": "AAPL",
		"quantity":    2,
		"price":       100.0,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/portfolio/sell", gin.H{
		"stockSymbol": "AAPL",
		"quantity":    5,
		"price":       100.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 2, resp["owned"])
	assert.EqualValues(t, 5, resp["requested"])
}

func TestGetPortfolioEndpoint(t *testing.T) {
	router, _, _ := setupTradeRouter(t)

	for _, trade := range []gin.H{
		{"stockSymbol": "AAPL", "quantity": 10, "price": 100.0},
		{"stockSymbol": "GOOG", "quantity": 2, "price": 2500.0},
	} {
		w := doJSON(t, router, http.MethodPost, "/portfolio/buy", trade)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/portfolio", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []HoldingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "AAPL", resp[0].StockSymbol)
	assert.Equal(t, "GOOG", resp[1].StockSymbol)
}

func TestUnknownPrincipalRejected(t *testing.T) {
	db := newTestDB(t)
	h := NewPortfolioHandler(db, services.NewPortfolioService(db))

	router := gin.New()
	router.GET("/portfolio", asUser(4242), h.GetPortfolio)

	w := doJSON(t, router, http.MethodGet, "/portfolio", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
