package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"virtual-stock-trader/models"
	"virtual-stock-trader/services"
)

type TradeInput struct {
	StockSymbol string  `json:"stockSymbol" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
	Price       float64 `json:"price" binding:"gte=0"`
}

// HoldingResponse is what the client sees of a holding: no user id, no
// version bookkeeping.
type HoldingResponse struct {
	ID           uint    `json:"id"`
	StockSymbol  string  `json:"stockSymbol"`
	SharesOwned  int     `json:"sharesOwned"`
	AveragePrice float64 `json:"averagePrice"`
}

type PortfolioHandler struct {
	db  *gorm.DB
	svc *services.PortfolioService
}

func NewPortfolioHandler(db *gorm.DB, svc *services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{db: db, svc: svc}
}

func (h *PortfolioHandler) Buy(c *gin.Context) {
	user, err := currentUser(c, h.db)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var input TradeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	holding, err := h.svc.Buy(user, services.TradeRequest{
		StockSymbol: input.StockSymbol,
		Quantity:    input.Quantity,
		Price:       input.Price,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to execute buy", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toHoldingResponse(holding))
}

func (h *PortfolioHandler) Sell(c *gin.Context) {
	user, err := currentUser(c, h.db)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var input TradeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	holding, err := h.svc.Sell(user, services.TradeRequest{
		StockSymbol: input.StockSymbol,
		Quantity:    input.Quantity,
		Price:       input.Price,
	})
	if err != nil {
		var insufficient *services.InsufficientSharesError
		switch {
		case errors.Is(err, services.ErrNoSuchHolding):
			c.JSON(http.StatusNotFound, gin.H{"error": "You don't own this stock: " + input.StockSymbol})
		case errors.As(err, &insufficient):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     insufficient.Error(),
				"owned":     insufficient.Owned,
				"requested": insufficient.Requested,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to execute sell", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, toHoldingResponse(holding))
}

func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	user, err := currentUser(c, h.db)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	holdings, err := h.svc.GetHoldings(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch portfolio"})
		return
	}

	out := make([]HoldingResponse, 0, len(holdings))
	for i := range holdings {
		out = append(out, toHoldingResponse(&holdings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *PortfolioHandler) GetTransactions(c *gin.Context) {
	user, err := currentUser(c, h.db)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	txns, err := h.svc.GetTransactions(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}
	c.JSON(http.StatusOK, txns)
}

func toHoldingResponse(h *models.Holding) HoldingResponse {
	return HoldingResponse{
		ID:           h.ID,
		StockSymbol:  h.StockSymbol,
		SharesOwned:  h.SharesOwned,
		AveragePrice: h.AveragePrice,
	}
}
