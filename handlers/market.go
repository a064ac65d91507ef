package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"virtual-stock-trader/config"
	"virtual-stock-trader/database"
	"virtual-stock-trader/models"
)

const (
	priceCacheExpiration   = 5 * time.Minute
	historyCacheExpiration = 24 * time.Hour
)

type AlphaVantageResponse struct {
	GlobalQuote struct {
		Price string `json:"05. price"`
	} `json:"Global Quote"`
	TimeSeriesDaily map[string]struct {
		Open   string `json:"1. open"`
		High   string `json:"2. high"`
		Low    string `json:"3. low"`
		Close  string `json:"4. close"`
		Volume string `json:"5. volume"`
	} `json:"Time Series (Daily)"`
}

func GetStockPrice(c *gin.Context) {
	symbol := c.Param("symbol")

	// Check Redis cache first.
	cachedPrice, err := config.Rdb.Get(config.Ctx, fmt.Sprintf("stock:%s:price", symbol)).Result()
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"symbol": symbol, "price": cachedPrice})
		return
	}

	apiKey := os.Getenv("ALPHA_VANTAGE_API_KEY")
	url := fmt.Sprintf("https://www.alphavantage.co/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s", symbol, apiKey)

	resp, err := http.Get(url)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to fetch stock data"})
		return
	}
	defer resp.Body.Close()

	var result AlphaVantageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse stock data"})
		return
	}

	if result.GlobalQuote.Price == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock not found"})
		return
	}

	if err := config.Rdb.Set(config.Ctx, fmt.Sprintf("stock:%s:price", symbol), result.GlobalQuote.Price, priceCacheExpiration).Err(); err != nil {
		log.WithError(err).Warn("failed to cache stock price")
	}

	price, err := strconv.ParseFloat(result.GlobalQuote.Price, 64)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse stock price"})
		return
	}

	priceEntry := models.StockPrice{
		Symbol:    symbol,
		Price:     price,
		Timestamp: time.Now(),
	}
	if err := config.DB.Create(&priceEntry).Error; err != nil {
		log.WithError(err).Warn("failed to persist stock price")
	}

	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "price": result.GlobalQuote.Price})
}

func GetHistoricalData(c *gin.Context) {
	symbol := c.Param("symbol")

	cachedData, err := config.Rdb.Get(config.Ctx, fmt.Sprintf("stock:%s:history", symbol)).Result()
	if err == nil {
		var historicalData []models.StockPrice
		if err := json.Unmarshal([]byte(cachedData), &historicalData); err == nil {
			c.JSON(http.StatusOK, historicalData)
			return
		}
	}

	apiKey := os.Getenv("ALPHA_VANTAGE_API_KEY")
	url := fmt.Sprintf("https://www.alphavantage.co/query?function=TIME_SERIES_DAILY&symbol=%s&apikey=%s", symbol, apiKey)

	resp, err := http.Get(url)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to fetch historical data"})
		return
	}
	defer resp.Body.Close()

	var result AlphaVantageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse historical data"})
		return
	}

	if len(result.TimeSeriesDaily) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Historical data not found"})
		return
	}

	var historicalData []models.StockPrice
	for date, data := range result.TimeSeriesDaily {
		closePrice, err := strconv.ParseFloat(data.Close, 64)
		if err != nil {
			log.WithField("symbol", symbol).WithError(err).Warn("skipping malformed close price")
			continue
		}
		timestamp, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue
		}
		historicalData = append(historicalData, models.StockPrice{
			Symbol:    symbol,
			Price:     closePrice,
			Timestamp: timestamp,
		})
	}

	if err := database.CreateInBatches(historicalData, 100); err != nil {
		log.WithError(err).Warn("failed to persist historical prices")
	}

	if jsonData, err := json.Marshal(historicalData); err == nil {
		config.Rdb.Set(config.Ctx, fmt.Sprintf("stock:%s:history", symbol), jsonData, historyCacheExpiration)
	}

	c.JSON(http.StatusOK, historicalData)
}

// GetMarketNews proxies the Alpha Vantage news feed straight through.
func GetMarketNews(c *gin.Context) {
	apiKey := os.Getenv("ALPHA_VANTAGE_API_KEY")
	url := fmt.Sprintf("https://www.alphavantage.co/query?function=NEWS_SENTIMENT&topics=technology&apikey=%s", apiKey)

	resp, err := http.Get(url)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to fetch market news"})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read market news"})
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}
