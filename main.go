package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"virtual-stock-trader/config"
	"virtual-stock-trader/handlers"
	"virtual-stock-trader/middleware"
	"virtual-stock-trader/models"
	"virtual-stock-trader/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, relying on environment")
	}

	config.InitLogger()
	config.InitDB()
	config.InitRedis()

	sqlDB, err := config.DB.DB()
	if err != nil {
		log.Fatal("Failed to get database instance: ", err)
	}
	defer sqlDB.Close()

	if err := config.DB.AutoMigrate(
		&models.User{},
		&models.Holding{},
		&models.Transaction{},
		&models.Competition{},
		&models.CompetitionParticipant{},
		&models.Tutorial{},
		&models.StockPrice{},
	); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}

	portfolioHandler := handlers.NewPortfolioHandler(config.DB, services.NewPortfolioService(config.DB))
	competitionHandler := handlers.NewCompetitionHandler(config.DB, services.NewCompetitionService(config.DB))

	router := gin.Default()

	// Public routes
	router.POST("/signup", handlers.Signup)
	router.POST("/login", handlers.Login)
	router.POST("/refresh", handlers.Refresh)
	router.GET("/tutorials", handlers.GetTutorials)

	// Protected routes
	auth := router.Group("/")
	auth.Use(middleware.JWTAuth())
	{
		auth.GET("/portfolio", portfolioHandler.GetPortfolio)
		auth.POST("/portfolio/buy", portfolioHandler.Buy)
		auth.POST("/portfolio/sell", portfolioHandler.Sell)
		auth.GET("/transactions", portfolioHandler.GetTransactions)

		auth.GET("/competitions", competitionHandler.List)
		auth.POST("/competitions/:id/join", competitionHandler.Join)

		auth.GET("/market/price/:symbol", handlers.GetStockPrice)
		auth.GET("/market/history/:symbol", handlers.GetHistoricalData)
		auth.GET("/market/news", handlers.GetMarketNews)
	}

	// Admin routes
	admin := auth.Group("/")
	admin.Use(middleware.AdminOnly())
	{
		admin.POST("/competitions", competitionHandler.Create)
		admin.POST("/tutorials", handlers.CreateTutorial)
		admin.DELETE("/tutorials/:id", handlers.DeleteTutorial)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	router.Run(":" + port)
}
