package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"virtual-stock-trader/config"
	"virtual-stock-trader/models"
)

func GetTutorials(c *gin.Context) {
	var tutorials []models.Tutorial
	if err := config.DB.Find(&tutorials).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tutorials"})
		return
	}
	c.JSON(http.StatusOK, tutorials)
}

func CreateTutorial(c *gin.Context) {
	var tutorial models.Tutorial
	if err := c.ShouldBindJSON(&tutorial); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Create(&tutorial).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tutorial"})
		return
	}
	c.JSON(http.StatusCreated, tutorial)
}

func DeleteTutorial(c *gin.Context) {
	var tutorial models.Tutorial
	if err := config.DB.First(&tutorial, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tutorial not found"})
		return
	}

	if err := config.DB.Delete(&tutorial).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tutorial"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tutorial deleted"})
}
