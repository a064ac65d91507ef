package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"virtual-stock-trader/models"
	"virtual-stock-trader/services"
)

// currentUser resolves the authenticated principal set by the JWT
// middleware into a fresh User row. The core services always receive
// the resolved user explicitly and never look it up themselves.
func currentUser(c *gin.Context, db *gorm.DB) (*models.User, error) {
	userID, ok := c.MustGet("user_id").(uint)
	if !ok {
		return nil, services.ErrUnknownUser
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrUnknownUser
		}
		return nil, err
	}
	return &user, nil
}
