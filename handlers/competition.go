package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"virtual-stock-trader/models"
	"virtual-stock-trader/services"
)

type CompetitionHandler struct {
	db  *gorm.DB
	svc *services.CompetitionService
}

func NewCompetitionHandler(db *gorm.DB, svc *services.CompetitionService) *CompetitionHandler {
	return &CompetitionHandler{db: db, svc: svc}
}

func (h *CompetitionHandler) List(c *gin.Context) {
	competitions, err := h.svc.ListCompetitions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch competitions"})
		return
	}
	c.JSON(http.StatusOK, competitions)
}

// Create is admin only; the route is gated by middleware.AdminOnly.
func (h *CompetitionHandler) Create(c *gin.Context) {
	var competition models.Competition
	if err := c.ShouldBindJSON(&competition); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.CreateCompetition(&competition); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create competition"})
		return
	}
	c.JSON(http.StatusCreated, competition)
}

func (h *CompetitionHandler) Join(c *gin.Context) {
	user, err := currentUser(c, h.db)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid competition id"})
		return
	}

	participant, err := h.svc.Join(uint(id), user)
	if err != nil {
		if errors.Is(err, services.ErrNoSuchCompetition) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join competition"})
		return
	}

	c.JSON(http.StatusOK, participant)
}
