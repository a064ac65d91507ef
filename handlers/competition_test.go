package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtual-stock-trader/models"
	"virtual-stock-trader/services"
)

func TestJoinCompetitionEndpoint(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "alice@example.com")

	competition := models.Competition{
		Name:            "Q4 Challenge",
		StartDate:       time.Now(),
		EndDate:         time.Now().Add(30 * 24 * time.Hour),
		StartingBalance: 10000,
	}
	require.NoError(t, db.Create(&competition).Error)

	h := NewCompetitionHandler(db, services.NewCompetitionService(db))
	router := gin.New()
	router.POST("/competitions/:id/join", asUser(user.ID), h.Join)

	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/competitions/%d/join", competition.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp services.ParticipantResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, competition.ID, resp.CompetitionID)
	assert.Equal(t, "Q4 Challenge", resp.CompetitionName)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, 10000.0, resp.PortfolioValue)
}

func TestJoinUnknownCompetitionEndpoint(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "alice@example.com")

	h := NewCompetitionHandler(db, services.NewCompetitionService(db))
	router := gin.New()
	router.POST("/competitions/:id/join", asUser(user.ID), h.Join)

	w := doJSON(t, router, http.MethodPost, "/competitions/999/join", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, "/competitions/abc/join", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
