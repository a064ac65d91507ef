package models

import (
	"time"

	"gorm.io/gorm"
)

type Competition struct {
	gorm.Model
	Name            string    `gorm:"not null" json:"name" binding:"required"`
	Description     string    `json:"description"`
	StartDate       time.Time `gorm:"not null" json:"startDate"`
	EndDate         time.Time `gorm:"not null" json:"endDate"`
	StartingBalance float64   `json:"startingBalance"`
}

// CompetitionParticipant links a user to a competition. PortfolioValue
// is seeded from the competition's starting balance at join time.
type CompetitionParticipant struct {
	gorm.Model
	CompetitionID  uint    `gorm:"index;not null" json:"competitionId"`
	UserID         uint    `gorm:"index;not null" json:"-"`
	PortfolioValue float64 `json:"portfolioValue"`
}
