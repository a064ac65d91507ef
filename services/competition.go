package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"virtual-stock-trader/models"
)

// ParticipantResponse is the safe projection of a participant record:
// the user's display name only, never email or credentials.
type ParticipantResponse struct {
	ID              uint    `json:"id"`
	CompetitionID   uint    `json:"competitionId"`
	CompetitionName string  `json:"competitionName"`
	Username        string  `json:"username"`
	PortfolioValue  float64 `json:"portfolioValue"`
}

type CompetitionService struct {
	db *gorm.DB
}

func NewCompetitionService(db *gorm.DB) *CompetitionService {
	return &CompetitionService{db: db}
}

func (s *CompetitionService) ListCompetitions() ([]models.Competition, error) {
	var competitions []models.Competition
	if err := s.db.Order("start_date").Find(&competitions).Error; err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}
	return competitions, nil
}

func (s *CompetitionService) CreateCompetition(competition *models.Competition) error {
	if err := s.db.Create(competition).Error; err != nil {
		return fmt.Errorf("create competition: %w", err)
	}
	return nil
}

// Join enrolls the user in a competition, seeding the participant's
// tracked portfolio value from the competition's starting balance.
// A user may join the same competition more than once; no uniqueness
// is enforced on (user, competition). TODO: decide whether repeat
// joins should be rejected before competitions go live.
func (s *CompetitionService) Join(competitionID uint, user *models.User) (*ParticipantResponse, error) {
	var out *ParticipantResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var competition models.Competition
		if err := tx.First(&competition, competitionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoSuchCompetition
			}
			return fmt.Errorf("load competition: %w", err)
		}

		participant := models.CompetitionParticipant{
			CompetitionID:  competition.ID,
			UserID:         user.ID,
			PortfolioValue: competition.StartingBalance,
		}
		if err := tx.Create(&participant).Error; err != nil {
			return fmt.Errorf("create participant: %w", err)
		}

		out = &ParticipantResponse{
			ID:              participant.ID,
			CompetitionID:   competition.ID,
			CompetitionName: competition.Name,
			Username:        user.Username,
			PortfolioValue:  participant.PortfolioValue,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
