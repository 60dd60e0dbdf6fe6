package services

import (
	"fmt"

	"presale-backend/models"

	"gorm.io/gorm"
)

// PresaleService serves the mirrored round/vesting rows the front-end
// renders. The presale sync worker keeps the mirror fresh.
type PresaleService struct {
	DB *gorm.DB
}

func NewPresaleService(db *gorm.DB) *PresaleService {
	return &PresaleService{DB: db}
}

func (s *PresaleService) ListRounds() ([]models.PresaleRoundMirror, error) {
	var rounds []models.PresaleRoundMirror
	if err := s.DB.Order("round_index ASC").Find(&rounds).Error; err != nil {
		return nil, fmt.Errorf("failed to list presale rounds: %w", err)
	}
	return rounds, nil
}

func (s *PresaleService) ActiveRound() (*models.PresaleRoundMirror, error) {
	var round models.PresaleRoundMirror
	if err := s.DB.Where("is_active = ?", true).Order("round_index ASC").First(&round).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load active round: %w", err)
	}
	return &round, nil
}
