package services

import (
	"errors"
	"fmt"
	"log"

	"presale-backend/models"
	"presale-backend/refcode"

	"gorm.io/gorm"
)

// ReferrerDirectory is the slice of the referral service the recorder needs.
type ReferrerDirectory interface {
	LookupByCode(code string) (*models.Referrer, error)
}

// ConversionService reconciles confirmed purchases against stored
// attribution and records the credited conversion.
type ConversionService struct {
	DB        *gorm.DB
	Directory ReferrerDirectory
}

func NewConversionService(db *gorm.DB, directory ReferrerDirectory) *ConversionService {
	return &ConversionService{DB: db, Directory: directory}
}

// ConversionInput is a validated purchase report from the client.
type ConversionInput struct {
	BuyerAddress string
	TxHash       string
	ChainID      int64
	Amount       *string
}

// RecordConversion credits a purchase to the referrer in the caller's
// attribution snapshot. Missing or unresolvable attribution returns
// (false, nil) — attribution must never fail a purchase. A storage fault
// against a *resolved* attribution is a real error and is returned.
//
// A purchase already recorded for the same (chain_id, tx_hash) is
// acknowledged without a second row, so client retries stay harmless.
func (s *ConversionService) RecordConversion(snap *models.AttributionSnapshot, in ConversionInput) (bool, error) {
	if snap == nil {
		return false, nil
	}

	ref, err := s.Directory.LookupByCode(snap.RefCode)
	if err != nil {
		if errors.Is(err, ErrCodeNotFound) {
			log.Printf("[CONVERSION] Unknown ref code %q — recording unattributed", snap.RefCode)
			return false, nil
		}
		return false, fmt.Errorf("failed to resolve ref code: %w", err)
	}

	var existing int64
	if err := s.DB.Model(&models.Conversion{}).
		Where("chain_id = ? AND tx_hash = ?", in.ChainID, in.TxHash).
		Count(&existing).Error; err != nil {
		return false, fmt.Errorf("failed to check for existing conversion: %w", err)
	}
	if existing > 0 {
		log.Printf("[CONVERSION] Duplicate report for tx %s on chain %d — skipping insert", in.TxHash, in.ChainID)
		return true, nil
	}

	conv := models.Conversion{
		ReferrerAddress: refcode.Normalize(ref.Address),
		BuyerAddress:    refcode.Normalize(in.BuyerAddress),
		TxHash:          in.TxHash,
		ChainID:         in.ChainID,
		Amount:          in.Amount,
		RefCode:         snap.RefCode,
		UTMSource:       optional(snap.UTMSource),
		UTMMedium:       optional(snap.UTMMedium),
		UTMCampaign:     optional(snap.UTMCampaign),
		UTMContent:      optional(snap.UTMContent),
		UTMTerm:         optional(snap.UTMTerm),
	}
	if err := s.DB.Create(&conv).Error; err != nil {
		return false, fmt.Errorf("failed to insert conversion: %w", err)
	}

	log.Printf("✅ [CONVERSION] Recorded: referrer=%s buyer=%s tx=%s chain=%d",
		conv.ReferrerAddress, conv.BuyerAddress, conv.TxHash, conv.ChainID)
	return true, nil
}

// CountByRefCode returns how many conversions a code has produced.
func (s *ConversionService) CountByRefCode(code string) (int64, error) {
	var count int64
	if err := s.DB.Model(&models.Conversion{}).Where("ref_code = ?", code).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count conversions: %w", err)
	}
	return count, nil
}

// RecentByRefCode returns the newest conversions for a code.
func (s *ConversionService) RecentByRefCode(code string, limit int) ([]models.Conversion, error) {
	var rows []models.Conversion
	if err := s.DB.Where("ref_code = ?", code).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch conversions: %w", err)
	}
	return rows, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
