package services

import (
	"errors"
	"fmt"
	"time"

	"presale-backend/config"
	"presale-backend/models"
	"presale-backend/refcode"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Typed outcomes the handlers map onto status codes. Anything else coming out
// of this service is a storage fault.
var (
	ErrNotAllowListed   = errors.New("address is not an approved referrer")
	ErrCodeNotFound     = errors.New("referral code not found")
	ErrReferrerNotFound = errors.New("referrer not found")
)

// ReferralService owns the referrer directory: deterministic code generation
// plus the address<->code mapping in the referrers table.
type ReferralService struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewReferralService(db *gorm.DB, cfg *config.Config) *ReferralService {
	return &ReferralService{DB: db, Cfg: cfg}
}

// GenerateCode computes the code for an address without touching the store.
func (s *ReferralService) GenerateCode(address string) string {
	return refcode.Generate(address, s.Cfg.ReferralSecret, s.Cfg.CodeLength)
}

// ResolveOrCreateCode returns the caller's referral code, creating or
// refreshing the Referrer row. Idempotent: the code is a pure function of the
// address, and the row is keyed by the unique address index, so calling this
// any number of times yields the same code and exactly one row.
//
// Only allow-listed addresses may generate codes; everyone else gets
// ErrNotAllowListed before any write.
func (s *ReferralService) ResolveOrCreateCode(address string) (string, bool, error) {
	addr := refcode.Normalize(address)
	if !s.Cfg.AllowedReferrers[addr] {
		return "", false, ErrNotAllowListed
	}

	code := s.GenerateCode(addr)
	now := time.Now().UTC()

	var ref models.Referrer
	err := s.DB.Where("address = ?", addr).First(&ref).Error
	if err == gorm.ErrRecordNotFound {
		ref = models.Referrer{
			ID:              uuid.NewString(),
			Address:         addr,
			RefCode:         code,
			LastGeneratedAt: now,
		}
		if err := s.DB.Create(&ref).Error; err != nil {
			return "", false, fmt.Errorf("failed to create referrer: %w", err)
		}
		return code, true, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to load referrer: %w", err)
	}

	ref.RefCode = code
	ref.LastGeneratedAt = now
	if err := s.DB.Save(&ref).Error; err != nil {
		return "", false, fmt.Errorf("failed to refresh referrer: %w", err)
	}
	return code, false, nil
}

// LookupByCode resolves a referral code to its referrer. A missing code is a
// normal business outcome (ErrCodeNotFound), distinct from the store being
// unreachable.
func (s *ReferralService) LookupByCode(code string) (*models.Referrer, error) {
	var ref models.Referrer
	if err := s.DB.Where("ref_code = ?", code).First(&ref).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to look up referral code: %w", err)
	}
	return &ref, nil
}

// LookupByAddress returns the Referrer row for a wallet, if one exists.
func (s *ReferralService) LookupByAddress(address string) (*models.Referrer, error) {
	var ref models.Referrer
	if err := s.DB.Where("address = ?", refcode.Normalize(address)).First(&ref).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrReferrerNotFound
		}
		return nil, fmt.Errorf("failed to look up referrer: %w", err)
	}
	return &ref, nil
}

// ReferralLink builds the shareable landing link for a code. A campaign name,
// when given, is slugified into a utm_campaign tag so dashboards group its
// traffic consistently.
func (s *ReferralService) ReferralLink(code, campaign string) string {
	link := fmt.Sprintf("%s/?ref=%s", s.Cfg.LandingBaseURL, code)
	if campaign != "" {
		link += "&utm_campaign=" + slug.Make(campaign)
	}
	return link
}
