// models/presale_round.go
package models

import "time"

// PresaleRoundMirror is a local read-side copy of per-round presale state
// pulled from the contract-reader service. The front-end renders rounds and
// vesting terms from these rows instead of hitting the chain on every page
// load. Owned by the presale sync worker.
// Table name: presale_round_mirror
type PresaleRoundMirror struct {
	RoundIndex     int       `gorm:"primaryKey;autoIncrement:false" json:"round_index"`
	TokenPriceUSD  string    `gorm:"type:varchar(64);not null" json:"token_price_usd"` // decimal string
	CapTokens      string    `gorm:"type:varchar(64);not null" json:"cap_tokens"`
	SoldTokens     string    `gorm:"type:varchar(64);not null" json:"sold_tokens"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	TGEUnlockBps   int       `gorm:"not null" json:"tge_unlock_bps"` // basis points released at TGE
	CliffDays      int       `gorm:"not null" json:"cliff_days"`
	VestingDays    int       `gorm:"not null" json:"vesting_days"`
	IsActive       bool      `gorm:"not null" json:"is_active"`
	LastSyncedAt   time.Time `gorm:"not null" json:"last_synced_at"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PresaleRoundMirror) TableName() string {
	return "presale_round_mirror"
}
