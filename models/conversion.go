package models

import "time"

// Conversion is one credited purchase: a confirmed on-chain buy reconciled
// against the buyer's stored attribution. Rows are written once by the
// conversion recorder and never updated or deleted.
type Conversion struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index;not null;autoCreateTime" json:"created_at"`

	ReferrerAddress string  `gorm:"index;not null" json:"referrer_address"`
	BuyerAddress    string  `gorm:"not null" json:"buyer_address"`
	TxHash          string  `gorm:"index:idx_conversions_chain_tx;not null" json:"tx_hash"`
	ChainID         int64   `gorm:"index:idx_conversions_chain_tx;not null" json:"chain_id"`
	Amount          *string `json:"amount,omitempty"` // decimal string, token units

	RefCode     string  `gorm:"index;not null" json:"ref_code"`
	UTMSource   *string `json:"utm_source,omitempty"`
	UTMMedium   *string `json:"utm_medium,omitempty"`
	UTMCampaign *string `json:"utm_campaign,omitempty"`
	UTMContent  *string `json:"utm_content,omitempty"`
	UTMTerm     *string `json:"utm_term,omitempty"`
}
