package models

import (
	"time"

	"gorm.io/gorm"
)

// Referrer binds a wallet address to its referral code.
// Address is lowercase-normalized before it ever reaches this table;
// generation is idempotent, so the unique index is the only guard we need.
type Referrer struct {
	ID              string    `gorm:"primaryKey;type:uuid" json:"id"`
	Address         string    `gorm:"uniqueIndex;not null" json:"address"`
	RefCode         string    `gorm:"uniqueIndex;not null" json:"ref_code"`
	LastGeneratedAt time.Time `gorm:"not null" json:"last_generated_at"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
