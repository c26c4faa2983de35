package model

import (
	"time"

	"gorm.io/gorm"
)

// SessionToken is the server-side record of an issued bearer token.
// Label is the device_id the token was issued for; issuing a new token
// for a label deletes every prior row sharing (user_id, label), so each
// device holds at most one live token.
type SessionToken struct {
	gorm.Model
	UserID    uint       `gorm:"column:user_id;index:idx_token_label;not null"`
	Label     string     `gorm:"column:label;size:191;index:idx_token_label;not null"`
	TokenHash string     `gorm:"column:token_hash;size:64;uniqueIndex;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
}
