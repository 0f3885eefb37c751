package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Balance is a user's bonus-point account. Exactly one per user; the amount
// never goes below zero.
type Balance struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"not null;uniqueIndex" json:"user_id"`
	Amount    int64        `gorm:"not null;default:0" json:"amount"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Balance) TableName() string { return "balances" }
