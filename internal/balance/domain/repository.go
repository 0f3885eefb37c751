package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, balance *Balance) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Balance, error)

	// DebitIfSufficient atomically subtracts amount from the user's balance
	// when the remaining amount would stay non-negative. Returns false when
	// the guard fails or the balance row does not exist; nothing is written
	// in that case. now stamps updated_at.
	DebitIfSufficient(ctx context.Context, db *gorm.DB, userID snowflake.ID, amount int64, now time.Time) (bool, error)

	// Credit adds amount to the user's balance. Returns false when the
	// balance row does not exist.
	Credit(ctx context.Context, db *gorm.DB, userID snowflake.ID, amount int64, now time.Time) (bool, error)
}
