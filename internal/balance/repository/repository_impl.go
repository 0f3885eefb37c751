package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lernora/lernora/internal/balance/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, balance *domain.Balance) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO balances (id, user_id, amount, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		balance.ID,
		balance.UserID,
		balance.Amount,
		balance.CreatedAt,
		balance.UpdatedAt,
	).Error
}

func (r *repo) FindByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.Balance, error) {
	var balance domain.Balance
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, amount, created_at, updated_at
		 FROM balances WHERE user_id = ?`,
		userID,
	).Scan(&balance).Error
	if err != nil {
		return nil, err
	}
	if balance.ID == 0 {
		return nil, nil
	}
	return &balance, nil
}

func (r *repo) DebitIfSufficient(ctx context.Context, db *gorm.DB, userID snowflake.ID, amount int64, now time.Time) (bool, error) {
	// The amount guard in the WHERE clause is what keeps balances
	// non-negative under concurrent purchases; zero rows affected means
	// insufficient funds.
	result := db.WithContext(ctx).Exec(
		`UPDATE balances
		 SET amount = amount - ?, updated_at = ?
		 WHERE user_id = ? AND amount >= ?`,
		amount,
		now,
		userID,
		amount,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) Credit(ctx context.Context, db *gorm.DB, userID snowflake.ID, amount int64, now time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE balances
		 SET amount = amount + ?, updated_at = ?
		 WHERE user_id = ?`,
		amount,
		now,
		userID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
