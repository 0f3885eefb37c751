package domain

import (
	"context"
	"errors"
)

type CreditRequest struct {
	UserID string `json:"-"`
	Amount int64  `json:"amount"`
}

type Service interface {
	Get(ctx context.Context, userID string) (Balance, error)
	Credit(ctx context.Context, req CreditRequest) (Balance, error)
}

var (
	ErrNotFound      = errors.New("balance_not_found")
	ErrInvalidUser   = errors.New("invalid_user")
	ErrInvalidAmount = errors.New("invalid_amount")
)
