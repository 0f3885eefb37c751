package domain

import (
	"context"
	"errors"
)

type PurchaseRequest struct {
	UserID   string `json:"-"`
	CourseID string `json:"-"`
}

// PurchaseResult reports what the purchase did. Repurchased is true when the
// user already held a subscription and access was re-granted instead of a
// new row being created.
type PurchaseResult struct {
	Subscription Subscription `json:"subscription"`
	Repurchased  bool         `json:"repurchased"`
}

type Service interface {
	// Purchase debits the course price from the buyer's bonus balance and
	// grants access, all within one transaction. First-time purchases are
	// placed into the least-loaded course group.
	Purchase(ctx context.Context, req PurchaseRequest) (PurchaseResult, error)

	ListByUser(ctx context.Context, userID string) ([]SubscriptionView, error)
}

var (
	ErrNotFound          = errors.New("subscription_not_found")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInsufficientFunds = errors.New("insufficient_funds")

	// ErrConflict surfaces a concurrent duplicate purchase that lost the
	// insert race. Clients retry; the winner's subscription already exists.
	ErrConflict = errors.New("subscription_conflict")
)
