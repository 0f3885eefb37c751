package domain

import (
	"context"
	"time"
)

type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

// LoginResult carries the raw session token exactly once. It is written to
// the client cookie and never persisted.
type LoginResult struct {
	User      *User
	RawToken  string
	ExpiresAt time.Time
}

type Service interface {
	// Register creates the account together with its signup bonus balance
	// in a single transaction.
	Register(ctx context.Context, req RegisterRequest) (*User, error)

	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error

	// Authenticate resolves a raw session token to its user, rejecting
	// revoked and expired sessions.
	Authenticate(ctx context.Context, rawToken string) (*User, *Session, error)
}
