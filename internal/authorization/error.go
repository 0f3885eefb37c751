package authorization

import "errors"

var (
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidActor  = errors.New("invalid actor")
	ErrInvalidObject = errors.New("invalid object")
	ErrInvalidAction = errors.New("invalid action")

	// ErrNoActiveSubscription rejects content access for users who never
	// purchased the course or whose access was revoked.
	ErrNoActiveSubscription = errors.New("no active subscription")
)
