package authorization

import "context"

type Service interface {
	// Authorize checks whether the actor may perform action on object.
	// Actors are "user:<id>" strings; roles derive from the account's
	// staff flag.
	Authorize(ctx context.Context, actor string, object string, action string) error

	// RequireActiveSubscription gates course content behind an
	// access-granted subscription. Staff bypass the check.
	RequireActiveSubscription(ctx context.Context, userID string, courseID string) error
}
