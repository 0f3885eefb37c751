package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Insert creates a new subscription row. The unique (user_id, course_id)
	// index rejects concurrent duplicates; callers translate the duplicate
	// key error.
	Insert(ctx context.Context, db *gorm.DB, sub *Subscription) error

	FindByUserAndCourse(ctx context.Context, db *gorm.DB, userID, courseID snowflake.ID) (*Subscription, error)
	SetAccessGranted(ctx context.Context, db *gorm.DB, id snowflake.ID, granted bool, now time.Time) error
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*SubscriptionView, error)

	// HasActiveSubscription reports whether the user holds an access-granted
	// subscription for the course. Used by content authorization checks.
	HasActiveSubscription(ctx context.Context, db *gorm.DB, userID, courseID snowflake.ID) (bool, error)
}
