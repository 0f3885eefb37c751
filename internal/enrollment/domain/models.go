package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Subscription ties a user to a course. The (user_id, course_id) pair is
// unique: a user holds at most one subscription per course, and repurchases
// reuse the existing row. GroupID stays NULL until the first-time purchase
// places the subscription, or forever when the course has no groups.
type Subscription struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	UserID        snowflake.ID  `gorm:"not null;uniqueIndex:idx_subscriptions_user_course" json:"user_id"`
	CourseID      snowflake.ID  `gorm:"not null;uniqueIndex:idx_subscriptions_user_course" json:"course_id"`
	GroupID       *snowflake.ID `gorm:"index" json:"group_id,omitempty"`
	AccessGranted bool          `gorm:"not null;default:false" json:"access_granted"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

// SubscriptionView joins a subscription with its course and group titles
// for listing endpoints.
type SubscriptionView struct {
	Subscription
	CourseTitle string `json:"course_title"`
	GroupTitle  string `json:"group_title,omitempty"`
}
