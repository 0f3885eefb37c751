package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Group is a teaching cohort within a course. Students are distributed over
// a course's groups evenly at purchase time.
type Group struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CourseID  snowflake.ID `gorm:"not null;index" json:"course_id"`
	Title     string       `gorm:"not null" json:"title"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Group) TableName() string { return "groups" }

// GroupWithCount pairs a group with its current member count.
type GroupWithCount struct {
	Group
	MemberCount int64 `json:"member_count"`
}
