package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Course is a purchasable catalog entry. Price is a bonus-point cost and is
// never negative; editing it does not touch existing subscriptions.
type Course struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Title     string            `gorm:"not null" json:"title"`
	Slug      string            `gorm:"not null;uniqueIndex" json:"slug"`
	Author    string            `gorm:"not null" json:"author"`
	Price     int64             `gorm:"not null;default:0" json:"price"`
	StartsAt  *time.Time        `json:"starts_at,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Course) TableName() string { return "courses" }

// Lesson belongs to exactly one course.
type Lesson struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CourseID  snowflake.ID `gorm:"not null;index" json:"course_id"`
	Title     string       `gorm:"not null" json:"title"`
	VideoURL  string       `gorm:"column:video_url" json:"video_url,omitempty"`
	Position  int          `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Lesson) TableName() string { return "lessons" }
