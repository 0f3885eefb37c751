package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, group *Group) error
	Delete(ctx context.Context, db *gorm.DB, courseID, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, courseID, id snowflake.ID) (*Group, error)
	ListByCourse(ctx context.Context, db *gorm.DB, courseID snowflake.ID) ([]*GroupWithCount, error)

	// FindLeastLoaded returns the course group with the fewest member
	// subscriptions, ties broken by lowest group ID. Returns nil when the
	// course has no groups.
	FindLeastLoaded(ctx context.Context, db *gorm.DB, courseID snowflake.ID) (*Group, error)
}
