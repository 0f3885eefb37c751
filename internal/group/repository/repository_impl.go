package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lernora/lernora/internal/group/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, group *domain.Group) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO groups (id, course_id, title, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		group.ID,
		group.CourseID,
		group.Title,
		group.CreatedAt,
		group.UpdatedAt,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, courseID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Delete(&domain.Group{}, "course_id = ? AND id = ?", courseID, id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, courseID, id snowflake.ID) (*domain.Group, error) {
	var group domain.Group
	err := db.WithContext(ctx).Raw(
		`SELECT id, course_id, title, created_at, updated_at
		 FROM groups WHERE course_id = ? AND id = ?`,
		courseID,
		id,
	).Scan(&group).Error
	if err != nil {
		return nil, err
	}
	if group.ID == 0 {
		return nil, nil
	}
	return &group, nil
}

func (r *repo) ListByCourse(ctx context.Context, db *gorm.DB, courseID snowflake.ID) ([]*domain.GroupWithCount, error) {
	var groups []*domain.GroupWithCount
	err := db.WithContext(ctx).Raw(
		`SELECT g.id, g.course_id, g.title, g.created_at, g.updated_at,
		        COUNT(s.id) AS member_count
		 FROM groups g
		 LEFT JOIN subscriptions s ON s.group_id = g.id
		 WHERE g.course_id = ?
		 GROUP BY g.id, g.course_id, g.title, g.created_at, g.updated_at
		 ORDER BY g.id ASC`,
		courseID,
	).Scan(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *repo) FindLeastLoaded(ctx context.Context, db *gorm.DB, courseID snowflake.ID) (*domain.Group, error) {
	// Lowest ID wins ties so repeated runs against the same data always
	// pick the same group.
	var group domain.Group
	err := db.WithContext(ctx).Raw(
		`SELECT g.id, g.course_id, g.title, g.created_at, g.updated_at
		 FROM groups g
		 LEFT JOIN subscriptions s ON s.group_id = g.id
		 WHERE g.course_id = ?
		 GROUP BY g.id, g.course_id, g.title, g.created_at, g.updated_at
		 ORDER BY COUNT(s.id) ASC, g.id ASC
		 LIMIT 1`,
		courseID,
	).Scan(&group).Error
	if err != nil {
		return nil, err
	}
	if group.ID == 0 {
		return nil, nil
	}
	return &group, nil
}
