package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lernora/lernora/internal/enrollment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, sub *domain.Subscription) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subscriptions (id, user_id, course_id, group_id, access_granted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.ID,
		sub.UserID,
		sub.CourseID,
		sub.GroupID,
		sub.AccessGranted,
		sub.CreatedAt,
		sub.UpdatedAt,
	).Error
}

func (r *repo) FindByUserAndCourse(ctx context.Context, db *gorm.DB, userID, courseID snowflake.ID) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, course_id, group_id, access_granted, created_at, updated_at
		 FROM subscriptions WHERE user_id = ? AND course_id = ?`,
		userID,
		courseID,
	).Scan(&sub).Error
	if err != nil {
		return nil, err
	}
	if sub.ID == 0 {
		return nil, nil
	}
	return &sub, nil
}

func (r *repo) SetAccessGranted(ctx context.Context, db *gorm.DB, id snowflake.ID, granted bool, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE subscriptions SET access_granted = ?, updated_at = ? WHERE id = ?`,
		granted,
		now,
		id,
	).Error
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*domain.SubscriptionView, error) {
	var subs []*domain.SubscriptionView
	err := db.WithContext(ctx).Raw(
		`SELECT s.id, s.user_id, s.course_id, s.group_id, s.access_granted,
		        s.created_at, s.updated_at,
		        c.title AS course_title,
		        COALESCE(g.title, '') AS group_title
		 FROM subscriptions s
		 JOIN courses c ON c.id = s.course_id
		 LEFT JOIN groups g ON g.id = s.group_id
		 WHERE s.user_id = ?
		 ORDER BY s.created_at DESC, s.id DESC`,
		userID,
	).Scan(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repo) HasActiveSubscription(ctx context.Context, db *gorm.DB, userID, courseID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM subscriptions
		 WHERE user_id = ? AND course_id = ? AND access_granted = ?`,
		userID,
		courseID,
		true,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
