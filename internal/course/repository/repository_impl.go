package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lernora/lernora/internal/course/domain"
	"github.com/lernora/lernora/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, course *domain.Course) error {
	return db.WithContext(ctx).Create(course).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, course *domain.Course) error {
	return db.WithContext(ctx).Save(course).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Course{}, "id = ?", id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Course, error) {
	var course domain.Course
	err := db.WithContext(ctx).Raw(
		`SELECT id, title, slug, author, price, starts_at, metadata, created_at, updated_at
		 FROM courses WHERE id = ?`,
		id,
	).Scan(&course).Error
	if err != nil {
		return nil, err
	}
	if course.ID == 0 {
		return nil, nil
	}
	return &course, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListCourseFilter, page pagination.Pagination) ([]*domain.Course, error) {
	var courses []*domain.Course
	stmt := db.WithContext(ctx).Model(&domain.Course{})
	if filter.Author != "" {
		stmt = stmt.Where("author = ?", filter.Author)
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		// Snowflake IDs are time-ordered, so the ID carries the sort key.
		afterID, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where("id < ?", afterID)
	}
	limit := page.PageSize
	if limit <= 0 {
		limit = 20
	}
	err := stmt.
		Order("id desc").
		Limit(limit + 1).
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *repo) InsertLesson(ctx context.Context, db *gorm.DB, lesson *domain.Lesson) error {
	return db.WithContext(ctx).Create(lesson).Error
}

func (r *repo) UpdateLesson(ctx context.Context, db *gorm.DB, lesson *domain.Lesson) error {
	return db.WithContext(ctx).Save(lesson).Error
}

func (r *repo) DeleteLesson(ctx context.Context, db *gorm.DB, courseID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Delete(&domain.Lesson{}, "course_id = ? AND id = ?", courseID, id).Error
}

func (r *repo) FindLessonByID(ctx context.Context, db *gorm.DB, courseID, id snowflake.ID) (*domain.Lesson, error) {
	var lesson domain.Lesson
	err := db.WithContext(ctx).Raw(
		`SELECT id, course_id, title, video_url, position, created_at, updated_at
		 FROM lessons WHERE course_id = ? AND id = ?`,
		courseID,
		id,
	).Scan(&lesson).Error
	if err != nil {
		return nil, err
	}
	if lesson.ID == 0 {
		return nil, nil
	}
	return &lesson, nil
}

func (r *repo) ListLessons(ctx context.Context, db *gorm.DB, courseID snowflake.ID) ([]*domain.Lesson, error) {
	var lessons []*domain.Lesson
	err := db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("position asc, id asc").
		Find(&lessons).Error
	if err != nil {
		return nil, err
	}
	return lessons, nil
}
