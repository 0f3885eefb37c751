package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lernora/lernora/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListCourseFilter struct {
	Author string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, course *Course) error
	Update(ctx context.Context, db *gorm.DB, course *Course) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Course, error)
	List(ctx context.Context, db *gorm.DB, filter ListCourseFilter, page pagination.Pagination) ([]*Course, error)

	InsertLesson(ctx context.Context, db *gorm.DB, lesson *Lesson) error
	UpdateLesson(ctx context.Context, db *gorm.DB, lesson *Lesson) error
	DeleteLesson(ctx context.Context, db *gorm.DB, courseID, id snowflake.ID) error
	FindLessonByID(ctx context.Context, db *gorm.DB, courseID, id snowflake.ID) (*Lesson, error)
	ListLessons(ctx context.Context, db *gorm.DB, courseID snowflake.ID) ([]*Lesson, error)
}
