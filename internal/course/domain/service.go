package domain

import (
	"context"
	"errors"
	"time"

	"github.com/lernora/lernora/pkg/db/pagination"
)

type CreateCourseRequest struct {
	Title    string         `json:"title"`
	Author   string         `json:"author"`
	Price    int64          `json:"price"`
	StartsAt *time.Time     `json:"starts_at,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type UpdateCourseRequest struct {
	ID       string     `json:"-"`
	Title    *string    `json:"title,omitempty"`
	Author   *string    `json:"author,omitempty"`
	Price    *int64     `json:"price,omitempty"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
}

type ListCourseRequest struct {
	Author    string
	PageToken string
	PageSize  int
}

type ListCourseResponse struct {
	pagination.PageInfo
	Courses []Course `json:"courses"`
}

type CreateLessonRequest struct {
	CourseID string `json:"-"`
	Title    string `json:"title"`
	VideoURL string `json:"video_url"`
	Position int    `json:"position"`
}

type UpdateLessonRequest struct {
	CourseID string  `json:"-"`
	ID       string  `json:"-"`
	Title    *string `json:"title,omitempty"`
	VideoURL *string `json:"video_url,omitempty"`
	Position *int    `json:"position,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateCourseRequest) (Course, error)
	Update(ctx context.Context, req UpdateCourseRequest) (Course, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Course, error)
	List(ctx context.Context, req ListCourseRequest) (ListCourseResponse, error)

	CreateLesson(ctx context.Context, req CreateLessonRequest) (Lesson, error)
	UpdateLesson(ctx context.Context, req UpdateLessonRequest) (Lesson, error)
	DeleteLesson(ctx context.Context, courseID, id string) error
	ListLessons(ctx context.Context, courseID string) ([]Lesson, error)
}

var (
	ErrNotFound       = errors.New("course_not_found")
	ErrLessonNotFound = errors.New("lesson_not_found")
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidTitle   = errors.New("invalid_title")
	ErrInvalidPrice   = errors.New("invalid_price")
)
