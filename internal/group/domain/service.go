package domain

import (
	"context"
	"errors"
)

type CreateGroupRequest struct {
	CourseID string `json:"-"`
	Title    string `json:"title"`
}

type Service interface {
	Create(ctx context.Context, req CreateGroupRequest) (Group, error)
	Delete(ctx context.Context, courseID, id string) error
	ListByCourse(ctx context.Context, courseID string) ([]GroupWithCount, error)
}

var (
	ErrNotFound     = errors.New("group_not_found")
	ErrInvalidID    = errors.New("invalid_id")
	ErrInvalidTitle = errors.New("invalid_title")
)
