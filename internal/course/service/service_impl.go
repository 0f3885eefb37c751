package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/lernora/lernora/internal/clock"
	"github.com/lernora/lernora/internal/course/domain"
	"github.com/lernora/lernora/pkg/db"
	"github.com/lernora/lernora/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("course.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCourseRequest) (domain.Course, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Course{}, domain.ErrInvalidTitle
	}
	if req.Price < 0 {
		return domain.Course{}, domain.ErrInvalidPrice
	}

	now := s.clock.Now()
	course := domain.Course{
		ID:        s.genID.Generate(),
		Title:     title,
		Author:    strings.TrimSpace(req.Author),
		Price:     req.Price,
		StartsAt:  req.StartsAt,
		Metadata:  datatypes.JSONMap(req.Metadata),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if course.Metadata == nil {
		course.Metadata = datatypes.JSONMap{}
	}
	course.Slug = slug.Make(title)

	err := s.repo.Insert(ctx, s.db, &course)
	if db.IsDuplicateKeyErr(err) {
		// Slug collision: disambiguate with the ID suffix and retry once.
		course.Slug = fmt.Sprintf("%s-%s", course.Slug, course.ID.String())
		err = s.repo.Insert(ctx, s.db, &course)
	}
	if err != nil {
		return domain.Course{}, err
	}
	return course, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCourseRequest) (domain.Course, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Course{}, err
	}

	course, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Course{}, err
	}
	if course == nil {
		return domain.Course{}, domain.ErrNotFound
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return domain.Course{}, domain.ErrInvalidTitle
		}
		course.Title = title
	}
	if req.Author != nil {
		course.Author = strings.TrimSpace(*req.Author)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return domain.Course{}, domain.ErrInvalidPrice
		}
		course.Price = *req.Price
	}
	if req.StartsAt != nil {
		course.StartsAt = req.StartsAt
	}
	course.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, course); err != nil {
		return domain.Course{}, err
	}
	return *course, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	course, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if course == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Course, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Course{}, err
	}
	course, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Course{}, err
	}
	if course == nil {
		return domain.Course{}, domain.ErrNotFound
	}
	return *course, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCourseRequest) (domain.ListCourseResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	items, err := s.repo.List(ctx, s.db, domain.ListCourseFilter{
		Author: strings.TrimSpace(req.Author),
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListCourseResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(course *domain.Course) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        course.ID.String(),
			CreatedAt: course.CreatedAt.Format("2006-01-02T15:04:05.999999999Z07:00"),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	courses := make([]domain.Course, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		courses = append(courses, *item)
	}

	resp := domain.ListCourseResponse{Courses: courses}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) CreateLesson(ctx context.Context, req domain.CreateLessonRequest) (domain.Lesson, error) {
	courseID, err := parseID(req.CourseID)
	if err != nil {
		return domain.Lesson{}, err
	}
	course, err := s.repo.FindByID(ctx, s.db, courseID)
	if err != nil {
		return domain.Lesson{}, err
	}
	if course == nil {
		return domain.Lesson{}, domain.ErrNotFound
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Lesson{}, domain.ErrInvalidTitle
	}

	now := s.clock.Now()
	lesson := domain.Lesson{
		ID:        s.genID.Generate(),
		CourseID:  courseID,
		Title:     title,
		VideoURL:  strings.TrimSpace(req.VideoURL),
		Position:  req.Position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertLesson(ctx, s.db, &lesson); err != nil {
		return domain.Lesson{}, err
	}
	return lesson, nil
}

func (s *Service) UpdateLesson(ctx context.Context, req domain.UpdateLessonRequest) (domain.Lesson, error) {
	courseID, err := parseID(req.CourseID)
	if err != nil {
		return domain.Lesson{}, err
	}
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Lesson{}, err
	}

	lesson, err := s.repo.FindLessonByID(ctx, s.db, courseID, id)
	if err != nil {
		return domain.Lesson{}, err
	}
	if lesson == nil {
		return domain.Lesson{}, domain.ErrLessonNotFound
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return domain.Lesson{}, domain.ErrInvalidTitle
		}
		lesson.Title = title
	}
	if req.VideoURL != nil {
		lesson.VideoURL = strings.TrimSpace(*req.VideoURL)
	}
	if req.Position != nil {
		lesson.Position = *req.Position
	}
	lesson.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateLesson(ctx, s.db, lesson); err != nil {
		return domain.Lesson{}, err
	}
	return *lesson, nil
}

func (s *Service) DeleteLesson(ctx context.Context, rawCourseID, rawID string) error {
	courseID, err := parseID(rawCourseID)
	if err != nil {
		return err
	}
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	lesson, err := s.repo.FindLessonByID(ctx, s.db, courseID, id)
	if err != nil {
		return err
	}
	if lesson == nil {
		return domain.ErrLessonNotFound
	}
	return s.repo.DeleteLesson(ctx, s.db, courseID, id)
}

func (s *Service) ListLessons(ctx context.Context, rawCourseID string) ([]domain.Lesson, error) {
	courseID, err := parseID(rawCourseID)
	if err != nil {
		return nil, err
	}
	course, err := s.repo.FindByID(ctx, s.db, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, domain.ErrNotFound
	}

	items, err := s.repo.ListLessons(ctx, s.db, courseID)
	if err != nil {
		return nil, err
	}
	lessons := make([]domain.Lesson, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		lessons = append(lessons, *item)
	}
	return lessons, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
