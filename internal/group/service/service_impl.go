package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/lernora/lernora/internal/clock"
	coursedomain "github.com/lernora/lernora/internal/course/domain"
	"github.com/lernora/lernora/internal/group/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Courses coursedomain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	courses coursedomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("group.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		courses: p.Courses,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateGroupRequest) (domain.Group, error) {
	courseID, err := parseID(req.CourseID)
	if err != nil {
		return domain.Group{}, err
	}
	course, err := s.courses.FindByID(ctx, s.db, courseID)
	if err != nil {
		return domain.Group{}, err
	}
	if course == nil {
		return domain.Group{}, coursedomain.ErrNotFound
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Group{}, domain.ErrInvalidTitle
	}

	now := s.clock.Now()
	group := domain.Group{
		ID:        s.genID.Generate(),
		CourseID:  courseID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, &group); err != nil {
		return domain.Group{}, err
	}
	return group, nil
}

func (s *Service) Delete(ctx context.Context, rawCourseID, rawID string) error {
	courseID, err := parseID(rawCourseID)
	if err != nil {
		return err
	}
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	group, err := s.repo.FindByID(ctx, s.db, courseID, id)
	if err != nil {
		return err
	}
	if group == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, courseID, id)
}

func (s *Service) ListByCourse(ctx context.Context, rawCourseID string) ([]domain.GroupWithCount, error) {
	courseID, err := parseID(rawCourseID)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.FindByID(ctx, s.db, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, coursedomain.ErrNotFound
	}

	items, err := s.repo.ListByCourse(ctx, s.db, courseID)
	if err != nil {
		return nil, err
	}
	groups := make([]domain.GroupWithCount, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		groups = append(groups, *item)
	}
	return groups, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
