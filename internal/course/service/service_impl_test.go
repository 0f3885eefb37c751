package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/lernora/lernora/internal/clock"
	"github.com/lernora/lernora/internal/course/domain"
	"github.com/lernora/lernora/internal/course/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupCourseService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&domain.Course{}, &domain.Lesson{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewSystemClock(),
		Repo:  repository.Provide(),
	})
	return svc, db
}

func TestCreateCourseGeneratesSlug(t *testing.T) {
	svc, _ := setupCourseService(t)
	ctx := context.Background()

	course, err := svc.Create(ctx, domain.CreateCourseRequest{
		Title:  "Intro to Backend Engineering",
		Author: "lernora",
		Price:  500,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if course.Slug != "intro-to-backend-engineering" {
		t.Fatalf("unexpected slug %q", course.Slug)
	}
}

func TestCreateCourseDisambiguatesDuplicateSlug(t *testing.T) {
	svc, _ := setupCourseService(t)
	ctx := context.Background()

	req := domain.CreateCourseRequest{Title: "Same Title", Author: "lernora", Price: 100}
	first, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if first.Slug == second.Slug {
		t.Fatalf("expected distinct slugs, both %q", first.Slug)
	}
	if second.Slug != "same-title-"+second.ID.String() {
		t.Fatalf("unexpected disambiguated slug %q", second.Slug)
	}
}

func TestCreateCourseRejectsNegativePrice(t *testing.T) {
	svc, _ := setupCourseService(t)

	_, err := svc.Create(context.Background(), domain.CreateCourseRequest{
		Title: "Paid Course",
		Price: -1,
	})
	if !errors.Is(err, domain.ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
}

func TestUpdateCoursePartialFields(t *testing.T) {
	svc, _ := setupCourseService(t)
	ctx := context.Background()

	course, err := svc.Create(ctx, domain.CreateCourseRequest{
		Title:  "Original",
		Author: "someone",
		Price:  100,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newPrice := int64(250)
	updated, err := svc.Update(ctx, domain.UpdateCourseRequest{
		ID:    course.ID.String(),
		Price: &newPrice,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 250 {
		t.Fatalf("expected price 250, got %d", updated.Price)
	}
	if updated.Title != "Original" {
		t.Fatalf("title should be untouched, got %q", updated.Title)
	}
}

func TestListCoursesPaginates(t *testing.T) {
	svc, _ := setupCourseService(t)
	ctx := context.Background()

	for i := range 5 {
		if _, err := svc.Create(ctx, domain.CreateCourseRequest{
			Title:  fmt.Sprintf("Course %d", i),
			Author: "lernora",
			Price:  10,
		}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	page, err := svc.List(ctx, domain.ListCourseRequest{PageSize: 3})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Courses) != 3 {
		t.Fatalf("expected 3 courses, got %d", len(page.Courses))
	}
	if !page.HasMore || page.NextPageToken == "" {
		t.Fatalf("expected a next page, got %+v", page.PageInfo)
	}

	rest, err := svc.List(ctx, domain.ListCourseRequest{PageSize: 3, PageToken: page.NextPageToken})
	if err != nil {
		t.Fatalf("list rest: %v", err)
	}
	if len(rest.Courses) != 2 {
		t.Fatalf("expected 2 remaining courses, got %d", len(rest.Courses))
	}
	if rest.HasMore {
		t.Fatal("expected final page")
	}

	seen := map[string]bool{}
	for _, c := range append(page.Courses, rest.Courses...) {
		if seen[c.ID.String()] {
			t.Fatalf("course %s returned twice", c.ID)
		}
		seen[c.ID.String()] = true
	}
}

func TestLessonLifecycle(t *testing.T) {
	svc, _ := setupCourseService(t)
	ctx := context.Background()

	course, err := svc.Create(ctx, domain.CreateCourseRequest{Title: "With Lessons", Price: 0})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}

	lesson, err := svc.CreateLesson(ctx, domain.CreateLessonRequest{
		CourseID: course.ID.String(),
		Title:    "First lesson",
		Position: 1,
	})
	if err != nil {
		t.Fatalf("create lesson: %v", err)
	}

	newTitle := "Renamed lesson"
	updated, err := svc.UpdateLesson(ctx, domain.UpdateLessonRequest{
		CourseID: course.ID.String(),
		ID:       lesson.ID.String(),
		Title:    &newTitle,
	})
	if err != nil {
		t.Fatalf("update lesson: %v", err)
	}
	if updated.Title != newTitle {
		t.Fatalf("expected renamed lesson, got %q", updated.Title)
	}

	lessons, err := svc.ListLessons(ctx, course.ID.String())
	if err != nil {
		t.Fatalf("list lessons: %v", err)
	}
	if len(lessons) != 1 {
		t.Fatalf("expected 1 lesson, got %d", len(lessons))
	}

	if err := svc.DeleteLesson(ctx, course.ID.String(), lesson.ID.String()); err != nil {
		t.Fatalf("delete lesson: %v", err)
	}
	if err := svc.DeleteLesson(ctx, course.ID.String(), lesson.ID.String()); !errors.Is(err, domain.ErrLessonNotFound) {
		t.Fatalf("expected ErrLessonNotFound, got %v", err)
	}
}
