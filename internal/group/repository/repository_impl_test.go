package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	coursedomain "github.com/lernora/lernora/internal/course/domain"
	enrollmentdomain "github.com/lernora/lernora/internal/enrollment/domain"
	"github.com/lernora/lernora/internal/group/domain"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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

	if err := db.AutoMigrate(
		&coursedomain.Course{},
		&domain.Group{},
		&enrollmentdomain.Subscription{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return node
}

func insertGroup(t *testing.T, db *gorm.DB, node *snowflake.Node, courseID snowflake.ID, title string) domain.Group {
	t.Helper()
	now := time.Now().UTC()
	group := domain.Group{
		ID:        node.Generate(),
		CourseID:  courseID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(&group).Error; err != nil {
		t.Fatalf("insert group: %v", err)
	}
	return group
}

func insertMember(t *testing.T, db *gorm.DB, node *snowflake.Node, courseID snowflake.ID, groupID snowflake.ID) {
	t.Helper()
	now := time.Now().UTC()
	sub := enrollmentdomain.Subscription{
		ID:            node.Generate(),
		UserID:        node.Generate(),
		CourseID:      courseID,
		GroupID:       &groupID,
		AccessGranted: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("insert subscription: %v", err)
	}
}

func TestFindLeastLoadedPicksSmallestGroup(t *testing.T) {
	db := openTestDB(t)
	node := mustNode(t)
	repo := Provide()
	ctx := context.Background()

	courseID := node.Generate()
	full := insertGroup(t, db, node, courseID, "full")
	light := insertGroup(t, db, node, courseID, "light")

	for range 3 {
		insertMember(t, db, node, courseID, full.ID)
	}
	insertMember(t, db, node, courseID, light.ID)

	got, err := repo.FindLeastLoaded(ctx, db, courseID)
	if err != nil {
		t.Fatalf("find least loaded: %v", err)
	}
	if got == nil || got.ID != light.ID {
		t.Fatalf("expected group %s, got %+v", light.ID, got)
	}
}

func TestFindLeastLoadedTieBreaksOnLowestID(t *testing.T) {
	db := openTestDB(t)
	node := mustNode(t)
	repo := Provide()
	ctx := context.Background()

	courseID := node.Generate()
	first := insertGroup(t, db, node, courseID, "first")
	second := insertGroup(t, db, node, courseID, "second")
	insertMember(t, db, node, courseID, first.ID)
	insertMember(t, db, node, courseID, second.ID)

	// Same run against the same data must keep returning the same group.
	for range 3 {
		got, err := repo.FindLeastLoaded(ctx, db, courseID)
		if err != nil {
			t.Fatalf("find least loaded: %v", err)
		}
		if got == nil || got.ID != first.ID {
			t.Fatalf("expected deterministic pick %s, got %+v", first.ID, got)
		}
	}
}

func TestFindLeastLoadedIgnoresOtherCourses(t *testing.T) {
	db := openTestDB(t)
	node := mustNode(t)
	repo := Provide()
	ctx := context.Background()

	courseID := node.Generate()
	otherCourseID := node.Generate()
	mine := insertGroup(t, db, node, courseID, "mine")
	other := insertGroup(t, db, node, otherCourseID, "other")
	insertMember(t, db, node, courseID, mine.ID)

	got, err := repo.FindLeastLoaded(ctx, db, courseID)
	if err != nil {
		t.Fatalf("find least loaded: %v", err)
	}
	if got == nil || got.ID != mine.ID {
		t.Fatalf("expected group %s, got %+v", mine.ID, got)
	}
	if got.ID == other.ID {
		t.Fatal("picked a group from another course")
	}
}

func TestFindLeastLoadedNoGroups(t *testing.T) {
	db := openTestDB(t)
	node := mustNode(t)
	repo := Provide()
	ctx := context.Background()

	got, err := repo.FindLeastLoaded(ctx, db, node.Generate())
	if err != nil {
		t.Fatalf("find least loaded: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for a course without groups, got %+v", got)
	}
}

func TestListByCourseReportsMemberCounts(t *testing.T) {
	db := openTestDB(t)
	node := mustNode(t)
	repo := Provide()
	ctx := context.Background()

	courseID := node.Generate()
	a := insertGroup(t, db, node, courseID, "a")
	b := insertGroup(t, db, node, courseID, "b")
	insertMember(t, db, node, courseID, a.ID)
	insertMember(t, db, node, courseID, a.ID)

	groups, err := repo.ListByCourse(ctx, db, courseID)
	if err != nil {
		t.Fatalf("list by course: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	counts := map[snowflake.ID]int64{}
	for _, g := range groups {
		counts[g.ID] = g.MemberCount
	}
	if counts[a.ID] != 2 || counts[b.ID] != 0 {
		t.Fatalf("unexpected member counts: %v", counts)
	}
}
