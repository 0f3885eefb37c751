package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/lernora/lernora/internal/clock"
	enrollmentdomain "github.com/lernora/lernora/internal/enrollment/domain"
	"github.com/lernora/lernora/internal/group/domain"
	"github.com/lernora/lernora/internal/group/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAssignerForTest(t *testing.T) (*Assigner, *gorm.DB, *snowflake.Node) {
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

	if err := db.AutoMigrate(&domain.Group{}, &enrollmentdomain.Subscription{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	assigner := NewAssigner(AssignerParams{
		Log:   zap.NewNop(),
		Clock: clock.NewSystemClock(),
		Repo:  repository.Provide(),
	})
	return assigner, db, node
}

func createGroup(t *testing.T, db *gorm.DB, node *snowflake.Node, courseID snowflake.ID, title string) domain.Group {
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
		t.Fatalf("create group: %v", err)
	}
	return group
}

func createSubscription(t *testing.T, db *gorm.DB, node *snowflake.Node, courseID snowflake.ID) enrollmentdomain.Subscription {
	t.Helper()
	now := time.Now().UTC()
	sub := enrollmentdomain.Subscription{
		ID:            node.Generate(),
		UserID:        node.Generate(),
		CourseID:      courseID,
		AccessGranted: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	return sub
}

func subscriptionGroup(t *testing.T, db *gorm.DB, id snowflake.ID) *snowflake.ID {
	t.Helper()
	var sub enrollmentdomain.Subscription
	if err := db.Raw(`SELECT id, group_id FROM subscriptions WHERE id = ?`, id).Scan(&sub).Error; err != nil {
		t.Fatalf("read subscription: %v", err)
	}
	return sub.GroupID
}

func TestAssignPlacesSubscriptionInLeastLoadedGroup(t *testing.T) {
	assigner, db, node := newAssignerForTest(t)
	ctx := context.Background()

	courseID := node.Generate()
	groupA := createGroup(t, db, node, courseID, "A")
	createGroup(t, db, node, courseID, "B")

	sub := createSubscription(t, db, node, courseID)
	assigned, err := assigner.Assign(ctx, db, courseID, sub.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigned == nil || assigned.ID != groupA.ID {
		t.Fatalf("expected group %s, got %+v", groupA.ID, assigned)
	}
	if got := subscriptionGroup(t, db, sub.ID); got == nil || *got != groupA.ID {
		t.Fatalf("expected persisted group %s, got %v", groupA.ID, got)
	}
}

func TestAssignBalancesAcrossGroups(t *testing.T) {
	assigner, db, node := newAssignerForTest(t)
	ctx := context.Background()

	courseID := node.Generate()
	createGroup(t, db, node, courseID, "A")
	createGroup(t, db, node, courseID, "B")
	createGroup(t, db, node, courseID, "C")

	counts := map[snowflake.ID]int{}
	for range 9 {
		sub := createSubscription(t, db, node, courseID)
		assigned, err := assigner.Assign(ctx, db, courseID, sub.ID)
		if err != nil {
			t.Fatalf("assign: %v", err)
		}
		if assigned == nil {
			t.Fatal("expected an assignment")
		}
		counts[assigned.ID]++
	}

	for id, n := range counts {
		if n != 3 {
			t.Fatalf("expected 3 members per group, group %s has %d", id, n)
		}
	}
}

func TestAssignIsStickyForAssignedSubscriptions(t *testing.T) {
	assigner, db, node := newAssignerForTest(t)
	ctx := context.Background()

	courseID := node.Generate()
	groupA := createGroup(t, db, node, courseID, "A")
	createGroup(t, db, node, courseID, "B")

	sub := createSubscription(t, db, node, courseID)
	if _, err := assigner.Assign(ctx, db, courseID, sub.ID); err != nil {
		t.Fatalf("first assign: %v", err)
	}

	// Fill group A so a second pass would prefer B.
	for range 2 {
		extra := createSubscription(t, db, node, courseID)
		if _, err := assigner.Assign(ctx, db, courseID, extra.ID); err != nil {
			t.Fatalf("extra assign: %v", err)
		}
	}

	reassigned, err := assigner.Assign(ctx, db, courseID, sub.ID)
	if err != nil {
		t.Fatalf("repeat assign: %v", err)
	}
	if reassigned != nil {
		t.Fatalf("expected no reassignment, got %+v", reassigned)
	}
	if got := subscriptionGroup(t, db, sub.ID); got == nil || *got != groupA.ID {
		t.Fatalf("expected subscription to stay in %s, got %v", groupA.ID, got)
	}
}

func TestAssignNoGroupsIsNoop(t *testing.T) {
	assigner, db, node := newAssignerForTest(t)
	ctx := context.Background()

	courseID := node.Generate()
	sub := createSubscription(t, db, node, courseID)

	assigned, err := assigner.Assign(ctx, db, courseID, sub.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigned != nil {
		t.Fatalf("expected nil group, got %+v", assigned)
	}
	if got := subscriptionGroup(t, db, sub.ID); got != nil {
		t.Fatalf("expected NULL group, got %v", got)
	}
}
