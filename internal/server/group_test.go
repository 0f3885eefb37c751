package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/lernora/lernora/internal/authorization"
	groupdomain "github.com/lernora/lernora/internal/group/domain"
)

type fakeAuthzService struct {
	subscriptionErr   error
	subscriptionCalls int
}

func (f *fakeAuthzService) Authorize(ctx context.Context, actor, object, action string) error {
	_ = ctx
	_, _, _ = actor, object, action
	return nil
}

func (f *fakeAuthzService) RequireActiveSubscription(ctx context.Context, userID, courseID string) error {
	_ = ctx
	_, _ = userID, courseID
	f.subscriptionCalls++
	return f.subscriptionErr
}

type fakeGroupService struct {
	groups    []groupdomain.GroupWithCount
	listCalls int
}

func (f *fakeGroupService) Create(ctx context.Context, req groupdomain.CreateGroupRequest) (groupdomain.Group, error) {
	_ = ctx
	_ = req
	return groupdomain.Group{}, nil
}

func (f *fakeGroupService) Delete(ctx context.Context, courseID, id string) error {
	_ = ctx
	_, _ = courseID, id
	return nil
}

func (f *fakeGroupService) ListByCourse(ctx context.Context, courseID string) ([]groupdomain.GroupWithCount, error) {
	_ = ctx
	_ = courseID
	f.listCalls++
	return f.groups, nil
}

func newGroupsRouter(authz *fakeAuthzService, groups *fakeGroupService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	srv := &Server{authzSvc: authz, groupSvc: groups}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/v1/courses/:course_id/groups",
		setTestUser(userID),
		srv.authorize(authorization.ObjectGroup, authorization.ActionView),
		srv.RequireSubscription(),
		srv.ListGroups,
	)
	return router
}

func TestListGroupsRequiresActiveSubscription(t *testing.T) {
	authz := &fakeAuthzService{subscriptionErr: authorization.ErrNoActiveSubscription}
	groups := &fakeGroupService{}
	router := newGroupsRouter(authz, groups, "200")

	req := httptest.NewRequest(http.MethodGet, "/v1/courses/300/groups", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
	if authz.subscriptionCalls != 1 {
		t.Fatalf("expected one subscription check, got %d", authz.subscriptionCalls)
	}
	if groups.listCalls != 0 {
		t.Fatal("expected group service not to be called")
	}
}

func TestListGroupsReturnsRosterForSubscribedUser(t *testing.T) {
	authz := &fakeAuthzService{}
	groups := &fakeGroupService{
		groups: []groupdomain.GroupWithCount{
			{Group: groupdomain.Group{ID: snowflake.ID(1), Title: "Cohort A"}, MemberCount: 3},
		},
	}
	router := newGroupsRouter(authz, groups, "200")

	req := httptest.NewRequest(http.MethodGet, "/v1/courses/300/groups", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if groups.listCalls != 1 {
		t.Fatalf("expected one list call, got %d", groups.listCalls)
	}
}
